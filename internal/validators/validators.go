package validators

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/todmy/pdf-eval/pkg/models"
)

// Runner validates one PDF and writes the XML report to out
type Runner interface {
	Run(ctx context.Context, pdf, out string) error
}

// Jhove runs JHOVE's PDF-hul module with the XML handler
type Jhove struct {
	Bin string
}

// NewJhove creates a JHOVE runner, defaulting to "jhove" on PATH
func NewJhove(bin string) *Jhove {
	if bin == "" {
		bin = "jhove"
	}
	return &Jhove{Bin: bin}
}

// Run writes JHOVE's report for pdf to out
func (j *Jhove) Run(ctx context.Context, pdf, out string) error {
	cmd := exec.CommandContext(ctx, j.Bin, "-m", "PDF-hul", "-h", "XML", "-i", pdf, "-o", out)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	return finish("jhove", pdf, cmd.Run(), stderr.String())
}

// VeraPDF runs veraPDF with validation off and feature extraction on
type VeraPDF struct {
	Bin string
}

// NewVeraPDF creates a veraPDF runner, defaulting to "verapdf" on PATH
func NewVeraPDF(bin string) *VeraPDF {
	if bin == "" {
		bin = "verapdf"
	}
	return &VeraPDF{Bin: bin}
}

// Run captures veraPDF's report for pdf in out
func (v *VeraPDF) Run(ctx context.Context, pdf, out string) error {
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}

	cmd := exec.CommandContext(ctx, v.Bin, "--off", "--addlogs", "--extract", pdf)
	cmd.Stdout = f

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	runErr := finish("verapdf", pdf, cmd.Run(), stderr.String())
	closeErr := f.Close()
	if runErr != nil {
		// verapdf never started, so drop the empty report
		if err := os.Remove(out); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("Failed to remove %s: %v", out, err)
		}
		return runErr
	}
	if closeErr != nil {
		return fmt.Errorf("close report: %w", closeErr)
	}
	return nil
}

// finish treats a non-zero exit as a warning since the tools still write a
// report for files they reject
func finish(tool, pdf string, err error, stderr string) error {
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		log.Printf("%s exited with status %d for %s: %s", tool, exitErr.ExitCode(), pdf, strings.TrimSpace(stderr))
		return nil
	}
	return fmt.Errorf("run %s on %s: %w", tool, pdf, err)
}

// Pdfcpu validates files with pdfcpu's built-in validator
type Pdfcpu struct {
	conf *model.Configuration
}

// NewPdfcpu creates a checker using pdfcpu's default configuration
func NewPdfcpu() *Pdfcpu {
	return &Pdfcpu{conf: model.NewDefaultConfiguration()}
}

// Check reports whether pdfcpu accepts the file
func (p *Pdfcpu) Check(pdf string) models.Flag {
	if err := api.ValidateFile(pdf, p.conf); err != nil {
		log.Printf("pdfcpu rejected %s: %v", pdf, err)
		return models.FlagFalse
	}
	return models.FlagTrue
}
