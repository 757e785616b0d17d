package batch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/todmy/pdf-eval/internal/dataset"
	"github.com/todmy/pdf-eval/internal/extract"
	"github.com/todmy/pdf-eval/internal/storage"
	"github.com/todmy/pdf-eval/internal/validators"
	"github.com/todmy/pdf-eval/pkg/models"
)

var (
	ErrInputDirMissing = errors.New("input directory does not exist")
	ErrMissingOutput   = errors.New("output files not found, try running without --existingoutput option")
	ErrNoReport        = errors.New("validator produced no report")
)

// DataFile is the name of the dataset written to the output directory
const DataFile = "data.csv"

// Config holds batch run configuration
type Config struct {
	DirIn  string
	DirOut string
	// ExistingOutput reuses reports from an earlier run instead of invoking
	// the validators
	ExistingOutput bool
	// Pdfcpu adds the pdfcpuValid column
	Pdfcpu bool
	// SkipMalformed logs and skips files whose reports cannot be read
	SkipMalformed bool
}

// Checker reports whether a PDF passes an in-process validator
type Checker interface {
	Check(pdf string) models.Flag
}

// Result describes a finished run
type Result struct {
	RunID   uuid.UUID
	Dataset models.Dataset
	CSVPath string
	Skipped []string
}

// Service runs both validators over a directory and collects a dataset
type Service struct {
	config  Config
	jhove   validators.Runner
	vera    validators.Runner
	checker Checker
	repo    storage.RowRepository
}

// Option configures a Service
type Option func(*Service)

// WithChecker sets the checker used when Config.Pdfcpu is on
func WithChecker(c Checker) Option {
	return func(s *Service) { s.checker = c }
}

// WithRepository stores every run's rows under its RunID
func WithRepository(repo storage.RowRepository) Option {
	return func(s *Service) { s.repo = repo }
}

// NewService creates a new batch service
func NewService(config Config, jhove, vera validators.Runner, opts ...Option) *Service {
	s := &Service{
		config: config,
		jhove:  jhove,
		vera:   vera,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.config.Pdfcpu && s.checker == nil {
		s.checker = validators.NewPdfcpu()
	}
	return s
}

// Run processes every *.pdf file of the input directory in name order and
// writes data.csv to the output directory
func (s *Service) Run(ctx context.Context) (*Result, error) {
	info, err := os.Stat(s.config.DirIn)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInputDirMissing, s.config.DirIn)
	}
	if err := os.MkdirAll(s.config.DirOut, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	pdfs, err := filepath.Glob(filepath.Join(s.config.DirIn, "*.pdf"))
	if err != nil {
		return nil, err
	}
	sort.Strings(pdfs)

	result := &Result{RunID: uuid.New()}
	log.Printf("Starting run %s over %d files in %s", result.RunID, len(pdfs), s.config.DirIn)

	ds := models.Dataset{
		Columns: []models.Field{models.FieldJhoveStatus, models.FieldVeraParseErrors, models.FieldVeraLogWarnings},
	}
	if s.config.Pdfcpu {
		ds.Columns = append(ds.Columns, models.FieldPdfcpuValid)
	}

	for _, pdf := range pdfs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := s.processFile(ctx, pdf)
		if err != nil {
			if s.config.SkipMalformed && errors.Is(err, extract.ErrMalformedReport) {
				log.Printf("Skipping %s: %v", filepath.Base(pdf), err)
				result.Skipped = append(result.Skipped, filepath.Base(pdf))
				continue
			}
			return nil, err
		}
		ds.Rows = append(ds.Rows, row)
	}

	result.Dataset = ds
	result.CSVPath = filepath.Join(s.config.DirOut, DataFile)
	if err := dataset.WriteCSVFile(result.CSVPath, ds); err != nil {
		return nil, err
	}

	if s.repo != nil {
		if err := s.repo.CreateBatch(ctx, result.RunID, ds.Rows); err != nil {
			return nil, fmt.Errorf("store run %s: %w", result.RunID, err)
		}
		log.Printf("Stored %d rows for run %s", len(ds.Rows), result.RunID)
	}

	log.Printf("Finished run %s: %d files, %d skipped", result.RunID, len(ds.Rows), len(result.Skipped))
	return result, nil
}

// OutputPaths returns the JHOVE and veraPDF report paths for pdf
func OutputPaths(dirOut, pdf string) (jhoveOut, veraOut string) {
	base := strings.TrimSuffix(filepath.Base(pdf), filepath.Ext(pdf))
	return filepath.Join(dirOut, base+"-jhove.xml"), filepath.Join(dirOut, base+"-vera.xml")
}

func (s *Service) missingReport(tool, fileName string) error {
	if s.config.ExistingOutput {
		return fmt.Errorf("%s %w", tool, ErrMissingOutput)
	}
	return fmt.Errorf("%s: %s %w", fileName, tool, ErrNoReport)
}

func (s *Service) processFile(ctx context.Context, pdf string) (models.Row, error) {
	fileName := filepath.Base(pdf)
	jhoveOut, veraOut := OutputPaths(s.config.DirOut, pdf)

	if !s.config.ExistingOutput {
		if err := s.jhove.Run(ctx, pdf, jhoveOut); err != nil {
			return models.Row{}, err
		}
		if err := s.vera.Run(ctx, pdf, veraOut); err != nil {
			return models.Row{}, err
		}
	}

	status, err := extract.JhoveStatusFile(jhoveOut)
	if errors.Is(err, os.ErrNotExist) {
		return models.Row{}, s.missingReport("JHOVE", fileName)
	}
	if err != nil {
		return models.Row{}, fmt.Errorf("%s: %w", fileName, err)
	}
	if err := models.ValidateValue(models.FieldJhoveStatus, status); err != nil {
		return models.Row{}, fmt.Errorf("%s: %w: %w", fileName, extract.ErrMalformedReport, err)
	}

	outcome, err := extract.VeraParseOutcomeFile(veraOut)
	if errors.Is(err, os.ErrNotExist) {
		return models.Row{}, s.missingReport("VeraPDF", fileName)
	}
	if err != nil {
		return models.Row{}, fmt.Errorf("%s: %w", fileName, err)
	}

	row := models.Row{
		FileName:        fileName,
		JhoveStatus:     models.JhoveStatus(status),
		VeraParseErrors: models.FlagOf(outcome.ParseErrorOccurred),
		VeraLogWarnings: models.FlagOf(outcome.WarningOccurred),
	}
	if s.config.Pdfcpu {
		row.PdfcpuValid = s.checker.Check(pdf)
	}
	return row, nil
}
