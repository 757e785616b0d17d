package analysis

import (
	"fmt"
	"log"

	"github.com/todmy/pdf-eval/internal/association"
	"github.com/todmy/pdf-eval/internal/crosstab"
	"github.com/todmy/pdf-eval/internal/dataset"
	"github.com/todmy/pdf-eval/pkg/models"
)

// NamedTable is a contingency table with the name of its report file and the
// headers used to render it
type NamedTable struct {
	Name    string          `json:"name"`
	Headers []string        `json:"headers"`
	Table   *crosstab.Table `json:"table"`
}

// Finding is the outcome of one scenario. Err is set when the statistic is
// undefined for the scenario's table.
type Finding struct {
	Description string             `json:"desc"`
	Result      association.Result `json:"result"`
	Err         error              `json:"-"`
}

// Reason returns why the finding is undefined, or ""
func (f Finding) Reason() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}

// Config holds analysis configuration
type Config struct {
	ContinuityCorrection bool
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		ContinuityCorrection: false,
	}
}

// Service computes the agreement tables and statistics of a dataset
type Service struct {
	config     Config
	calculator *association.Calculator
}

// NewService creates a new analysis service
func NewService(config Config) *Service {
	return &Service{
		config: config,
		calculator: association.NewCalculator(association.Config{
			ContinuityCorrection: config.ContinuityCorrection,
		}),
	}
}

// Fold maps JHOVE's Unknown status onto Not well-formed so that every row
// fits the canonical order
func Fold(ds models.Dataset) models.Dataset {
	return dataset.Relabel(ds, models.FieldJhoveStatus, map[string]string{
		string(models.StatusUnknown): string(models.StatusNotWellFormed),
	})
}

type tableDef struct {
	name     string
	rowField models.Field
	colField models.Field
	headers  []string
}

var tableDefs = []tableDef{
	{
		name:     "jhove-vera-parserr",
		rowField: models.FieldJhoveStatus,
		colField: models.FieldVeraParseErrors,
		headers:  []string{"JHOVE status", "VeraPDF parse errors", "No VeraPDF parse errors", crosstab.MarginLabel},
	},
	{
		name:     "jhove-vera-warn",
		rowField: models.FieldJhoveStatus,
		colField: models.FieldVeraLogWarnings,
		headers:  []string{"JHOVE status", "VeraPDF warnings", "No VeraPDF warnings", crosstab.MarginLabel},
	},
	{
		name:     "jhove-rendering",
		rowField: models.FieldRendering,
		colField: models.FieldJhoveStatus,
	},
	{
		name:     "vera-parserr-rendering",
		rowField: models.FieldRendering,
		colField: models.FieldVeraParseErrors,
		headers:  []string{"Rendering", "VeraPDF parse errors", "No VeraPDF parse errors", crosstab.MarginLabel},
	},
	{
		name:     "vera-warn-rendering",
		rowField: models.FieldRendering,
		colField: models.FieldVeraLogWarnings,
		headers:  []string{"Rendering", "VeraPDF warnings", "No VeraPDF warnings", crosstab.MarginLabel},
	},
	{
		name:     "pdfcpu-rendering",
		rowField: models.FieldRendering,
		colField: models.FieldPdfcpuValid,
		headers:  []string{"Rendering", "pdfcpu invalid", "pdfcpu valid", crosstab.MarginLabel},
	},
}

// Tables builds the canonical-ordered tables for the columns present in ds.
// Unknown JHOVE statuses are folded first.
func (s *Service) Tables(ds models.Dataset) ([]NamedTable, error) {
	folded := Fold(ds)

	var out []NamedTable
	for _, def := range tableDefs {
		if !folded.Has(def.rowField) || !folded.Has(def.colField) {
			continue
		}
		t, err := crosstab.Build(folded.Rows, def.rowField, def.colField,
			crosstab.WithCanonicalOrder(def.rowField, def.colField)...)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", def.name, err)
		}
		out = append(out, NamedTable{Name: def.name, Headers: def.headers, Table: t})
	}
	return out, nil
}

// Table returns the named table, or false if ds lacks its columns
func (s *Service) Table(ds models.Dataset, name string) (NamedTable, bool, error) {
	tables, err := s.Tables(ds)
	if err != nil {
		return NamedTable{}, false, err
	}
	for _, t := range tables {
		if t.Name == name {
			return t, true, nil
		}
	}
	return NamedTable{}, false, nil
}

// Statistics computes one finding per scenario. Each lumping applies to a
// fresh copy of the folded dataset.
func (s *Service) Statistics(ds models.Dataset) []Finding {
	folded := Fold(ds)

	scenarios := Scenarios(folded)
	findings := make([]Finding, 0, len(scenarios))
	for _, sc := range scenarios {
		data := folded
		if sc.Lumping != nil {
			data = dataset.Relabel(folded, sc.Lumping.Field, sc.Lumping.Mapping)
		}

		res, err := s.calculator.CramersVCorrected(data.Rows, sc.FieldA, sc.FieldB)
		if err != nil {
			log.Printf("Statistic undefined for %s: %v", sc.Description, err)
		}
		findings = append(findings, Finding{Description: sc.Description, Result: res, Err: err})
	}
	return findings
}
