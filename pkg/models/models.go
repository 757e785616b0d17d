package models

import (
	"fmt"
)

// Field identifies a column of the evaluation dataset
type Field string

const (
	FieldFileName        Field = "fileName"
	FieldJhoveStatus     Field = "jhoveStatus"
	FieldVeraParseErrors Field = "veraParseErrors"
	FieldVeraLogWarnings Field = "veraLogWarnings"
	FieldRendering       Field = "rendersInAcrobat"
	FieldPdfcpuValid     Field = "pdfcpuValid"
)

// CategoricalFields lists the categorical columns in their CSV order
var CategoricalFields = []Field{
	FieldJhoveStatus,
	FieldVeraParseErrors,
	FieldVeraLogWarnings,
	FieldRendering,
	FieldPdfcpuValid,
}

// JhoveStatus is the validation status reported by JHOVE
type JhoveStatus string

const (
	StatusNotWellFormed      JhoveStatus = "Not well-formed"
	StatusWellFormedNotValid JhoveStatus = "Well-Formed, but not valid"
	StatusWellFormedValid    JhoveStatus = "Well-Formed and valid"
	StatusUnknown            JhoveStatus = "Unknown"
)

// Flag is a boolean outcome stored with its CSV spelling
type Flag string

const (
	FlagTrue  Flag = "True"
	FlagFalse Flag = "False"
)

// FlagOf converts a bool to a Flag
func FlagOf(b bool) Flag {
	if b {
		return FlagTrue
	}
	return FlagFalse
}

// Bool reports whether the flag is set
func (f Flag) Bool() bool {
	return f == FlagTrue
}

// Rendering is the observed rendering outcome in the reference viewer
type Rendering string

const (
	RenderNo         Rendering = "No"
	RenderWithIssues Rendering = "YesWithIssues"
	RenderYes        Rendering = "Yes"
)

// Row holds the outcomes collected for one PDF file. An empty value means
// the field is missing for that file.
type Row struct {
	FileName        string      `json:"fileName"`
	JhoveStatus     JhoveStatus `json:"jhoveStatus,omitempty"`
	VeraParseErrors Flag        `json:"veraParseErrors,omitempty"`
	VeraLogWarnings Flag        `json:"veraLogWarnings,omitempty"`
	Rendering       Rendering   `json:"rendersInAcrobat,omitempty"`
	PdfcpuValid     Flag        `json:"pdfcpuValid,omitempty"`
}

// Value returns the label stored for field and whether it is present
func (r Row) Value(f Field) (string, bool) {
	var v string
	switch f {
	case FieldFileName:
		v = r.FileName
	case FieldJhoveStatus:
		v = string(r.JhoveStatus)
	case FieldVeraParseErrors:
		v = string(r.VeraParseErrors)
	case FieldVeraLogWarnings:
		v = string(r.VeraLogWarnings)
	case FieldRendering:
		v = string(r.Rendering)
	case FieldPdfcpuValid:
		v = string(r.PdfcpuValid)
	}
	return v, v != ""
}

// With returns a copy of the row with field set to v
func (r Row) With(f Field, v string) Row {
	switch f {
	case FieldFileName:
		r.FileName = v
	case FieldJhoveStatus:
		r.JhoveStatus = JhoveStatus(v)
	case FieldVeraParseErrors:
		r.VeraParseErrors = Flag(v)
	case FieldVeraLogWarnings:
		r.VeraLogWarnings = Flag(v)
	case FieldRendering:
		r.Rendering = Rendering(v)
	case FieldPdfcpuValid:
		r.PdfcpuValid = Flag(v)
	}
	return r
}

// Dataset is the collection of rows of one evaluation. Columns lists the
// categorical fields the dataset carries.
type Dataset struct {
	Columns []Field `json:"columns"`
	Rows    []Row   `json:"rows"`
}

// Has reports whether the dataset carries field
func (d Dataset) Has(f Field) bool {
	if f == FieldFileName {
		return true
	}
	for _, c := range d.Columns {
		if c == f {
			return true
		}
	}
	return false
}

// Len returns the number of rows
func (d Dataset) Len() int {
	return len(d.Rows)
}

// Clone returns a deep copy of the dataset
func (d Dataset) Clone() Dataset {
	out := Dataset{
		Columns: make([]Field, len(d.Columns)),
		Rows:    make([]Row, len(d.Rows)),
	}
	copy(out.Columns, d.Columns)
	copy(out.Rows, d.Rows)
	return out
}

// canonicalOrders holds the reporting order of each categorical field,
// from worst to best outcome.
var canonicalOrders = map[Field][]string{
	FieldJhoveStatus: {
		string(StatusNotWellFormed),
		string(StatusWellFormedNotValid),
		string(StatusWellFormedValid),
	},
	FieldVeraParseErrors: {string(FlagTrue), string(FlagFalse)},
	FieldVeraLogWarnings: {string(FlagTrue), string(FlagFalse)},
	FieldRendering: {
		string(RenderNo),
		string(RenderWithIssues),
		string(RenderYes),
	},
	FieldPdfcpuValid: {string(FlagFalse), string(FlagTrue)},
}

// CanonicalOrder returns the category order used when tabulating field.
// It returns nil for fields without a declared order.
func CanonicalOrder(f Field) []string {
	order, ok := canonicalOrders[f]
	if !ok {
		return nil
	}
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// Vocabulary returns the labels accepted for field at ingestion
func Vocabulary(f Field) []string {
	vocab := CanonicalOrder(f)
	if f == FieldJhoveStatus {
		// JHOVE reports Unknown for files it cannot classify
		vocab = append(vocab, string(StatusUnknown))
	}
	return vocab
}

// ValidateValue checks v against the ingestion vocabulary of field.
// Empty values are missing data and always accepted.
func ValidateValue(f Field, v string) error {
	if v == "" || f == FieldFileName {
		return nil
	}
	for _, known := range Vocabulary(f) {
		if v == known {
			return nil
		}
	}
	return &UnknownCategoryError{Field: f, Value: v}
}

// UnknownCategoryError reports a label outside a field's declared vocabulary
type UnknownCategoryError struct {
	Field Field
	Value string
	Line  int // CSV line, 0 when not read from a file
}

func (e *UnknownCategoryError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("unknown category %q for field %s at line %d", e.Value, e.Field, e.Line)
	}
	return fmt.Sprintf("unknown category %q for field %s", e.Value, e.Field)
}
