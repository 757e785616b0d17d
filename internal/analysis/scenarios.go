package analysis

import (
	"github.com/todmy/pdf-eval/pkg/models"
)

// Lumping merges category labels of one field before a statistic is computed
type Lumping struct {
	Field   models.Field
	Mapping map[string]string
}

// Scenario is one association to compute
type Scenario struct {
	Description string
	FieldA      models.Field
	FieldB      models.Field
	Lumping     *Lumping
}

const (
	lumpNotWellFormedNote = " (lumping JHOVE's 'Well-Formed, but not valid' and 'Not well-formed' classes)"
	lumpValidNote         = " (lumping JHOVE's 'Well-Formed, but not valid' and 'Well-Formed and valid' classes)"
	lumpYesNote           = " (lumping 'Yes' and 'YesWithIssues' rendering classes)"
	lumpNoNote            = " (lumping 'No' and 'YesWithIssues' rendering classes)"
)

var (
	lumpNotWellFormed = &Lumping{
		Field:   models.FieldJhoveStatus,
		Mapping: map[string]string{string(models.StatusWellFormedNotValid): string(models.StatusNotWellFormed)},
	}
	lumpValid = &Lumping{
		Field:   models.FieldJhoveStatus,
		Mapping: map[string]string{string(models.StatusWellFormedNotValid): string(models.StatusWellFormedValid)},
	}
	lumpYes = &Lumping{
		Field:   models.FieldRendering,
		Mapping: map[string]string{string(models.RenderWithIssues): string(models.RenderYes)},
	}
	lumpNo = &Lumping{
		Field:   models.FieldRendering,
		Mapping: map[string]string{string(models.RenderWithIssues): string(models.RenderNo)},
	}
)

// Scenarios lists the associations worth computing for the columns present
// in ds. A scenario is kept when both of its fields and its lumped field are
// present.
func Scenarios(ds models.Dataset) []Scenario {
	var out []Scenario
	for _, sc := range allScenarios() {
		if !ds.Has(sc.FieldA) || !ds.Has(sc.FieldB) {
			continue
		}
		if sc.Lumping != nil && !ds.Has(sc.Lumping.Field) {
			continue
		}
		out = append(out, sc)
	}
	return out
}

func allScenarios() []Scenario {
	var out []Scenario

	for _, l := range []struct {
		note    string
		lumping *Lumping
	}{{"", nil}, {lumpNotWellFormedNote, lumpNotWellFormed}, {lumpValidNote, lumpValid}} {
		out = append(out,
			Scenario{"JHOVE status vs VeraPDF parse errors" + l.note, models.FieldJhoveStatus, models.FieldVeraParseErrors, l.lumping},
			Scenario{"JHOVE status vs VeraPDF warnings" + l.note, models.FieldJhoveStatus, models.FieldVeraLogWarnings, l.lumping},
		)
	}

	out = append(out,
		Scenario{"JHOVE status vs rendering", models.FieldJhoveStatus, models.FieldRendering, nil},
		Scenario{"VeraPDF parse errors vs rendering", models.FieldVeraParseErrors, models.FieldRendering, nil},
		Scenario{"VeraPDF parse warnings vs rendering", models.FieldVeraLogWarnings, models.FieldRendering, nil},
		Scenario{"JHOVE status vs rendering" + lumpNotWellFormedNote, models.FieldJhoveStatus, models.FieldRendering, lumpNotWellFormed},
		Scenario{"JHOVE status vs rendering" + lumpValidNote, models.FieldJhoveStatus, models.FieldRendering, lumpValid},
	)
	for _, l := range []struct {
		note    string
		lumping *Lumping
	}{{lumpYesNote, lumpYes}, {lumpNoNote, lumpNo}} {
		out = append(out,
			Scenario{"JHOVE status vs rendering" + l.note, models.FieldJhoveStatus, models.FieldRendering, l.lumping},
			Scenario{"VeraPDF parse errors vs rendering" + l.note, models.FieldVeraParseErrors, models.FieldRendering, l.lumping},
			Scenario{"VeraPDF parse warnings vs rendering" + l.note, models.FieldVeraLogWarnings, models.FieldRendering, l.lumping},
		)
	}

	out = append(out,
		Scenario{"pdfcpu validation vs rendering", models.FieldPdfcpuValid, models.FieldRendering, nil},
		Scenario{"pdfcpu validation vs rendering" + lumpYesNote, models.FieldPdfcpuValid, models.FieldRendering, lumpYes},
	)

	return out
}
