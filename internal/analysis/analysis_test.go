package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todmy/pdf-eval/internal/association"
	"github.com/todmy/pdf-eval/internal/dataset"
	"github.com/todmy/pdf-eval/pkg/models"
)

const sampleCSV = `fileName,jhoveStatus,veraParseErrors,veraLogWarnings,rendersInAcrobat
a.pdf,Not well-formed,True,True,No
b.pdf,Not well-formed,True,False,No
c.pdf,"Well-Formed, but not valid",True,True,YesWithIssues
d.pdf,"Well-Formed, but not valid",False,True,Yes
e.pdf,Well-Formed and valid,False,False,Yes
f.pdf,Well-Formed and valid,False,False,Yes
g.pdf,Well-Formed and valid,False,True,YesWithIssues
h.pdf,Unknown,True,True,No
i.pdf,Well-Formed and valid,False,False,Yes
j.pdf,Not well-formed,False,True,YesWithIssues
`

func loadSample(t *testing.T) models.Dataset {
	t.Helper()
	ds, err := dataset.ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	return ds
}

func TestFold(t *testing.T) {
	ds := loadSample(t)

	folded := Fold(ds)

	assert.Equal(t, models.StatusNotWellFormed, folded.Rows[7].JhoveStatus)
	assert.Equal(t, models.StatusUnknown, ds.Rows[7].JhoveStatus)
}

func TestTables(t *testing.T) {
	svc := NewService(DefaultConfig())

	tables, err := svc.Tables(loadSample(t))
	require.NoError(t, err)

	var names []string
	for _, nt := range tables {
		names = append(names, nt.Name)
	}
	assert.Equal(t, []string{
		"jhove-vera-parserr",
		"jhove-vera-warn",
		"jhove-rendering",
		"vera-parserr-rendering",
		"vera-warn-rendering",
	}, names)

	parserr := tables[0].Table
	assert.Equal(t, models.CanonicalOrder(models.FieldJhoveStatus), parserr.RowLabels)
	assert.Equal(t, []string{"True", "False"}, parserr.ColLabels)
	// the Unknown row is folded into Not well-formed
	assert.Equal(t, 3, parserr.Cell(string(models.StatusNotWellFormed), "True"))
	assert.Equal(t, 10, parserr.Total())

	rendering := tables[2].Table
	assert.Equal(t, models.FieldRendering, rendering.RowField)
	assert.Equal(t, models.FieldJhoveStatus, rendering.ColField)
}

func TestTables_WithoutGroundTruth(t *testing.T) {
	ds := loadSample(t)
	ds.Columns = []models.Field{models.FieldJhoveStatus, models.FieldVeraParseErrors, models.FieldVeraLogWarnings}

	tables, err := NewService(DefaultConfig()).Tables(ds)
	require.NoError(t, err)
	assert.Len(t, tables, 2)
}

func TestTables_Pdfcpu(t *testing.T) {
	ds := loadSample(t)
	ds.Columns = append(ds.Columns, models.FieldPdfcpuValid)
	for i := range ds.Rows {
		ds.Rows[i].PdfcpuValid = models.FlagOf(ds.Rows[i].VeraParseErrors == models.FlagFalse)
	}

	svc := NewService(DefaultConfig())
	nt, ok, err := svc.Table(ds, "pdfcpu-rendering")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"False", "True"}, nt.Table.ColLabels)

	_, ok, err = svc.Table(loadSample(t), "pdfcpu-rendering")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScenarios(t *testing.T) {
	ds := loadSample(t)

	scenarios := Scenarios(ds)
	assert.Len(t, scenarios, 17)
	assert.Equal(t, "JHOVE status vs VeraPDF parse errors", scenarios[0].Description)
	assert.Nil(t, scenarios[0].Lumping)

	ds.Columns = ds.Columns[:3]
	assert.Len(t, Scenarios(ds), 6)
}

func TestScenarios_JhoveAndRenderingOnly(t *testing.T) {
	ds := loadSample(t)
	ds.Columns = []models.Field{models.FieldJhoveStatus, models.FieldRendering}

	scenarios := Scenarios(ds)
	require.Len(t, scenarios, 5)
	for _, sc := range scenarios {
		assert.Equal(t, models.FieldJhoveStatus, sc.FieldA)
		assert.Equal(t, models.FieldRendering, sc.FieldB)
	}
	assert.Equal(t, "JHOVE status vs rendering", scenarios[0].Description)

	findings := NewService(DefaultConfig()).Statistics(ds)
	require.Len(t, findings, 5)
	assert.Equal(t, "JHOVE status vs rendering", findings[0].Description)
	assert.NoError(t, findings[0].Err)
	assert.Equal(t, 10, findings[0].Result.N)
}

func TestScenarios_PdfcpuWithoutVera(t *testing.T) {
	ds := loadSample(t)
	ds.Columns = []models.Field{models.FieldPdfcpuValid, models.FieldRendering}

	scenarios := Scenarios(ds)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "pdfcpu validation vs rendering", scenarios[0].Description)
}

func TestStatistics(t *testing.T) {
	svc := NewService(DefaultConfig())

	findings := svc.Statistics(loadSample(t))
	require.Len(t, findings, 17)

	first := findings[0]
	require.NoError(t, first.Err)
	assert.Equal(t, 2, first.Result.DOF)
	assert.Equal(t, 10, first.Result.N)
	assert.GreaterOrEqual(t, first.Result.V, 0.0)
	assert.LessOrEqual(t, first.Result.V, 1.0)

	// lumping the two JHOVE failure classes leaves a 2x2 table
	lumped := findings[2]
	require.NoError(t, lumped.Err)
	assert.Contains(t, lumped.Description, "lumping")
	assert.Equal(t, 1, lumped.Result.DOF)
}

func TestStatistics_DegenerateIsReported(t *testing.T) {
	ds := loadSample(t)
	for i := range ds.Rows {
		ds.Rows[i].VeraParseErrors = models.FlagFalse
	}

	findings := NewService(DefaultConfig()).Statistics(ds)

	assert.ErrorIs(t, findings[0].Err, association.ErrDegenerateTable)
	assert.NotEmpty(t, findings[0].Reason())
	assert.Zero(t, findings[0].Result)
	assert.NoError(t, findings[1].Err)
	assert.Empty(t, findings[1].Reason())
}

func TestStatistics_ContinuityCorrection(t *testing.T) {
	ds := loadSample(t)

	plain := NewService(DefaultConfig()).Statistics(ds)
	corrected := NewService(Config{ContinuityCorrection: true}).Statistics(ds)

	// 2x2 scenarios shrink, larger tables are unaffected
	assert.Less(t, corrected[2].Result.ChiSquared, plain[2].Result.ChiSquared)
	assert.InDelta(t, plain[0].Result.ChiSquared, corrected[0].Result.ChiSquared, 1e-12)
}
