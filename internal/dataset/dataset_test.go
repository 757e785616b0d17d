package dataset

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todmy/pdf-eval/pkg/models"
)

const groundTruthCSV = `fileName,jhoveStatus,veraParseErrors,veraLogWarnings,rendersInAcrobat
a.pdf,Not well-formed,True,True,No
b.pdf,"Well-Formed, but not valid",False,True,YesWithIssues
c.pdf,Well-Formed and valid,false,false,Yes
d.pdf,Unknown,True,False,
`

func TestReadCSV(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(groundTruthCSV))
	require.NoError(t, err)

	assert.Equal(t, 4, ds.Len())
	assert.Equal(t, []models.Field{
		models.FieldJhoveStatus,
		models.FieldVeraParseErrors,
		models.FieldVeraLogWarnings,
		models.FieldRendering,
	}, ds.Columns)

	assert.Equal(t, models.StatusWellFormedNotValid, ds.Rows[1].JhoveStatus)
	assert.Equal(t, models.FlagFalse, ds.Rows[2].VeraParseErrors, "lower-case booleans are normalised")
	assert.Equal(t, models.StatusUnknown, ds.Rows[3].JhoveStatus)

	_, ok := ds.Rows[3].Value(models.FieldRendering)
	assert.False(t, ok, "empty cell is missing data")
}

func TestReadCSV_Aliases(t *testing.T) {
	input := "fileName,statusJHOVE,parseErrorsVera,warningsVera,extra\n" +
		"x.pdf,Well-Formed and valid,False,True,ignored\n"

	ds, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())

	row := ds.Rows[0]
	assert.Equal(t, models.StatusWellFormedValid, row.JhoveStatus)
	assert.Equal(t, models.FlagFalse, row.VeraParseErrors)
	assert.Equal(t, models.FlagTrue, row.VeraLogWarnings)
	assert.False(t, ds.Has(models.FieldRendering))
}

func TestReadCSV_UnknownCategory(t *testing.T) {
	input := "fileName,rendersInAcrobat\na.pdf,Yes\nb.pdf,Sometimes\n"

	_, err := ReadCSV(strings.NewReader(input))

	var unknown *models.UnknownCategoryError
	require.True(t, errors.As(err, &unknown), "got %v", err)
	assert.Equal(t, 3, unknown.Line)
	assert.Equal(t, "Sometimes", unknown.Value)
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestReadCSV_DuplicateColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("fileName,jhoveStatus,statusJHOVE\n"))
	assert.Error(t, err)
}

func TestCSVRoundTrip(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(groundTruthCSV))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, ds))

	again, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, ds, again)
}

func TestCSVFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	ds := models.Dataset{
		Columns: []models.Field{models.FieldJhoveStatus, models.FieldVeraParseErrors, models.FieldVeraLogWarnings},
		Rows: []models.Row{
			{FileName: "a.pdf", JhoveStatus: models.StatusNotWellFormed, VeraParseErrors: models.FlagTrue, VeraLogWarnings: models.FlagFalse},
		},
	}

	require.NoError(t, WriteCSVFile(path, ds))
	got, err := ReadCSVFile(path)
	require.NoError(t, err)
	assert.Equal(t, ds, got)

	_, err = ReadCSVFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestRelabel(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(groundTruthCSV))
	require.NoError(t, err)

	lumped := Relabel(ds, models.FieldJhoveStatus, map[string]string{
		string(models.StatusWellFormedNotValid): string(models.StatusNotWellFormed),
	})

	assert.Equal(t, models.StatusNotWellFormed, lumped.Rows[1].JhoveStatus)
	assert.Equal(t, models.StatusWellFormedNotValid, ds.Rows[1].JhoveStatus, "input must not be mutated")
	assert.Equal(t, models.StatusWellFormedValid, lumped.Rows[2].JhoveStatus, "unmapped labels pass through")
}

func TestRelabel_EmptyMapping(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(groundTruthCSV))
	require.NoError(t, err)

	assert.Equal(t, ds, Relabel(ds, models.FieldRendering, map[string]string{}))
	assert.Equal(t, ds, Relabel(ds, models.FieldRendering, nil))
}

func TestRelabel_IndependentScenarios(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(groundTruthCSV))
	require.NoError(t, err)

	toYes := Relabel(ds, models.FieldRendering, map[string]string{"YesWithIssues": "Yes"})
	toNo := Relabel(ds, models.FieldRendering, map[string]string{"YesWithIssues": "No"})

	assert.Equal(t, models.RenderYes, toYes.Rows[1].Rendering)
	assert.Equal(t, models.RenderNo, toNo.Rows[1].Rendering)
	assert.Equal(t, models.RenderWithIssues, ds.Rows[1].Rendering)
}
