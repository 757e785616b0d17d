package crosstab

import (
	"errors"
	"testing"

	"github.com/todmy/pdf-eval/pkg/models"
)

func sampleRows() []models.Row {
	return []models.Row{
		{FileName: "1.pdf", JhoveStatus: models.StatusNotWellFormed, VeraParseErrors: models.FlagTrue, Rendering: models.RenderNo},
		{FileName: "2.pdf", JhoveStatus: models.StatusNotWellFormed, VeraParseErrors: models.FlagTrue, Rendering: models.RenderWithIssues},
		{FileName: "3.pdf", JhoveStatus: models.StatusWellFormedValid, VeraParseErrors: models.FlagFalse, Rendering: models.RenderYes},
		{FileName: "4.pdf", JhoveStatus: models.StatusWellFormedValid, VeraParseErrors: models.FlagTrue, Rendering: models.RenderYes},
		{FileName: "5.pdf", JhoveStatus: models.StatusWellFormedValid, VeraParseErrors: models.FlagFalse},
		{FileName: "6.pdf", VeraParseErrors: models.FlagFalse, Rendering: models.RenderYes},
	}
}

func TestBuild_LexicalOrder(t *testing.T) {
	table, err := Build(sampleRows(), models.FieldJhoveStatus, models.FieldVeraParseErrors)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantRows := []string{"Not well-formed", "Well-Formed and valid"}
	wantCols := []string{"False", "True"}
	if !equal(table.RowLabels, wantRows) || !equal(table.ColLabels, wantCols) {
		t.Fatalf("unexpected labels %v x %v", table.RowLabels, table.ColLabels)
	}

	if got := table.Cell("Not well-formed", "True"); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	if got := table.Cell("Well-Formed and valid", "False"); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	if table.Total() != 5 {
		t.Errorf("expected total 5 (row 6 misses jhove status), got %d", table.Total())
	}
}

func TestBuild_MarginsMatchQualifyingRows(t *testing.T) {
	rows := sampleRows()
	table, err := Build(rows, models.FieldRendering, models.FieldJhoveStatus,
		WithCanonicalOrder(models.FieldRendering, models.FieldJhoveStatus)...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	qualifying := 0
	for _, r := range rows {
		_, okA := r.Value(models.FieldRendering)
		_, okB := r.Value(models.FieldJhoveStatus)
		if okA && okB {
			qualifying++
		}
	}

	grid := table.WithMargins()
	last := len(grid.Cells) - 1
	grand := grid.Cells[last][len(grid.Cells[last])-1]
	if grand != qualifying {
		t.Errorf("grand total %d, want %d", grand, qualifying)
	}

	sum := 0
	for _, row := range table.Counts {
		for _, c := range row {
			sum += c
		}
	}
	if sum != grand {
		t.Errorf("cells sum to %d, margin says %d", sum, grand)
	}

	if grid.RowLabels[len(grid.RowLabels)-1] != MarginLabel || grid.ColLabels[len(grid.ColLabels)-1] != MarginLabel {
		t.Error("All must be the last row and column")
	}
}

func TestBuild_CanonicalOrderIncludesUnobserved(t *testing.T) {
	table, err := Build(sampleRows(), models.FieldRendering, models.FieldJhoveStatus,
		WithCanonicalOrder(models.FieldRendering, models.FieldJhoveStatus)...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"Not well-formed", "Well-Formed, but not valid", "Well-Formed and valid"}
	if !equal(table.ColLabels, want) {
		t.Fatalf("got columns %v", table.ColLabels)
	}
	if got := table.ColTotals()[1]; got != 0 {
		t.Errorf("unobserved category should count 0, got %d", got)
	}
	if !equal(table.RowLabels, []string{"No", "YesWithIssues", "Yes"}) {
		t.Errorf("got rows %v", table.RowLabels)
	}
}

func TestBuild_UnknownCategory(t *testing.T) {
	rows := append(sampleRows(), models.Row{
		FileName:        "7.pdf",
		JhoveStatus:     models.StatusUnknown,
		VeraParseErrors: models.FlagTrue,
	})

	_, err := Build(rows, models.FieldJhoveStatus, models.FieldVeraParseErrors,
		WithCanonicalOrder(models.FieldJhoveStatus, models.FieldVeraParseErrors)...)

	var unknown *models.UnknownCategoryError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownCategoryError, got %v", err)
	}
	if unknown.Value != "Unknown" {
		t.Errorf("unexpected value %q", unknown.Value)
	}
}

func TestBuild_Empty(t *testing.T) {
	table, err := Build(nil, models.FieldJhoveStatus, models.FieldRendering,
		WithCanonicalOrder(models.FieldJhoveStatus, models.FieldRendering)...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Total() != 0 {
		t.Errorf("expected zero total, got %d", table.Total())
	}
	grid := table.WithMargins()
	if len(grid.Cells) != 4 || len(grid.Cells[0]) != 4 {
		t.Errorf("expected 4x4 grid with margins, got %dx%d", len(grid.Cells), len(grid.Cells[0]))
	}

	unordered, err := Build(nil, models.FieldJhoveStatus, models.FieldRendering)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r, k := unordered.Dims(); r != 0 || k != 0 {
		t.Errorf("expected no categories, got %dx%d", r, k)
	}
	if len(unordered.WithMargins().Cells) != 1 {
		t.Error("expected only the All row")
	}
}

func TestTranspose(t *testing.T) {
	table, err := Build(sampleRows(), models.FieldJhoveStatus, models.FieldRendering)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr := table.Transpose()
	for i, rl := range table.RowLabels {
		for j, cl := range table.ColLabels {
			if table.Counts[i][j] != tr.Cell(cl, rl) {
				t.Errorf("cell (%s,%s) differs after transpose", rl, cl)
			}
		}
	}
	if tr.Total() != table.Total() {
		t.Errorf("total %d, want %d", tr.Total(), table.Total())
	}
}

func TestMarginGridStrings(t *testing.T) {
	rows := []models.Row{
		{FileName: "a", JhoveStatus: models.StatusNotWellFormed, VeraParseErrors: models.FlagTrue},
		{FileName: "b", JhoveStatus: models.StatusWellFormedValid, VeraParseErrors: models.FlagFalse},
	}
	table, err := Build(rows, models.FieldJhoveStatus, models.FieldVeraParseErrors)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cells := table.WithMargins().Strings()
	want := [][]string{
		{"Not well-formed", "0", "1", "1"},
		{"Well-Formed and valid", "1", "0", "1"},
		{"All", "1", "1", "2"},
	}
	for i := range want {
		if !equal(cells[i], want[i]) {
			t.Errorf("row %d: got %v, want %v", i, cells[i], want[i])
		}
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
