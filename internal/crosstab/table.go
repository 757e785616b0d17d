package crosstab

import (
	"sort"
	"strconv"

	"github.com/todmy/pdf-eval/pkg/models"
)

// MarginLabel names the totals row and column
const MarginLabel = "All"

// Table is a cross-tabulation of two categorical fields. Counts excludes
// margins; totals are derived on demand.
type Table struct {
	RowField  models.Field `json:"rowField"`
	ColField  models.Field `json:"colField"`
	RowLabels []string     `json:"rowLabels"`
	ColLabels []string     `json:"colLabels"`
	Counts    [][]int      `json:"counts"`
}

type options struct {
	rowOrder []string
	colOrder []string
}

// Option configures Build
type Option func(*options)

// WithRowOrder fixes the row categories and their order
func WithRowOrder(order []string) Option {
	return func(o *options) { o.rowOrder = order }
}

// WithColOrder fixes the column categories and their order
func WithColOrder(order []string) Option {
	return func(o *options) { o.colOrder = order }
}

// WithCanonicalOrder orders rows and columns by the declared field orders
func WithCanonicalOrder(rowField, colField models.Field) []Option {
	return []Option{
		WithRowOrder(models.CanonicalOrder(rowField)),
		WithColOrder(models.CanonicalOrder(colField)),
	}
}

// Build counts rows by (rowField, colField). Rows missing either
// value are skipped. Without an explicit order, categories are the observed
// values in lexical order. With an order, every listed category appears
// (zero when unobserved) and an observed value outside it fails with
// *models.UnknownCategoryError.
func Build(rows []models.Row, rowField, colField models.Field, opts ...Option) (*Table, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	type pair struct{ r, c string }
	var pairs []pair
	for _, row := range rows {
		rv, ok := row.Value(rowField)
		if !ok {
			continue
		}
		cv, ok := row.Value(colField)
		if !ok {
			continue
		}
		pairs = append(pairs, pair{rv, cv})
	}

	rowValues := make([]string, len(pairs))
	colValues := make([]string, len(pairs))
	for i, p := range pairs {
		rowValues[i] = p.r
		colValues[i] = p.c
	}

	rowLabels, err := labels(rowField, rowValues, o.rowOrder)
	if err != nil {
		return nil, err
	}
	colLabels, err := labels(colField, colValues, o.colOrder)
	if err != nil {
		return nil, err
	}

	rowIdx := index(rowLabels)
	colIdx := index(colLabels)

	counts := make([][]int, len(rowLabels))
	for i := range counts {
		counts[i] = make([]int, len(colLabels))
	}
	for _, p := range pairs {
		counts[rowIdx[p.r]][colIdx[p.c]]++
	}

	return &Table{
		RowField:  rowField,
		ColField:  colField,
		RowLabels: rowLabels,
		ColLabels: colLabels,
		Counts:    counts,
	}, nil
}

func labels(field models.Field, observed, order []string) ([]string, error) {
	if order == nil {
		seen := make(map[string]struct{})
		var out []string
		for _, v := range observed {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
		sort.Strings(out)
		return out, nil
	}

	known := index(order)
	for _, v := range observed {
		if _, ok := known[v]; !ok {
			return nil, &models.UnknownCategoryError{Field: field, Value: v}
		}
	}
	out := make([]string, len(order))
	copy(out, order)
	return out, nil
}

func index(labels []string) map[string]int {
	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		idx[l] = i
	}
	return idx
}

// Dims returns the number of row and column categories
func (t *Table) Dims() (r, k int) {
	return len(t.RowLabels), len(t.ColLabels)
}

// Cell returns the count at (rowLabel, colLabel); unknown labels count zero
func (t *Table) Cell(rowLabel, colLabel string) int {
	for i, rl := range t.RowLabels {
		if rl != rowLabel {
			continue
		}
		for j, cl := range t.ColLabels {
			if cl == colLabel {
				return t.Counts[i][j]
			}
		}
	}
	return 0
}

// RowTotals returns the per-row sums
func (t *Table) RowTotals() []int {
	totals := make([]int, len(t.RowLabels))
	for i, row := range t.Counts {
		for _, c := range row {
			totals[i] += c
		}
	}
	return totals
}

// ColTotals returns the per-column sums
func (t *Table) ColTotals() []int {
	totals := make([]int, len(t.ColLabels))
	for _, row := range t.Counts {
		for j, c := range row {
			totals[j] += c
		}
	}
	return totals
}

// Total returns the grand total
func (t *Table) Total() int {
	total := 0
	for _, c := range t.RowTotals() {
		total += c
	}
	return total
}

// Transpose swaps rows and columns
func (t *Table) Transpose() *Table {
	r, k := t.Dims()
	counts := make([][]int, k)
	for j := range counts {
		counts[j] = make([]int, r)
		for i := 0; i < r; i++ {
			counts[j][i] = t.Counts[i][j]
		}
	}
	return &Table{
		RowField:  t.ColField,
		ColField:  t.RowField,
		RowLabels: append([]string(nil), t.ColLabels...),
		ColLabels: append([]string(nil), t.RowLabels...),
		Counts:    counts,
	}
}

// MarginGrid is a table with an All row and column appended
type MarginGrid struct {
	RowLabels []string
	ColLabels []string
	Cells     [][]int
}

// WithMargins returns the counts with totals, the All row and column last
func (t *Table) WithMargins() MarginGrid {
	rowTotals := t.RowTotals()
	colTotals := t.ColTotals()

	grid := MarginGrid{
		RowLabels: append(append([]string(nil), t.RowLabels...), MarginLabel),
		ColLabels: append(append([]string(nil), t.ColLabels...), MarginLabel),
	}
	for i, row := range t.Counts {
		cells := append(append([]int(nil), row...), rowTotals[i])
		grid.Cells = append(grid.Cells, cells)
	}
	grid.Cells = append(grid.Cells, append(append([]int(nil), colTotals...), t.Total()))
	return grid
}

// Strings renders the margin grid as string cells, row label first
func (g MarginGrid) Strings() [][]string {
	out := make([][]string, len(g.Cells))
	for i, row := range g.Cells {
		cells := make([]string, 0, len(row)+1)
		cells = append(cells, g.RowLabels[i])
		for _, c := range row {
			cells = append(cells, strconv.Itoa(c))
		}
		out[i] = cells
	}
	return out
}
