package report

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/todmy/pdf-eval/internal/analysis"
	"github.com/todmy/pdf-eval/internal/crosstab"
)

// Undefined is rendered in place of a statistic that could not be computed
const Undefined = "undefined"

// Markdown renders a pipe table. Columns whose cells are all numeric are
// right-aligned, the rest left-aligned.
func Markdown(headers []string, rows [][]string) string {
	cols := len(headers)
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}

	cell := func(row []string, j int) string {
		if j < len(row) {
			return row[j]
		}
		return ""
	}

	widths := make([]int, cols)
	numeric := make([]bool, cols)
	for j := 0; j < cols; j++ {
		widths[j] = utf8.RuneCountInString(cell(headers, j))
		numeric[j] = len(rows) > 0
		for _, row := range rows {
			v := cell(row, j)
			if n := utf8.RuneCountInString(v); n > widths[j] {
				widths[j] = n
			}
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				numeric[j] = false
			}
		}
	}

	var b strings.Builder
	writeLine := func(row []string) {
		b.WriteString("|")
		for j := 0; j < cols; j++ {
			b.WriteString(" ")
			b.WriteString(pad(cell(row, j), widths[j], numeric[j]))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	writeLine(headers)
	b.WriteString("|")
	for j := 0; j < cols; j++ {
		dashes := strings.Repeat("-", widths[j]+1)
		if numeric[j] {
			b.WriteString(dashes + ":|")
		} else {
			b.WriteString(":" + dashes + "|")
		}
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeLine(row)
	}
	return b.String()
}

func pad(s string, width int, right bool) string {
	fill := strings.Repeat(" ", width-utf8.RuneCountInString(s))
	if right {
		return fill + s
	}
	return s + fill
}

// TableMarkdown renders a contingency table with its margins. Without
// headers the row field and the column labels are used.
func TableMarkdown(t *crosstab.Table, headers ...string) string {
	grid := t.WithMargins()
	if len(headers) == 0 {
		headers = append([]string{string(t.RowField)}, grid.ColLabels...)
	}
	return Markdown(headers, grid.Strings())
}

// NamedTableMarkdown renders nt with its own headers
func NamedTableMarkdown(nt analysis.NamedTable) string {
	return TableMarkdown(nt.Table, nt.Headers...)
}

// StatisticsHeaders are the columns of the statistics table
var StatisticsHeaders = []string{"desc", "V", "p", "dof"}

// StatisticsRows formats findings as table rows. Undefined findings carry
// their reason in the description.
func StatisticsRows(findings []analysis.Finding) [][]string {
	rows := make([][]string, 0, len(findings))
	for _, f := range findings {
		if f.Err != nil {
			rows = append(rows, []string{
				f.Description + " (" + f.Reason() + ")",
				Undefined,
				Undefined,
				Undefined,
			})
			continue
		}
		rows = append(rows, []string{
			f.Description,
			formatFloat(f.Result.V),
			formatFloat(f.Result.P),
			strconv.Itoa(f.Result.DOF),
		})
	}
	return rows
}

// StatisticsMarkdown renders findings as a desc, V, p, dof table
func StatisticsMarkdown(findings []analysis.Finding) string {
	return Markdown(StatisticsHeaders, StatisticsRows(findings))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
