package dataset

import (
	"github.com/todmy/pdf-eval/pkg/models"
)

// Relabel returns a copy of ds where every value of field found in mapping is
// replaced by its mapped label. Unmapped and missing values pass through and
// ds itself is left untouched.
func Relabel(ds models.Dataset, field models.Field, mapping map[string]string) models.Dataset {
	out := ds.Clone()
	if len(mapping) == 0 {
		return out
	}

	for i, row := range out.Rows {
		v, ok := row.Value(field)
		if !ok {
			continue
		}
		if to, found := mapping[v]; found {
			out.Rows[i] = row.With(field, to)
		}
	}
	return out
}
