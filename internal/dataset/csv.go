package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/todmy/pdf-eval/pkg/models"
)

// ErrEmptyDataset is returned for CSV input without a header line
var ErrEmptyDataset = errors.New("dataset has no header")

// headerAliases maps CSV headers to fields, including the names used by
// earlier exports of the dataset.
var headerAliases = map[string]models.Field{
	"fileName":         models.FieldFileName,
	"jhoveStatus":      models.FieldJhoveStatus,
	"statusJHOVE":      models.FieldJhoveStatus,
	"veraParseErrors":  models.FieldVeraParseErrors,
	"parseErrorsVera":  models.FieldVeraParseErrors,
	"veraLogWarnings":  models.FieldVeraLogWarnings,
	"warningsVera":     models.FieldVeraLogWarnings,
	"rendersInAcrobat": models.FieldRendering,
	"pdfcpuValid":      models.FieldPdfcpuValid,
}

func isFlag(f models.Field) bool {
	return f == models.FieldVeraParseErrors || f == models.FieldVeraLogWarnings || f == models.FieldPdfcpuValid
}

func normalize(f models.Field, v string) string {
	v = strings.TrimSpace(v)
	if !isFlag(f) {
		return v
	}
	switch strings.ToLower(v) {
	case "true":
		return string(models.FlagTrue)
	case "false":
		return string(models.FlagFalse)
	}
	return v
}

// ReadCSV parses a dataset. Unknown columns are ignored; every categorical
// value is checked against its field vocabulary.
func ReadCSV(r io.Reader) (models.Dataset, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return models.Dataset{}, ErrEmptyDataset
	}
	if err != nil {
		return models.Dataset{}, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[int]models.Field)
	present := make(map[models.Field]bool)
	for i, name := range header {
		field, ok := headerAliases[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))]
		if !ok {
			continue
		}
		if present[field] {
			return models.Dataset{}, fmt.Errorf("duplicate column for field %s", field)
		}
		columns[i] = field
		present[field] = true
	}

	ds := models.Dataset{}
	for _, f := range models.CategoricalFields {
		if present[f] {
			ds.Columns = append(ds.Columns, f)
		}
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return models.Dataset{}, fmt.Errorf("read line %d: %w", line, err)
		}

		var row models.Row
		for i, field := range columns {
			v := normalize(field, record[i])
			if err := models.ValidateValue(field, v); err != nil {
				var unknown *models.UnknownCategoryError
				if errors.As(err, &unknown) {
					unknown.Line = line
				}
				return models.Dataset{}, err
			}
			row = row.With(field, v)
		}
		ds.Rows = append(ds.Rows, row)
	}

	return ds, nil
}

// ReadCSVFile reads the dataset at path
func ReadCSVFile(path string) (models.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := ReadCSV(f)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// WriteCSV writes the file name and the dataset's columns in field order
func WriteCSV(w io.Writer, ds models.Dataset) error {
	fields := []models.Field{models.FieldFileName}
	for _, f := range models.CategoricalFields {
		if ds.Has(f) {
			fields = append(fields, f)
		}
	}

	writer := csv.NewWriter(w)

	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = string(f)
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range ds.Rows {
		record := make([]string, len(fields))
		for i, f := range fields {
			record[i], _ = row.Value(f)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteCSVFile writes the dataset to path
func WriteCSVFile(path string, ds models.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset: %w", err)
	}

	if err := WriteCSV(f, ds); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
