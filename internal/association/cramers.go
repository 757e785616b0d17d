package association

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/todmy/pdf-eval/internal/crosstab"
	"github.com/todmy/pdf-eval/pkg/models"
)

var (
	// ErrDegenerateTable means one of the fields has no variation or the
	// sample is too small for the bias correction.
	ErrDegenerateTable = errors.New("degenerate contingency table")
	// ErrNaNResult means the corrected statistic is undefined for the table shape
	ErrNaNResult = errors.New("association undefined for table shape")
)

// Result is the bias-corrected Cramer's V of a contingency table together
// with the chi-squared test it is derived from. DOF is the degrees of
// freedom of the test.
type Result struct {
	V          float64 `json:"v"`
	P          float64 `json:"p"`
	DOF        int     `json:"dof"`
	ChiSquared float64 `json:"chi_squared"`
	N          int     `json:"n"`
}

// Config holds calculator configuration
type Config struct {
	// ContinuityCorrection applies Yates' correction to 2x2 tables
	ContinuityCorrection bool
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		ContinuityCorrection: false,
	}
}

// Calculator computes association statistics
type Calculator struct {
	config Config
}

// NewCalculator creates a new calculator
func NewCalculator(config Config) *Calculator {
	return &Calculator{config: config}
}

// CramersVCorrected computes the association between fields a and b with the
// default configuration
func CramersVCorrected(rows []models.Row, a, b models.Field) (Result, error) {
	return NewCalculator(DefaultConfig()).CramersVCorrected(rows, a, b)
}

// CramersVCorrected cross-tabulates a by b over rows and computes the
// bias-corrected Cramer's V (Bergsma and Wicher, 2013)
func (c *Calculator) CramersVCorrected(rows []models.Row, a, b models.Field) (Result, error) {
	table, err := crosstab.Build(rows, a, b)
	if err != nil {
		return Result{}, err
	}
	return c.FromTable(table)
}

// FromTable computes the statistic from an existing table. Categories with a
// zero total are dropped first, so ordered tables give the same result as
// unordered ones.
func (c *Calculator) FromTable(t *crosstab.Table) (Result, error) {
	obs := observed(t)
	if obs == nil {
		return Result{}, fmt.Errorf("%w: %s by %s has no observations", ErrDegenerateTable, t.RowField, t.ColField)
	}

	r, k := obs.Dims()
	if r < 2 || k < 2 {
		return Result{}, fmt.Errorf("%w: %s by %s is %dx%d", ErrDegenerateTable, t.RowField, t.ColField, r, k)
	}

	n := floats.Sum(obs.RawMatrix().Data)
	if n <= 1 {
		return Result{}, fmt.Errorf("%w: %s by %s has %v observations", ErrDegenerateTable, t.RowField, t.ColField, n)
	}

	dof := (r - 1) * (k - 1)
	chi2 := c.chiSquared(obs, dof)
	p := distuv.ChiSquared{K: float64(dof)}.Survival(chi2)

	phi2 := chi2 / n
	phi2corr := math.Max(0, phi2-float64((k-1)*(r-1))/(n-1))
	rcorr := float64(r) - math.Pow(float64(r-1), 2)/(n-1)
	kcorr := float64(k) - math.Pow(float64(k-1), 2)/(n-1)

	denom := math.Min(kcorr-1, rcorr-1)
	if denom <= 0 {
		return Result{}, fmt.Errorf("%w: corrected dimension %.4f for %dx%d table with n=%v", ErrNaNResult, denom, r, k, n)
	}

	v := math.Sqrt(phi2corr / denom)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Result{}, fmt.Errorf("%w: V=%v", ErrNaNResult, v)
	}

	return Result{
		V:          v,
		P:          p,
		DOF:        dof,
		ChiSquared: chi2,
		N:          int(n),
	}, nil
}

// chiSquared computes the Pearson statistic against the independence model
func (c *Calculator) chiSquared(obs *mat.Dense, dof int) float64 {
	r, k := obs.Dims()

	rowSums := make([]float64, r)
	for i := 0; i < r; i++ {
		rowSums[i] = floats.Sum(obs.RawRowView(i))
	}
	colSums := make([]float64, k)
	for j := 0; j < k; j++ {
		colSums[j] = floats.Sum(mat.Col(nil, j, obs))
	}
	n := floats.Sum(rowSums)

	chi2 := 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < k; j++ {
			expected := rowSums[i] * colSums[j] / n
			diff := math.Abs(obs.At(i, j) - expected)
			if c.config.ContinuityCorrection && dof == 1 {
				diff = math.Max(0, diff-0.5)
			}
			chi2 += diff * diff / expected
		}
	}
	return chi2
}

// observed returns the table counts without empty rows and columns
func observed(t *crosstab.Table) *mat.Dense {
	rowTotals := t.RowTotals()
	colTotals := t.ColTotals()

	var rows, cols []int
	for i, total := range rowTotals {
		if total > 0 {
			rows = append(rows, i)
		}
	}
	for j, total := range colTotals {
		if total > 0 {
			cols = append(cols, j)
		}
	}
	if len(rows) == 0 || len(cols) == 0 {
		return nil
	}

	m := mat.NewDense(len(rows), len(cols), nil)
	for i, ri := range rows {
		for j, cj := range cols {
			m.Set(i, j, float64(t.Counts[ri][cj]))
		}
	}
	return m
}
