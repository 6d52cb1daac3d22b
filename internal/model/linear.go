package model

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LinearModel is an ordinary-least-squares regressor.
type LinearModel struct {
	Intercept float64   `json:"intercept"`
	Coef      []float64 `json:"coef"`
}

// FitLinear solves the least-squares problem for X (rows of feature vectors)
// against y via QR decomposition of the bias-augmented design matrix.
func FitLinear(X [][]float64, y []float64) (*LinearModel, error) {
	n := len(X)
	if n == 0 || n != len(y) {
		return nil, errors.New("linear fit: empty or mismatched training data")
	}
	p := len(X[0])

	a := mat.NewDense(n, p+1, nil)
	b := mat.NewDense(n, 1, nil)
	for i, row := range X {
		if len(row) != p {
			return nil, fmt.Errorf("linear fit: row %d has %d features, want %d", i, len(row), p)
		}
		a.Set(i, 0, 1)
		for j, v := range row {
			a.Set(i, j+1, v)
		}
		b.Set(i, 0, y[i])
	}

	var qr mat.QR
	qr.Factorize(a)

	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, b); err != nil {
		return nil, fmt.Errorf("linear fit: solve: %w", err)
	}

	m := &LinearModel{Intercept: beta.At(0, 0), Coef: make([]float64, p)}
	for j := 0; j < p; j++ {
		m.Coef[j] = beta.At(j+1, 0)
	}
	return m, nil
}

// Predict evaluates the fitted model on one feature vector.
func (m *LinearModel) Predict(x []float64) float64 {
	v := m.Intercept
	for j, c := range m.Coef {
		v += c * x[j]
	}
	return v
}
