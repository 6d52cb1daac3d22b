package model

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// LogisticModel is a binary logistic-regression classifier. Inputs are
// standardized with the stored training means and deviations before the
// linear term is applied, which keeps gradient training stable on raw
// hospital counts that span several orders of magnitude.
type LogisticModel struct {
	Intercept float64   `json:"intercept"`
	Coef      []float64 `json:"coef"`
	Means     []float64 `json:"means"`
	Stds      []float64 `json:"stds"`
}

// logistic training constants: full-batch gradient descent with L2
// shrinkage, capped at the same iteration budget the batch jobs have always
// used for this classifier.
const (
	logisticMaxIter  = 2000
	logisticLearn    = 0.1
	logisticL2       = 1e-3
	logisticTolGrad  = 1e-6
	logisticMinSigma = 1e-9
)

// FitLogistic trains the classifier on X against binary labels y (0 or 1).
func FitLogistic(X [][]float64, y []float64) (*LogisticModel, error) {
	n := len(X)
	if n == 0 || n != len(y) {
		return nil, errors.New("logistic fit: empty or mismatched training data")
	}
	p := len(X[0])

	means, stds := standardizeStats(X)

	xs := mat.NewDense(n, p, nil)
	for i, row := range X {
		for j, v := range row {
			xs.Set(i, j, (v-means[j])/stds[j])
		}
	}

	w := mat.NewVecDense(p, nil)
	b := 0.0
	grad := mat.NewVecDense(p, nil)
	probs := mat.NewVecDense(n, nil)

	for iter := 0; iter < logisticMaxIter; iter++ {
		// probs = sigmoid(Xw + b)
		probs.MulVec(xs, w)
		for i := 0; i < n; i++ {
			probs.SetVec(i, sigmoid(probs.AtVec(i)+b))
		}

		// grad = X^T (probs - y) / n + l2*w
		resid := mat.NewVecDense(n, nil)
		for i := 0; i < n; i++ {
			resid.SetVec(i, probs.AtVec(i)-y[i])
		}
		grad.MulVec(xs.T(), resid)
		gradB := 0.0
		for i := 0; i < n; i++ {
			gradB += resid.AtVec(i)
		}
		gradB /= float64(n)

		norm := gradB * gradB
		for j := 0; j < p; j++ {
			g := grad.AtVec(j)/float64(n) + logisticL2*w.AtVec(j)
			grad.SetVec(j, g)
			norm += g * g
		}
		if math.Sqrt(norm) < logisticTolGrad {
			break
		}

		for j := 0; j < p; j++ {
			w.SetVec(j, w.AtVec(j)-logisticLearn*grad.AtVec(j))
		}
		b -= logisticLearn * gradB
	}

	m := &LogisticModel{Intercept: b, Coef: make([]float64, p), Means: means, Stds: stds}
	for j := 0; j < p; j++ {
		m.Coef[j] = w.AtVec(j)
	}
	return m, nil
}

// PredictProba returns the probability of the positive class.
func (m *LogisticModel) PredictProba(x []float64) float64 {
	z := m.Intercept
	for j, c := range m.Coef {
		z += c * (x[j] - m.Means[j]) / m.Stds[j]
	}
	return sigmoid(z)
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// standardizeStats computes per-feature means and standard deviations.
// Constant features get a unit deviation so they contribute nothing instead
// of dividing by zero.
func standardizeStats(X [][]float64) (means, stds []float64) {
	n, p := len(X), len(X[0])
	means = make([]float64, p)
	stds = make([]float64, p)

	for _, row := range X {
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= float64(n)
	}
	for _, row := range X {
		for j, v := range row {
			d := v - means[j]
			stds[j] += d * d
		}
	}
	for j := range stds {
		stds[j] = math.Sqrt(stds[j] / float64(n))
		if stds[j] < logisticMinSigma {
			stds[j] = 1
		}
	}
	return means, stds
}
