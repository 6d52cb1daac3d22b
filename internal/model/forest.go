package model

import (
	"errors"
	"math/rand"
	"sort"
)

// ForestConfig controls the bagged regression-tree ensembles used for the
// occupancy regressors.
type ForestConfig struct {
	NumTrees int   `json:"num_trees"`
	MaxDepth int   `json:"max_depth"`
	Seed     int64 `json:"seed"`
}

// DefaultForestConfig mirrors the ensemble size and depth the occupancy
// models were originally tuned with.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{NumTrees: 300, MaxDepth: 14, Seed: 42}
}

// TreeNode is one node of a regression tree. Leaves have Feature == -1 and
// carry the mean target of their training samples.
type TreeNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold,omitempty"`
	Value     float64   `json:"value,omitempty"`
	Left      *TreeNode `json:"left,omitempty"`
	Right     *TreeNode `json:"right,omitempty"`
}

// ForestModel is a bagged ensemble of regression trees with a fixed seed, so
// retraining on identical data reproduces identical artifacts.
type ForestModel struct {
	Config ForestConfig `json:"config"`
	Trees  []*TreeNode  `json:"trees"`
}

// FitForest trains the ensemble: each tree fits a bootstrap resample of the
// training rows, grown greedily by variance reduction to the depth limit.
func FitForest(X [][]float64, y []float64, cfg ForestConfig) (*ForestModel, error) {
	n := len(X)
	if n == 0 || n != len(y) {
		return nil, errors.New("forest fit: empty or mismatched training data")
	}
	if cfg.NumTrees <= 0 || cfg.MaxDepth <= 0 {
		return nil, errors.New("forest fit: NumTrees and MaxDepth must be positive")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	m := &ForestModel{Config: cfg, Trees: make([]*TreeNode, cfg.NumTrees)}

	for t := 0; t < cfg.NumTrees; t++ {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}
		m.Trees[t] = growTree(X, y, sample, cfg.MaxDepth)
	}
	return m, nil
}

// Predict averages the tree predictions for one feature vector.
func (m *ForestModel) Predict(x []float64) float64 {
	sum := 0.0
	for _, tree := range m.Trees {
		sum += tree.predict(x)
	}
	return sum / float64(len(m.Trees))
}

func (t *TreeNode) predict(x []float64) float64 {
	node := t
	for node.Feature >= 0 {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

// growTree builds a tree over the sample indices (with repetition, from the
// bootstrap). Splits stop at the depth limit, at fewer than two samples, or
// when no split reduces the sum of squared errors.
func growTree(X [][]float64, y []float64, idx []int, depth int) *TreeNode {
	mean := 0.0
	for _, i := range idx {
		mean += y[i]
	}
	mean /= float64(len(idx))

	if depth == 0 || len(idx) < 2 {
		return &TreeNode{Feature: -1, Value: mean}
	}

	feature, threshold, ok := bestSplit(X, y, idx)
	if !ok {
		return &TreeNode{Feature: -1, Value: mean}
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      growTree(X, y, left, depth-1),
		Right:     growTree(X, y, right, depth-1),
	}
}

// bestSplit scans every feature for the threshold minimizing the summed
// per-side squared error, using prefix sums over the value-sorted sample.
func bestSplit(X [][]float64, y []float64, idx []int) (feature int, threshold float64, ok bool) {
	n := len(idx)
	p := len(X[idx[0]])

	total, totalSq := 0.0, 0.0
	for _, i := range idx {
		total += y[i]
		totalSq += y[i] * y[i]
	}
	baseSSE := totalSq - total*total/float64(n)

	bestSSE := baseSSE
	order := make([]int, n)

	for f := 0; f < p; f++ {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return X[order[a]][f] < X[order[b]][f] })

		leftSum, leftSq := 0.0, 0.0
		for k := 0; k < n-1; k++ {
			i := order[k]
			leftSum += y[i]
			leftSq += y[i] * y[i]

			v, next := X[i][f], X[order[k+1]][f]
			if v == next {
				continue
			}

			nl, nr := float64(k+1), float64(n-k-1)
			rightSum, rightSq := total-leftSum, totalSq-leftSq
			sse := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
			if sse < bestSSE-1e-12 {
				bestSSE = sse
				feature = f
				threshold = (v + next) / 2
				ok = true
			}
		}
	}
	return feature, threshold, ok
}
