package gbtree

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

// Pipeline evaluates a gradient-boosted tree ensemble serialized as JSON.
// The artifact is produced offline by the training project; this package only
// loads it and answers the two-call classification contract. A loaded
// Pipeline is immutable and safe for concurrent use.
type Pipeline struct {
	numFeatures int
	baseScore   float64
	threshold   float64
	trees       []Tree
}

type Tree struct {
	Nodes []Node `json:"nodes"`
}

type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
	Leaf      bool    `json:"leaf"`
}

type artifact struct {
	Version     string  `json:"version"`
	NumFeatures int     `json:"num_features"`
	BaseScore   float64 `json:"base_score"`
	Threshold   float64 `json:"threshold"`
	Trees       []Tree  `json:"trees"`
}

// Load reads and validates the serialized pipeline.
func Load(path string) (*Pipeline, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var a artifact
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	if len(a.Trees) == 0 {
		return nil, errors.New("model artifact has no trees")
	}
	if a.NumFeatures <= 0 {
		return nil, errors.New("model artifact missing num_features")
	}
	if a.Threshold == 0 {
		a.Threshold = 0.5
	}
	return &Pipeline{
		numFeatures: a.NumFeatures,
		baseScore:   a.BaseScore,
		threshold:   a.Threshold,
		trees:       a.Trees,
	}, nil
}

// NumFeatures is the row width the artifact was trained on.
func (p *Pipeline) NumFeatures() int { return p.numFeatures }

// Predict returns the 0/1 class per row, thresholded at the decision
// boundary carried inside the artifact.
func (p *Pipeline) Predict(ctx context.Context, rows [][]float64) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]int, len(rows))
	for i, row := range rows {
		margin, err := p.score(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		if sigmoid(margin) > p.threshold {
			out[i] = 1
		}
	}
	return out, nil
}

// PredictProba returns [p_low, p_high] per row.
func (p *Pipeline) PredictProba(ctx context.Context, rows [][]float64) ([][2]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([][2]float64, len(rows))
	for i, row := range rows {
		margin, err := p.score(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		high := sigmoid(margin)
		out[i] = [2]float64{1 - high, high}
	}
	return out, nil
}

// score sums the leaf contributions of every tree plus the base score.
func (p *Pipeline) score(row []float64) (float64, error) {
	if len(row) != p.numFeatures {
		return 0, fmt.Errorf("expected %d features, got %d", p.numFeatures, len(row))
	}
	margin := p.baseScore
	for ti, tree := range p.trees {
		idx := 0
		for {
			if idx < 0 || idx >= len(tree.Nodes) {
				return 0, fmt.Errorf("tree %d: node index %d out of range", ti, idx)
			}
			node := tree.Nodes[idx]
			if node.Leaf {
				margin += node.Value
				break
			}
			if node.Feature < 0 || node.Feature >= len(row) {
				return 0, fmt.Errorf("tree %d: feature index %d out of range", ti, node.Feature)
			}
			if row[node.Feature] < node.Threshold {
				idx = node.Left
			} else {
				idx = node.Right
			}
		}
	}
	return margin, nil
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
