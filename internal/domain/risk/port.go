package risk

import "context"

// Classifier port (interface over the trained pipeline artifact).
// The artifact is loaded once and shared read-only; implementations must be
// safe for concurrent use.
type Classifier interface {
	// Predict returns the 0/1 class per row.
	Predict(ctx context.Context, rows [][]float64) ([]int, error)
	// PredictProba returns the [low, high] class probabilities per row.
	PredictProba(ctx context.Context, rows [][]float64) ([][2]float64, error)
}

// ArtifactStore port (interface untuk publikasi hasil batch)
type ArtifactStore interface {
	Upload(ctx context.Context, localPath, key string) (string, error)
}
