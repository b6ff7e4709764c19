package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientPredict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req inferRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Rows, 2)

		json.NewEncoder(w).Encode(inferResponse{
			Predictions:   []int{0, 1},
			Probabilities: [][]float64{{0.9, 0.1}, {0.2, 0.8}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	rows := [][]float64{{1, 2}, {3, 4}}

	classes, err := c.Predict(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, classes)

	probas, err := c.PredictProba(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, [][2]float64{{0.9, 0.1}, {0.2, 0.8}}, probas)
}

func TestClientUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not ready", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Predict(context.Background(), [][]float64{{1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestClientShapeMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(inferResponse{
			Predictions:   []int{0},
			Probabilities: [][]float64{{0.9, 0.1, 0.0}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	_, err := c.Predict(context.Background(), [][]float64{{1}, {2}})
	assert.Error(t, err)

	_, err = c.PredictProba(context.Background(), [][]float64{{1}})
	assert.Error(t, err)
}
