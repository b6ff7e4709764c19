package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client answers the classification contract by delegating to an external
// inference service that hosts the trained pipeline.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type inferRequest struct {
	Rows [][]float64 `json:"rows"`
}

type inferResponse struct {
	Predictions   []int       `json:"predictions"`
	Probabilities [][]float64 `json:"probabilities"`
}

func (c *Client) Predict(ctx context.Context, rows [][]float64) ([]int, error) {
	resp, err := c.infer(ctx, rows)
	if err != nil {
		return nil, err
	}
	if len(resp.Predictions) != len(rows) {
		return nil, fmt.Errorf("inference service returned %d predictions for %d rows", len(resp.Predictions), len(rows))
	}
	return resp.Predictions, nil
}

func (c *Client) PredictProba(ctx context.Context, rows [][]float64) ([][2]float64, error) {
	resp, err := c.infer(ctx, rows)
	if err != nil {
		return nil, err
	}
	if len(resp.Probabilities) != len(rows) {
		return nil, fmt.Errorf("inference service returned %d probability pairs for %d rows", len(resp.Probabilities), len(rows))
	}
	out := make([][2]float64, len(resp.Probabilities))
	for i, pr := range resp.Probabilities {
		if len(pr) != 2 {
			return nil, fmt.Errorf("row %d: expected two class probabilities, got %d", i+1, len(pr))
		}
		out[i] = [2]float64{pr[0], pr[1]}
	}
	return out, nil
}

func (c *Client) infer(ctx context.Context, rows [][]float64) (*inferResponse, error) {
	body, err := json.Marshal(inferRequest{Rows: rows})
	if err != nil {
		return nil, fmt.Errorf("encode inference request: %w", err)
	}

	url := c.baseURL + "/predict"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call inference service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("inference service returned %d: %s", resp.StatusCode, string(payload))
	}

	var out inferResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode inference response: %w", err)
	}
	return &out, nil
}
