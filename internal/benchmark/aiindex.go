package benchmark

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/yourorg/ai-econ-engine/internal/config"
)

// AIIndexClient reads the annual AI Index industry metrics feed.
type AIIndexClient struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
}

// NewAIIndexClient creates a new index metrics client
func NewAIIndexClient(cfg config.Config) *AIIndexClient {
	return &AIIndexClient{
		baseURL:    cfg.AIIndexURL,
		httpClient: StandardClient(newRetryClient(cfg.RequestTimeout)),
		apiKey:     getAPIKey(cfg, "aiindex"),
	}
}

// Fetch retrieves sector productivity benchmarks from the index feed. The
// feed reports gains in percentage points, so values are scaled to fractions.
func (c *AIIndexClient) Fetch(ctx context.Context) ([]Observation, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/industry?measure=productivity", nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching index data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("index API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Metrics []struct {
			Industry   string  `json:"industry"`
			GainPct    float64 `json:"gain_pct"`
			SampleSize int     `json:"sample_size"`
			ObservedAt int64   `json:"observed_at"`
		} `json:"metrics"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	if len(response.Metrics) == 0 {
		return nil, fmt.Errorf("no metrics returned from index feed")
	}

	var observations []Observation
	for _, m := range response.Metrics {
		observations = append(observations, Observation{
			Source:           "aiindex",
			Sector:           m.Industry,
			ProductivityGain: m.GainPct / 100.0,
			SampleSize:       m.SampleSize,
			CollectedAt:      m.ObservedAt,
		})
	}

	logrus.Debugf("Received %d benchmark rows from index feed", len(observations))
	return observations, nil
}
