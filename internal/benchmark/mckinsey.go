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

// McKinseyClient reads the State of AI adoption survey feed.
type McKinseyClient struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
}

// NewMcKinseyClient creates a new survey feed client
func NewMcKinseyClient(cfg config.Config) *McKinseyClient {
	return &McKinseyClient{
		baseURL:    cfg.McKinseyURL,
		httpClient: StandardClient(newRetryClient(cfg.RequestTimeout)),
		apiKey:     getAPIKey(cfg, "mckinsey"),
	}
}

// Fetch retrieves sector productivity benchmarks from the survey feed.
func (c *McKinseyClient) Fetch(ctx context.Context) ([]Observation, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/sectors", nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	logrus.Debugf("Fetching adoption benchmarks from survey feed: %s", c.baseURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching survey data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("survey API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Data []struct {
			Sector           string  `json:"sector"`
			ProductivityGain float64 `json:"productivity_gain"`
			Respondents      int     `json:"respondents"`
			CollectedAt      int64   `json:"collected_at"`
		} `json:"data"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	if len(response.Data) == 0 {
		return nil, fmt.Errorf("no data returned from survey feed")
	}

	var observations []Observation
	for _, row := range response.Data {
		observations = append(observations, Observation{
			Source:           "mckinsey",
			Sector:           row.Sector,
			ProductivityGain: row.ProductivityGain,
			SampleSize:       row.Respondents,
			CollectedAt:      row.CollectedAt,
		})
	}

	logrus.Debugf("Received %d benchmark rows from survey feed", len(observations))
	return observations, nil
}
