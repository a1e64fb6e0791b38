package benchmark

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/yourorg/ai-econ-engine/internal/config"
)

// OECDClient reads the SDMX-JSON AI adoption dataset.
type OECDClient struct {
	cfg config.Config
}

// NewOECDClient creates a new SDMX dataset client
func NewOECDClient(cfg config.Config) *OECDClient {
	return &OECDClient{cfg: cfg}
}

// Fetch retrieves sector productivity benchmarks from the SDMX dataset. The
// dataset has no per-row timestamps, so rows are stamped at fetch time.
func (c *OECDClient) Fetch(ctx context.Context) ([]Observation, error) {
	client := newRetryClient(c.cfg.RequestTimeout)

	query := `{"dimension":"SECTOR","measure":"AI_PRODUCTIVITY_GAIN","freq":"A"}`
	req, err := retryablehttp.NewRequest("POST", c.cfg.OECDURL, []byte(query))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if k := getAPIKey(c.cfg, "oecd"); k != "" {
		req.Header.Set("Authorization", k)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var response struct {
		DataSets []struct {
			Series []struct {
				Sector string  `json:"sector"`
				Gain   float64 `json:"gain"`
				Firms  int     `json:"firms"`
			} `json:"series"`
		} `json:"dataSets"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(response.DataSets) == 0 || len(response.DataSets[0].Series) == 0 {
		return nil, fmt.Errorf("no series found in response")
	}

	now := time.Now().Unix()
	var observations []Observation
	for _, s := range response.DataSets[0].Series {
		observations = append(observations, Observation{
			Source:           "oecd",
			Sector:           s.Sector,
			ProductivityGain: s.Gain,
			SampleSize:       s.Firms,
			CollectedAt:      now,
		})
	}

	return observations, nil
}
