// Package benchmark provides source-specific clients for retrieving AI
// adoption benchmarks from published industry research feeds, plus the
// consensus logic that turns raw observations into refreshed sector
// parameters.
package benchmark

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/yourorg/ai-econ-engine/internal/config"
)

// Observation is one benchmark data point: a sector productivity gain
// reported by a single research source. Gains are fractions (0.35 = 35%).
type Observation struct {
	Source           string  `json:"source"`
	Sector           string  `json:"sector"`
	ProductivityGain float64 `json:"productivity_gain"`
	SampleSize       int     `json:"sample_size"`
	CollectedAt      int64   `json:"collected_at"`
}

// Client defines the interface that all benchmark source clients must implement
type Client interface {
	// Fetch retrieves adoption benchmarks from a specific research source
	Fetch(ctx context.Context) ([]Observation, error)
}

// NewClient creates a new source client based on the provided configuration and source name
func NewClient(cfg config.Config, source string) Client {
	switch source {
	case "mckinsey":
		return NewMcKinseyClient(cfg)
	case "oecd":
		return NewOECDClient(cfg)
	case "aiindex":
		return NewAIIndexClient(cfg)
	default:
		return NewMcKinseyClient(cfg)
	}
}

// newRetryClient creates a new HTTP client with retry capabilities
func newRetryClient(timeout time.Duration) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = 3
	c.RetryWaitMin = 500 * time.Millisecond
	c.RetryWaitMax = 3 * time.Second
	c.HTTPClient.Timeout = timeout
	c.Logger = nil
	return c
}

// StandardClient converts a retryablehttp.Client to a standard http.Client
func StandardClient(retryClient *retryablehttp.Client) *http.Client {
	return retryClient.StandardClient()
}

// getAPIKey retrieves an API key for a specific source from configuration
func getAPIKey(cfg config.Config, source string) string {
	if k, ok := cfg.APIKeys[source]; ok {
		return k
	}
	return ""
}
