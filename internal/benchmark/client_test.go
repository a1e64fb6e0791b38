package benchmark

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/ai-econ-engine/internal/config"
)

func testConfig(url string) config.Config {
	return config.Config{
		McKinseyURL:    url,
		OECDURL:        url,
		AIIndexURL:     url,
		RequestTimeout: 2 * time.Second,
		APIKeys:        map[string]string{"mckinsey": "test-key"},
	}
}

func TestMcKinseyClient_Fetch(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[
			{"sector":"Technology","productivity_gain":0.42,"respondents":310,"collected_at":1755000000},
			{"sector":"Retail","productivity_gain":0.27,"respondents":180,"collected_at":1755000000}
		]}`))
	}))
	defer srv.Close()

	c := NewMcKinseyClient(testConfig(srv.URL))
	got, err := c.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "mckinsey", got[0].Source)
	assert.Equal(t, "Technology", got[0].Sector)
	assert.Equal(t, 0.42, got[0].ProductivityGain)
	assert.Equal(t, 310, got[0].SampleSize)
}

func TestMcKinseyClient_EmptyPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := NewMcKinseyClient(testConfig(srv.URL))
	_, err := c.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data")
}

func TestAIIndexClient_ScalesPercentagePoints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"metrics":[
			{"industry":"Manufacturing","gain_pct":33.0,"sample_size":95,"observed_at":1755000000}
		]}`))
	}))
	defer srv.Close()

	c := NewAIIndexClient(testConfig(srv.URL))
	got, err := c.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.InDelta(t, 0.33, got[0].ProductivityGain, 1e-12)
	assert.Equal(t, "aiindex", got[0].Source)
}

func TestOECDClient_StampsFetchTime(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"dataSets":[{"series":[
			{"sector":"Government","gain":0.21,"firms":400}
		]}]}`))
	}))
	defer srv.Close()

	before := time.Now().Unix()
	c := NewOECDClient(testConfig(srv.URL))
	got, err := c.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.GreaterOrEqual(t, got[0].CollectedAt, before)
	assert.Equal(t, "oecd", got[0].Source)
}

func TestNewClient_SourceDispatch(t *testing.T) {
	cfg := testConfig("http://localhost")

	assert.IsType(t, &McKinseyClient{}, NewClient(cfg, "mckinsey"))
	assert.IsType(t, &OECDClient{}, NewClient(cfg, "oecd"))
	assert.IsType(t, &AIIndexClient{}, NewClient(cfg, "aiindex"))
	assert.IsType(t, &McKinseyClient{}, NewClient(cfg, "unknown"))
}
