package export

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/ai-econ-engine/internal/security"
)

func TestExporter_FlushesOnFullBatch(t *testing.T) {
	received := make(chan map[string]interface{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		received <- body
	}))
	defer srv.Close()

	e := New(Config{
		Enabled:        true,
		BatchSize:      2,
		ExportInterval: time.Hour, // only the batch size should trigger
		WebhookURL:     srv.URL,
		WebhookAPIKey:  "secret",
	}, nil)
	defer e.Stop()

	e.Add(
		Record{RequestID: "r1", Operation: "roi", Result: map[string]float64{"total_roi": 294.0}, ComputedAt: time.Now()},
		Record{RequestID: "r2", Operation: "payback", Result: map[string]float64{"payback_months": 17}, ComputedAt: time.Now()},
	)

	select {
	case body := <-received:
		assert.EqualValues(t, 2, body["count"])
		results, ok := body["results"].([]interface{})
		require.True(t, ok)
		assert.Len(t, results, 2)
	case <-time.After(2 * time.Second):
		t.Fatal("batch was never exported")
	}
}

func TestExporter_StopFlushesRemainder(t *testing.T) {
	received := make(chan int, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Count int `json:"count"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		received <- body.Count
	}))
	defer srv.Close()

	e := New(Config{
		Enabled:        true,
		BatchSize:      100,
		ExportInterval: time.Hour,
		WebhookURL:     srv.URL,
	}, nil)

	e.Add(Record{RequestID: "r1", Operation: "roi", ComputedAt: time.Now()})
	e.Stop()

	select {
	case count := <-received:
		assert.Equal(t, 1, count)
	case <-time.After(2 * time.Second):
		t.Fatal("remainder was not flushed on stop")
	}
}

func TestExporter_SignedBatches(t *testing.T) {
	integrity, err := security.NewIntegrityService(security.VerificationOptions{
		SignatureEnabled:     true,
		VerificationRequired: true,
		SignatureValidity:    time.Hour,
	})
	require.NoError(t, err)

	received := make(chan map[string]interface{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		received <- body
	}))
	defer srv.Close()

	e := New(Config{
		Enabled:        true,
		BatchSize:      1,
		ExportInterval: time.Hour,
		WebhookURL:     srv.URL,
	}, integrity)
	defer e.Stop()

	e.Add(Record{RequestID: "r1", Operation: "roi", ComputedAt: time.Now()})

	select {
	case body := <-received:
		require.Contains(t, body, "_signature")

		// The webhook receiver sees the batch after a JSON round trip; both
		// the signature and the content hash must still check out.
		ok, extracted, err := integrity.VerifyIntegrity(body)
		require.NoError(t, err)
		assert.True(t, ok)

		payload, isMap := extracted["payload"].(map[string]interface{})
		require.True(t, isMap)
		assert.EqualValues(t, 1, payload["count"])

		meta, _ := extracted["metadata"].(map[string]interface{})
		require.NotNil(t, meta)
		assert.EqualValues(t, 1, meta["batch_count"])
	case <-time.After(2 * time.Second):
		t.Fatal("signed batch was never exported")
	}
}

func TestExporter_DisabledIsNoOp(t *testing.T) {
	e := New(Config{Enabled: false}, nil)

	e.Add(Record{RequestID: "r1", Operation: "roi"})
	e.Stop()

	status := e.Status()
	assert.Equal(t, false, status["enabled"])
	assert.Equal(t, 0, status["current_batch"])
}
