// Package export ships calculation results to downstream dashboards. Results
// are batched in memory and flushed to a webhook either when the batch fills
// up or on a fixed interval, optionally inside a signed tamper-proof wrapper.
package export

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourorg/ai-econ-engine/internal/security"
)

// Record is one exported calculation: which operation ran, its result, and
// any anomaly flags the engine attached.
type Record struct {
	RequestID  string      `json:"request_id"`
	Operation  string      `json:"operation"`
	Result     interface{} `json:"result"`
	Anomalies  []string    `json:"anomalies,omitempty"`
	ComputedAt time.Time   `json:"computed_at"`
}

// Config holds configuration for the result exporter
type Config struct {
	Enabled        bool          `json:"enabled"`
	BatchSize      int           `json:"batch_size"`
	ExportInterval time.Duration `json:"export_interval"`

	WebhookURL    string `json:"webhook_url"`
	WebhookAPIKey string `json:"webhook_api_key,omitempty"`
}

// Exporter batches result records and flushes them to the configured webhook
type Exporter struct {
	config     Config
	httpClient *http.Client
	integrity  *security.IntegrityService

	mutex      sync.RWMutex
	batch      []Record
	lastExport time.Time

	exportContext context.Context
	exportCancel  context.CancelFunc
}

// New creates a new result exporter. The integrity service is optional; when
// present, every exported batch is signed.
func New(config Config, integrity *security.IntegrityService) *Exporter {
	if !config.Enabled {
		return &Exporter{config: config}
	}

	if config.ExportInterval <= 0 {
		config.ExportInterval = time.Minute
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}

	httpClient := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
			IdleConnTimeout: 90 * time.Second,
		},
	}

	e := &Exporter{
		config:     config,
		httpClient: httpClient,
		integrity:  integrity,
		batch:      make([]Record, 0, config.BatchSize),
	}

	e.exportContext, e.exportCancel = context.WithCancel(context.Background())
	go e.periodicExport()

	logrus.Info("Result exporter initialized")
	return e
}

// Add queues result records for export
func (e *Exporter) Add(records ...Record) {
	if !e.config.Enabled || len(records) == 0 {
		return
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.batch = append(e.batch, records...)

	if len(e.batch) >= e.config.BatchSize {
		go e.export()
	}
}

// periodicExport runs a background task to periodically flush the batch
func (e *Exporter) periodicExport() {
	ticker := time.NewTicker(e.config.ExportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.export()
		case <-e.exportContext.Done():
			return
		}
	}
}

// export flushes the current batch to the webhook
func (e *Exporter) export() {
	e.mutex.Lock()

	if len(e.batch) == 0 {
		e.mutex.Unlock()
		return
	}

	records := make([]Record, len(e.batch))
	copy(records, e.batch)
	e.batch = make([]Record, 0, e.config.BatchSize)
	e.lastExport = time.Now()

	e.mutex.Unlock()

	if err := e.sendToWebhook(records); err != nil {
		logrus.Errorf("Failed to export results to webhook: %v", err)
		return
	}

	logrus.Infof("Exported %d calculation results", len(records))
}

// sendToWebhook posts a batch of records to the configured webhook endpoint
func (e *Exporter) sendToWebhook(records []Record) error {
	if e.config.WebhookURL == "" {
		return fmt.Errorf("webhook URL not configured")
	}

	exportData := map[string]interface{}{
		"results":     records,
		"export_time": time.Now().UTC().Format(time.RFC3339),
		"count":       len(records),
	}

	payload := exportData
	if e.integrity != nil {
		wrapped, err := e.integrity.CreateTamperProofWrapper(exportData, map[string]interface{}{
			"service":     "ai-econ-engine",
			"batch_count": len(records),
		})
		if err != nil {
			return fmt.Errorf("failed to sign export batch: %w", err)
		}
		payload = wrapped
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	req, err := http.NewRequest("POST", e.config.WebhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if e.config.WebhookAPIKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.config.WebhookAPIKey)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned error status: %d", resp.StatusCode)
	}

	return nil
}

// Stop cleanly stops the exporter, flushing any remaining records
func (e *Exporter) Stop() {
	if e.exportCancel != nil {
		e.exportCancel()
	}
	e.export()
}

// Status returns the current status of the exporter
func (e *Exporter) Status() map[string]interface{} {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	status := map[string]interface{}{
		"enabled":         e.config.Enabled,
		"batch_size":      e.config.BatchSize,
		"export_interval": e.config.ExportInterval.String(),
		"current_batch":   len(e.batch),
		"signing":         e.integrity != nil,
	}

	if !e.lastExport.IsZero() {
		status["last_export"] = e.lastExport.Format(time.RFC3339)
		status["next_export_in"] = (e.config.ExportInterval - time.Since(e.lastExport)).String()
	}

	return status
}
