// Package main is the entry point for the AI economics calculation service.
// It exposes the ROI, cost-of-inaction, productivity, market-value and
// payback models over HTTP, refreshes the sector parameter tables from
// published adoption benchmarks, and exports signed result batches to
// downstream dashboards.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourorg/ai-econ-engine/internal/benchmark"
	"github.com/yourorg/ai-econ-engine/internal/config"
	"github.com/yourorg/ai-econ-engine/internal/econ"
	"github.com/yourorg/ai-econ-engine/internal/export"
	"github.com/yourorg/ai-econ-engine/internal/guard"
	"github.com/yourorg/ai-econ-engine/internal/integration"
	"github.com/yourorg/ai-econ-engine/internal/otel"
	"github.com/yourorg/ai-econ-engine/internal/params"
	"github.com/yourorg/ai-econ-engine/internal/security"
	"github.com/yourorg/ai-econ-engine/internal/validation"
)

// startTime records when the service was initialized for uptime reporting
var startTime = time.Now()

// Server represents the calculation service instance
type Server struct {
	// Application configuration
	cfg config.Config

	// HTTP server instance
	server *http.Server

	// Current parameter set and the stack built on top of it. Rebuilt
	// atomically when a benchmark refresh is accepted.
	mu          sync.RWMutex
	params      *params.EconomicParameters
	engine      *econ.Engine
	validator   *validation.Validator
	integration *integration.Integration

	// Benchmark sources feeding parameter refreshes
	sources []benchmark.Client

	// Guard protecting the parameter tables from bad benchmark batches
	refreshGuard *guard.Guard

	// Result export and signing
	exporter  *export.Exporter
	integrity *security.IntegrityService

	// Request rate limiting
	rateLimit *rate.Limiter

	// Prometheus metrics
	metrics *serverMetrics
}

// serverMetrics holds Prometheus metrics for the server
type serverMetrics struct {
	requestCounter       *prometheus.CounterVec
	requestDuration      *prometheus.HistogramVec
	validationRejections prometheus.Counter
	resultAnomalies      *prometheus.CounterVec
	guardState           prometheus.Gauge
	parameterRefreshes   *prometheus.CounterVec
}

// registerMetrics sets up Prometheus metrics collection
func registerMetrics() *serverMetrics {
	m := &serverMetrics{
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "econ_requests_total",
				Help: "Total number of calculation requests processed",
			},
			[]string{"operation", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "econ_request_duration_seconds",
				Help:    "Request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		validationRejections: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "econ_validation_rejections_total",
				Help: "Total number of requests rejected by the validation gate",
			},
		),
		resultAnomalies: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "econ_result_anomalies_total",
				Help: "Total number of results flagged with anomalies",
			},
			[]string{"operation"},
		),
		guardState: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "econ_refresh_guard_state",
				Help: "Refresh guard state (0=closed, 1=open, 2=half-open)",
			},
		),
		parameterRefreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "econ_parameter_refreshes_total",
				Help: "Total number of benchmark-driven parameter refreshes",
			},
			[]string{"status"},
		),
	}

	prometheus.MustRegister(
		m.requestCounter,
		m.requestDuration,
		m.validationRejections,
		m.resultAnomalies,
		m.guardState,
		m.parameterRefreshes,
	)

	return m
}

// main is the entry point for the application
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	setupLogging(cfg)

	shutdownTracer := otel.InitTracer(cfg)
	defer shutdownTracer()

	p, err := loadParameters(cfg)
	if err != nil {
		logrus.Fatalf("Failed to load economic parameters: %v", err)
	}

	server := NewServer(cfg, p)
	server.Start()
}

// loadParameters builds the parameter set: the built-in defaults, optionally
// overridden by a YAML preset file. The loaded tables are held to the same
// plausibility ceilings the refresh guard enforces, so a preset cannot ship
// figures a benchmark refresh would be blocked for.
func loadParameters(cfg config.Config) (*params.EconomicParameters, error) {
	p := params.Defaults()

	if cfg.ParamsFile != "" {
		var err error
		p, err = params.LoadPreset(cfg.ParamsFile)
		if err != nil {
			return nil, err
		}
		logrus.Infof("Loaded parameter preset from %s", cfg.ParamsFile)
	}

	if err := checkCeilings(p, cfg); err != nil {
		return nil, err
	}
	return p, nil
}

// checkCeilings rejects parameter tables whose entries exceed the configured
// plausibility ceilings.
func checkCeilings(p *params.EconomicParameters, cfg config.Config) error {
	for sector, gain := range p.SectorProductivityGains {
		if gain > cfg.MaxSectorGain {
			return fmt.Errorf("sector %q productivity gain %.2f exceeds ceiling %.2f",
				sector, gain, cfg.MaxSectorGain)
		}
	}
	for useCase, roi := range p.UseCaseROI {
		if roi > cfg.MaxUseCaseROI {
			return fmt.Errorf("use case %q ROI %.2f exceeds ceiling %.2f",
				useCase, roi, cfg.MaxUseCaseROI)
		}
	}
	return nil
}

// NewServer creates a new server instance wired to a parameter set
func NewServer(cfg config.Config, p *params.EconomicParameters) *Server {
	engine := econ.New(p)
	validator := validation.New(p)

	s := &Server{
		cfg:         cfg,
		params:      p,
		engine:      engine,
		validator:   validator,
		integration: integration.New(engine, validator),
		metrics:     registerMetrics(),
		rateLimit:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RateBurst),
	}

	s.refreshGuard = guard.New(guard.Thresholds{
		MaxSectorGain:     cfg.MaxSectorGain,
		MaxGainChange:     0.5,
		MinSources:        cfg.MinSourceCount,
		MaxStdDevMultiple: 3.0,
	}).WithResetDelay(cfg.GuardResetDelay).
		WithTripCallback(func(reason string, observations []benchmark.Observation) {
			logrus.Warnf("Parameter refresh blocked: %s (%d observations)", reason, len(observations))
		})

	s.sources = []benchmark.Client{
		benchmark.NewClient(cfg, "mckinsey"),
		benchmark.NewClient(cfg, "oecd"),
		benchmark.NewClient(cfg, "aiindex"),
	}

	if cfg.SigningEnabled {
		integrity, err := security.NewIntegrityService(security.VerificationOptions{
			SignatureEnabled:     true,
			VerificationRequired: true,
			SignatureValidity:    24 * time.Hour,
		})
		if err != nil {
			logrus.Warnf("Failed to initialize integrity service: %v", err)
		} else {
			s.integrity = integrity
		}
	}

	if cfg.WebhookURL != "" {
		s.exporter = export.New(export.Config{
			Enabled:        true,
			BatchSize:      cfg.ExportBatchSize,
			ExportInterval: cfg.ExportInterval,
			WebhookURL:     cfg.WebhookURL,
			WebhookAPIKey:  cfg.WebhookAPIKey,
		}, s.integrity)
	}

	logrus.WithFields(logrus.Fields{
		"port":             cfg.Port,
		"params_file":      cfg.ParamsFile,
		"refresh_interval": cfg.RefreshInterval,
		"source_count":     len(s.sources),
		"signing":          s.integrity != nil,
		"export":           s.exporter != nil,
	}).Info("Server initialized")

	return s
}

// Start begins the HTTP server and sets up graceful shutdown
func (s *Server) Start() {
	mux := http.NewServeMux()

	// Calculation endpoints
	mux.HandleFunc("/roi", s.handleROI)
	mux.HandleFunc("/cost-of-inaction", s.handleCostOfInaction)
	mux.HandleFunc("/productivity", s.handleProductivity)
	mux.HandleFunc("/market-value", s.handleMarketValue)
	mux.HandleFunc("/payback", s.handlePayback)
	mux.HandleFunc("/validate", s.handleValidate)

	// Operational endpoints
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/metrics", promhttp.Handler().ServeHTTP)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/guard", s.handleGuard)

	s.server = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	refreshCtx, cancelRefresh := context.WithCancel(context.Background())
	if s.cfg.RefreshInterval > 0 {
		go s.refreshLoop(refreshCtx)
	}

	go func() {
		logrus.Infof("Server starting on port %s", s.cfg.Port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Error starting server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Server shutting down...")
	cancelRefresh()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server shutdown failed: %v", err)
	}

	if s.exporter != nil {
		s.exporter.Stop()
	}

	logrus.Info("Server stopped")
}

// integ returns the current integration layer under the read lock
func (s *Server) integ() *integration.Integration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.integration
}

// refreshLoop periodically pulls adoption benchmarks and folds accepted
// batches into the parameter tables.
func (s *Server) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.refreshParameters(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// refreshParameters fetches benchmarks from all sources, runs the guard, and
// rebuilds the engine stack on an updated parameter set when accepted.
func (s *Server) refreshParameters(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	observations, err := s.fetchAllObservations(fetchCtx)
	if err != nil {
		logrus.Warnf("Benchmark fetch failed: %v", err)
		s.metrics.parameterRefreshes.WithLabelValues("fetch_error").Inc()
		return
	}

	if err := s.refreshGuard.Check(observations); err != nil {
		s.metrics.parameterRefreshes.WithLabelValues("guarded").Inc()
		s.metrics.guardState.Set(float64(s.refreshGuard.GetState()))
		return
	}
	s.metrics.guardState.Set(float64(s.refreshGuard.GetState()))

	gains := benchmark.SectorGains(observations, s.cfg.MinSourceCount)
	if len(gains) == 0 {
		logrus.Info("Benchmark refresh produced no multi-source sector consensus, keeping current parameters")
		s.metrics.parameterRefreshes.WithLabelValues("empty").Inc()
		return
	}

	s.mu.Lock()
	updated := s.params.Clone()
	for sector, gain := range gains {
		updated.SectorProductivityGains[sector] = gain
	}
	s.params = updated
	s.engine = econ.New(updated)
	s.validator = validation.New(updated)
	s.integration = integration.New(s.engine, s.validator)
	s.mu.Unlock()

	logrus.WithField("sectors", len(gains)).Info("Sector parameters refreshed from benchmarks")
	s.metrics.parameterRefreshes.WithLabelValues("applied").Inc()
}

// fetchAllObservations queries every benchmark source in parallel and pools
// the rows. Individual source failures are tolerated as long as any source
// delivered.
func (s *Server) fetchAllObservations(ctx context.Context) ([]benchmark.Observation, error) {
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		observations []benchmark.Observation
		errs         []error
	)

	for _, source := range s.sources {
		wg.Add(1)
		go func(c benchmark.Client) {
			defer wg.Done()

			rows, err := c.Fetch(ctx)
			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				errs = append(errs, err)
				return
			}

			observations = append(observations, rows...)
		}(source)
	}

	wg.Wait()

	if len(observations) == 0 && len(errs) > 0 {
		return nil, fmt.Errorf("all benchmark sources failed: %v", errs[0])
	}

	return observations, nil
}

// handleROI runs the full ROI model on a dashboard form
func (s *Server) handleROI(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !s.allow(w, r, "roi") {
		return
	}

	var form integration.ROIForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		s.errorResponse(w, "roi", http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := s.integ().ROI(form)
	if err != nil {
		s.calcError(w, "roi", err)
		return
	}

	s.finish(w, "roi", start, view, view.Result.Anomalies)
}

// handleCostOfInaction prices a delayed AI adoption
func (s *Server) handleCostOfInaction(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !s.allow(w, r, "cost_of_inaction") {
		return
	}

	var form integration.InactionForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		s.errorResponse(w, "cost_of_inaction", http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := s.integ().CostOfInaction(form)
	if err != nil {
		s.calcError(w, "cost_of_inaction", err)
		return
	}

	s.finish(w, "cost_of_inaction", start, view, view.Result.Anomalies)
}

// handleProductivity runs the productivity-gain model
func (s *Server) handleProductivity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !s.allow(w, r, "productivity") {
		return
	}

	var form integration.ProductivityForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		s.errorResponse(w, "productivity", http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := s.integ().ProductivityGain(form)
	if err != nil {
		s.calcError(w, "productivity", err)
		return
	}

	s.finish(w, "productivity", start, view, view.Result.Anomalies)
}

// handleMarketValue runs the market-value impact model
func (s *Server) handleMarketValue(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !s.allow(w, r, "market_value") {
		return
	}

	var form integration.MarketValueForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		s.errorResponse(w, "market_value", http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := s.integ().MarketValue(form)
	if err != nil {
		s.calcError(w, "market_value", err)
		return
	}

	s.finish(w, "market_value", start, view, view.Result.Anomalies)
}

// handlePayback runs the payback-period simulation
func (s *Server) handlePayback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !s.allow(w, r, "payback") {
		return
	}

	var form integration.PaybackForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		s.errorResponse(w, "payback", http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := s.integ().Payback(form)
	if err != nil {
		s.calcError(w, "payback", err)
		return
	}

	s.finish(w, "payback", start, view, view.Result.Anomalies)
}

// handleValidate exposes the validation gate directly for live form checks.
// The outcome is always a 200; the verdict is in the body.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, "validate") {
		return
	}

	var in validation.Inputs
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.errorResponse(w, "validate", http.StatusBadRequest, "Invalid request body")
		return
	}

	outcome := s.integ().Validate(in)
	if !outcome.Valid {
		s.metrics.validationRejections.Inc()
	}
	s.metrics.requestCounter.WithLabelValues("validate", "success").Inc()

	writeJSON(w, http.StatusOK, outcome)
}

// allow applies the method check and the rate limiter
func (s *Server) allow(w http.ResponseWriter, r *http.Request, operation string) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}

	if !s.rateLimit.Allow() {
		s.errorResponse(w, operation, http.StatusTooManyRequests, "Rate limit exceeded")
		return false
	}

	return true
}

// finish records metrics, exports the result, and writes the response
func (s *Server) finish(w http.ResponseWriter, operation string, start time.Time, view interface{}, anomalies []string) {
	requestID := uuid.NewString()

	if len(anomalies) > 0 {
		s.metrics.resultAnomalies.WithLabelValues(operation).Inc()
		logrus.WithFields(logrus.Fields{
			"operation":  operation,
			"request_id": requestID,
			"anomalies":  anomalies,
		}).Warn("Calculation result flagged with anomalies")
	}

	if s.exporter != nil {
		s.exporter.Add(export.Record{
			RequestID:  requestID,
			Operation:  operation,
			Result:     view,
			Anomalies:  anomalies,
			ComputedAt: time.Now().UTC(),
		})
	}

	s.metrics.requestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	s.metrics.requestCounter.WithLabelValues(operation, "success").Inc()

	writeJSON(w, http.StatusOK, calcResponse{
		Status:    "success",
		RequestID: requestID,
		Data:      view,
	})
}

// calcError maps calculation failures to HTTP status codes
func (s *Server) calcError(w http.ResponseWriter, operation string, err error) {
	var verr *integration.ValidationError
	switch {
	case errors.As(err, &verr):
		s.metrics.validationRejections.Inc()
		s.metrics.requestCounter.WithLabelValues(operation, "rejected").Inc()
		writeJSON(w, http.StatusUnprocessableEntity, calcResponse{
			Status: "error",
			Error:  "Input validation failed",
			Errors: verr.Outcome.Errors,
			Data:   verr.Outcome,
		})
	case errors.Is(err, econ.ErrInvalidArgument):
		s.errorResponse(w, operation, http.StatusBadRequest, err.Error())
	default:
		s.errorResponse(w, operation, http.StatusInternalServerError, err.Error())
	}
}

// handleHealth is a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"version":   version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleStatus provides detailed service status information
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	sectorCount := len(s.params.SectorProductivityGains)
	useCaseCount := len(s.params.UseCaseROI)
	s.mu.RUnlock()

	status := map[string]interface{}{
		"status":  "operational",
		"uptime":  time.Since(startTime).String(),
		"version": version,
		"parameters": map[string]interface{}{
			"sectors":   sectorCount,
			"use_cases": useCaseCount,
			"preset":    s.cfg.ParamsFile,
		},
		"benchmark_sources": len(s.sources),
		"guard_state":       s.refreshGuard.GetState(),
	}

	if s.exporter != nil {
		status["export"] = s.exporter.Status()
	}
	if s.integrity != nil {
		status["public_key"] = s.integrity.GetPublicKey()
	}

	writeJSON(w, http.StatusOK, status)
}

// handleGuard allows viewing and controlling the refresh guard
func (s *Server) handleGuard(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"state": s.refreshGuard.GetState(),
	}

	// Allow reset operation via POST
	if r.Method == http.MethodPost {
		if r.URL.Query().Get("action") == "reset" {
			s.refreshGuard.Reset()
			s.metrics.guardState.Set(float64(s.refreshGuard.GetState()))
			response["state"] = s.refreshGuard.GetState()
			response["message"] = "Refresh guard reset"
		}
	}

	if gain, ok := s.refreshGuard.LastAcceptedGain(); ok {
		response["last_accepted_avg_gain"] = gain
	}

	writeJSON(w, http.StatusOK, response)
}

// errorResponse returns a formatted error response
func (s *Server) errorResponse(w http.ResponseWriter, operation string, statusCode int, errorMsg string) {
	logrus.Warn(errorMsg)
	s.metrics.requestCounter.WithLabelValues(operation, "error").Inc()

	writeJSON(w, statusCode, calcResponse{
		Status: "error",
		Error:  errorMsg,
	})
}
