// Package guard keeps implausible or degraded benchmark data from being
// folded into the live economic parameters.
package guard

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourorg/ai-econ-engine/internal/benchmark"
)

// State represents the current state of the guard
type State int

// Guard states
const (
	StateClosed   State = iota // Normal operation, refreshes flow through
	StateOpen                  // Tripped, parameter refreshes are blocked
	StateHalfOpen              // Testing whether the sources have recovered
)

// Guard gates parameter refreshes behind plausibility checks on the incoming
// benchmark batch. While open, the engine keeps serving the last accepted
// parameter set.
type Guard struct {
	// Configuration thresholds for tripping the guard
	thresholds Thresholds

	// Current state (Closed, Open, HalfOpen)
	state State

	// Timestamp of the last trip
	lastTrip time.Time

	// Duration before auto-reset attempt
	resetDelay time.Duration

	// Mutex for thread safety
	mu sync.RWMutex

	// Average gains of previously accepted batches, for drift comparison
	gainHistory []snapshot

	// Count of consecutive accepted batches in HalfOpen state
	successCount int

	// Number of accepted batches required to close the guard
	successThreshold int

	// Event callback for monitoring/alerting
	onTripCallback func(reason string, observations []benchmark.Observation)
}

type snapshot struct {
	avgGain    float64
	acceptedAt int64
}

// Thresholds defines the limits that will trip the guard
type Thresholds struct {
	// Maximum plausible sector productivity gain (e.g. 1.0 for 100%)
	MaxSectorGain float64 `json:"max_sector_gain"`

	// Maximum allowed change in average gain between consecutive accepted
	// batches (e.g. 0.5 for 50%)
	MaxGainChange float64 `json:"max_gain_change"`

	// Minimum number of distinct research sources in a batch
	MinSources int `json:"min_sources"`

	// Maximum standard deviation for gains as multiple of mean
	MaxStdDevMultiple float64 `json:"max_std_dev_multiple,omitempty"`
}

// New creates a new Guard with the provided thresholds
func New(t Thresholds) *Guard {
	return &Guard{
		thresholds:       t,
		state:            StateClosed,
		resetDelay:       5 * time.Minute,
		successThreshold: 3,
	}
}

// WithResetDelay sets a custom reset delay and returns the guard
func (g *Guard) WithResetDelay(delay time.Duration) *Guard {
	g.resetDelay = delay
	return g
}

// WithSuccessThreshold sets the number of accepted batches needed to close the guard
func (g *Guard) WithSuccessThreshold(threshold int) *Guard {
	g.successThreshold = threshold
	return g
}

// WithTripCallback sets a callback function that is called when the guard trips
func (g *Guard) WithTripCallback(callback func(reason string, observations []benchmark.Observation)) *Guard {
	g.onTripCallback = callback
	return g
}

// Check evaluates a benchmark batch against the thresholds and decides
// whether a parameter refresh may proceed. While the guard is open it blocks
// refreshes outright; a threshold violation trips it and returns an error.
func (g *Guard) Check(observations []benchmark.Observation) error {
	g.mu.RLock()
	state := g.state
	lastTripTime := g.lastTrip
	g.mu.RUnlock()

	if state == StateOpen {
		if time.Since(lastTripTime) > g.resetDelay {
			g.transitionToHalfOpen()
		} else {
			return errors.New("refresh guard open: parameter protection engaged")
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if len(observations) == 0 {
		return errors.New("no observations provided to refresh guard")
	}

	if distinctSources(observations) < g.thresholds.MinSources {
		reason := fmt.Sprintf("insufficient source count: got %d, need %d",
			distinctSources(observations), g.thresholds.MinSources)
		g.trip(reason, observations)
		return errors.New(reason)
	}

	for _, o := range observations {
		if o.ProductivityGain > g.thresholds.MaxSectorGain {
			reason := fmt.Sprintf("productivity gain exceeds maximum threshold: %f > %f",
				o.ProductivityGain, g.thresholds.MaxSectorGain)
			g.trip(reason, observations)
			return errors.New(reason)
		}
	}

	// Compare against the last accepted batch if we have history. Sudden
	// swings in the benchmark consensus point at a broken feed, not at the
	// economy changing overnight.
	if len(g.gainHistory) > 0 {
		last := g.gainHistory[len(g.gainHistory)-1]
		current := averageGain(observations)

		if last.avgGain > 1e-6 {
			changeRatio := math.Abs(current-last.avgGain) / last.avgGain
			if changeRatio > g.thresholds.MaxGainChange {
				reason := fmt.Sprintf("benchmark drift too drastic: %.2f%% (threshold: %.2f%%)",
					changeRatio*100, g.thresholds.MaxGainChange*100)
				g.trip(reason, observations)
				return errors.New(reason)
			}
		}
	}

	if g.thresholds.MaxStdDevMultiple > 0 && len(observations) > 1 {
		stdDev, mean := stdDevAndMean(observations)
		if mean > 0 && stdDev/mean > g.thresholds.MaxStdDevMultiple {
			reason := fmt.Sprintf("gain standard deviation too high: %.2f x mean (threshold: %.2f)",
				stdDev/mean, g.thresholds.MaxStdDevMultiple)
			g.trip(reason, observations)
			return errors.New(reason)
		}
	}

	logrus.Debug("Refresh guard checks passed")

	g.addToHistory(observations)

	if g.state == StateHalfOpen {
		g.successCount++
		if g.successCount >= g.successThreshold {
			g.state = StateClosed
			g.successCount = 0
			logrus.Info("Refresh guard closed: benchmark sources have recovered")
		}
	}

	return nil
}

// GetState returns the current state of the guard
func (g *Guard) GetState() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Reset forcibly resets the guard to closed state
func (g *Guard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = StateClosed
	g.successCount = 0
	logrus.Info("Refresh guard manually reset to closed state")
}

// LastAcceptedGain returns the average gain of the most recent accepted
// batch, and whether any batch has been accepted yet.
func (g *Guard) LastAcceptedGain() (float64, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if len(g.gainHistory) == 0 {
		return 0, false
	}
	return g.gainHistory[len(g.gainHistory)-1].avgGain, true
}

// transitionToHalfOpen changes the guard state to half-open for testing recovery
func (g *Guard) transitionToHalfOpen() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StateOpen {
		g.state = StateHalfOpen
		g.successCount = 0
		logrus.Info("Refresh guard half-open: testing benchmark recovery")
	}
}

// trip sets the guard to open state with the current time
func (g *Guard) trip(reason string, observations []benchmark.Observation) {
	g.state = StateOpen
	g.lastTrip = time.Now()
	logrus.Warnf("Refresh guard tripped: %s", reason)

	if g.onTripCallback != nil {
		go g.onTripCallback(reason, observations)
	}
}

// addToHistory records the accepted batch, maintaining a bounded size
func (g *Guard) addToHistory(observations []benchmark.Observation) {
	g.gainHistory = append(g.gainHistory, snapshot{
		avgGain:    averageGain(observations),
		acceptedAt: time.Now().Unix(),
	})

	const maxHistorySize = 100
	if len(g.gainHistory) > maxHistorySize {
		g.gainHistory = g.gainHistory[len(g.gainHistory)-maxHistorySize:]
	}
}

// averageGain returns the sample-size-weighted average gain of a batch
func averageGain(observations []benchmark.Observation) float64 {
	var totalGain, totalSamples float64
	for _, o := range observations {
		totalGain += o.ProductivityGain * float64(o.SampleSize)
		totalSamples += float64(o.SampleSize)
	}

	if totalSamples > 0 {
		return totalGain / totalSamples
	}
	return 0
}

// distinctSources counts the distinct research sources in a batch
func distinctSources(observations []benchmark.Observation) int {
	sources := map[string]bool{}
	for _, o := range observations {
		sources[o.Source] = true
	}
	return len(sources)
}

// stdDevAndMean computes the standard deviation and mean of gain values
func stdDevAndMean(observations []benchmark.Observation) (float64, float64) {
	if len(observations) <= 1 {
		return 0, 0
	}

	var sum float64
	for _, o := range observations {
		sum += o.ProductivityGain
	}
	mean := sum / float64(len(observations))

	var variance float64
	for _, o := range observations {
		diff := o.ProductivityGain - mean
		variance += diff * diff
	}
	variance /= float64(len(observations) - 1)

	return math.Sqrt(variance), mean
}
