package econ

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/ai-econ-engine/internal/params"
)

func newTestEngine() *Engine {
	return New(params.Defaults())
}

func TestROIWithRealData_FraudDetectionScenario(t *testing.T) {
	e := newTestEngine()

	got, err := e.ROIWithRealData(ROIInput{
		Investment:          1_000_000,
		UseCase:             "Fraud Detection",
		ImplementationYears: 3,
		CompanySize:         "Large",
		Industry:            "Financial Services",
	})
	require.NoError(t, err)

	// Base 2.80 x size 1.00 x industry adjustment 1.05 = 2.94.
	assert.InDelta(t, 294.0, got.TotalROIPercentage, 1e-9)
	assert.InDelta(t, 0.35, got.IndustryProductivityGain, 1e-12)
	assert.InDelta(t, 294.0*0.85, got.RiskAdjustedROI, 1e-9)
	assert.InDelta(t, 294.0/3.0, got.AnnualizedReturn, 1e-9)

	// Efficiency gain averages the ROI-implied gain with the sector baseline.
	assert.InDelta(t, ((2.94-1.0)*100+35.0)/2.0, got.EfficiencyGainPercentage, 1e-9)

	assert.GreaterOrEqual(t, got.BreakEvenYear, 1)
	assert.LessOrEqual(t, got.BreakEvenYear, 3)
	assert.Greater(t, got.TotalValueCreated, 0.0)
	assert.Greater(t, got.LearningCurveImpact, 0.0)
	assert.Less(t, got.LearningCurveImpact, 1.0)
}

func TestROIWithRealData_UnknownUseCaseFallsBack(t *testing.T) {
	e := newTestEngine()

	got, err := e.ROIWithRealData(ROIInput{
		Investment:          500_000,
		UseCase:             "Quantum Telepathy",
		ImplementationYears: 2,
		CompanySize:         "Large",
		Industry:            "Other",
	})
	require.NoError(t, err)

	// Default base 1.50, neutral size and industry.
	assert.InDelta(t, 150.0, got.TotalROIPercentage, 1e-9)
}

func TestROIWithRealData_SizeMultipliers(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		size string
		want float64
	}{
		{"Small", 150.0 * 0.70},
		{"Medium", 150.0 * 0.85},
		{"Large", 150.0},
		{"Enterprise", 150.0 * 1.15},
		{"Galactic", 150.0}, // unknown size is neutral
	}

	for _, tt := range tests {
		t.Run(tt.size, func(t *testing.T) {
			got, err := e.ROIWithRealData(ROIInput{
				Investment:          100_000,
				UseCase:             "Default",
				ImplementationYears: 1,
				CompanySize:         tt.size,
				Industry:            "Other",
			})
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got.TotalROIPercentage, 1e-9)
		})
	}
}

func TestROIWithRealData_BreakEvenNeverExceedsHorizon(t *testing.T) {
	e := newTestEngine()

	for _, years := range []int{1, 2, 3, 5, 8, 12} {
		got, err := e.ROIWithRealData(ROIInput{
			Investment:          2_000_000,
			UseCase:             "Customer Service",
			ImplementationYears: years,
			CompanySize:         "Medium",
			Industry:            "Retail",
		})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got.BreakEvenYear, 1)
		assert.LessOrEqual(t, got.BreakEvenYear, years, "horizon %d", years)
	}
}

func TestROIWithRealData_Deterministic(t *testing.T) {
	e := newTestEngine()
	in := ROIInput{
		Investment:          750_000,
		UseCase:             "Predictive Maintenance",
		ImplementationYears: 4,
		CompanySize:         "Enterprise",
		Industry:            "Manufacturing",
	}

	first, err := e.ROIWithRealData(in)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := e.ROIWithRealData(in)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestROIWithRealData_RejectsBadArguments(t *testing.T) {
	e := newTestEngine()

	_, err := e.ROIWithRealData(ROIInput{Investment: 100_000, ImplementationYears: 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = e.ROIWithRealData(ROIInput{Investment: -5, ImplementationYears: 3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestROIWithRealData_FlagsExtremeROI(t *testing.T) {
	p := params.Defaults()
	p.UseCaseROI["Moonshot"] = 20.0
	e := New(p)

	got, err := e.ROIWithRealData(ROIInput{
		Investment:          100_000,
		UseCase:             "Moonshot",
		ImplementationYears: 3,
		CompanySize:         "Enterprise",
		Industry:            "Technology",
	})
	require.NoError(t, err)
	require.NotEmpty(t, got.Anomalies)
	assert.Contains(t, got.Anomalies[0], "unusually high")
}

func TestEngine_ConcurrentUse(t *testing.T) {
	e := newTestEngine()
	in := ROIInput{
		Investment:          1_000_000,
		UseCase:             "Fraud Detection",
		ImplementationYears: 3,
		CompanySize:         "Large",
		Industry:            "Financial Services",
	}
	want, err := e.ROIWithRealData(in)
	require.NoError(t, err)

	const workers = 16
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				got, err := e.ROIWithRealData(in)
				if err != nil {
					results <- err
					return
				}
				if !reflect.DeepEqual(got, want) {
					results <- errors.New("concurrent call diverged from sequential result")
					return
				}
			}
			results <- nil
		}()
	}
	for i := 0; i < workers; i++ {
		require.NoError(t, <-results)
	}
}
