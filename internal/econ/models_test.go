package econ

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/ai-econ-engine/internal/model"
)

func TestCostOfInaction_TechnologyScenario(t *testing.T) {
	e := newTestEngine()

	got, err := e.CostOfInaction(InactionInput{
		CurrentRevenue:         100_000_000,
		Years:                  3,
		Industry:               "Technology",
		CompetitorsAdoptingPct: 60,
		CurrentAdoptionLevel:   20,
	})
	require.NoError(t, err)

	// Each component is a positive cost for a three-year delay.
	assert.Greater(t, got.ProductivityLoss, 0.0)
	assert.Greater(t, got.MarketShareLoss, 0.0)
	assert.Greater(t, got.InnovationImpact, 0.0)
	assert.Greater(t, got.GDPOpportunityCost, 0.0)
	assert.Greater(t, got.CapabilityGapCost, 0.0)

	sum := got.ProductivityLoss + got.MarketShareLoss + got.InnovationImpact +
		got.GDPOpportunityCost + got.CapabilityGapCost
	assert.InDelta(t, sum, got.TotalCost, 1e-6)

	assert.InDelta(t, got.TotalCost/3.0, got.AnnualizedCost, 1e-6)
	assert.InDelta(t, got.TotalCost/(100_000_000*3.0)*100.0, got.TotalRevenueImpactPct, 1e-9)

	// Risk score 3*60/100 = 1.8 sits in the [1,3) bucket.
	assert.Equal(t, model.RiskMedium, got.MarketPositionRisk)
}

func TestCostOfInaction_RiskBuckets(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name           string
		years          int
		competitorsPct float64
		want           model.RiskLevel
	}{
		{"short delay few competitors", 1, 50, model.RiskLow},
		{"boundary to medium", 1, 100, model.RiskMedium},
		{"three year delay majority adopting", 3, 60, model.RiskMedium},
		{"boundary to high", 3, 100, model.RiskHigh},
		{"long delay", 4, 100, model.RiskHigh},
		{"boundary to critical", 5, 100, model.RiskCritical},
		{"extreme delay", 10, 90, model.RiskCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.CostOfInaction(InactionInput{
				CurrentRevenue:         50_000_000,
				Years:                  tt.years,
				Industry:               "Other",
				CompetitorsAdoptingPct: tt.competitorsPct,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.MarketPositionRisk)
		})
	}
}

func TestCostOfInaction_ZeroYears(t *testing.T) {
	e := newTestEngine()

	got, err := e.CostOfInaction(InactionInput{
		CurrentRevenue:         10_000_000,
		Years:                  0,
		Industry:               "Technology",
		CompetitorsAdoptingPct: 80,
	})
	require.NoError(t, err)

	// A zero-length delay costs nothing except the standing GDP proxy term,
	// and the per-year aggregates stay defined.
	assert.Equal(t, 0.0, got.ProductivityLoss)
	assert.Equal(t, 0.0, got.MarketShareLoss)
	assert.Equal(t, 0.0, got.CapabilityGapCost)
	assert.Equal(t, 0.0, got.TotalRevenueImpactPct)
	assert.Equal(t, 0.0, got.AnnualizedCost)
	assert.Equal(t, model.RiskLow, got.MarketPositionRisk)
}

func TestCostOfInaction_GrowsWithDelay(t *testing.T) {
	e := newTestEngine()

	prev := 0.0
	for years := 1; years <= 8; years++ {
		got, err := e.CostOfInaction(InactionInput{
			CurrentRevenue:         100_000_000,
			Years:                  years,
			Industry:               "Financial Services",
			CompetitorsAdoptingPct: 50,
		})
		require.NoError(t, err)
		assert.Greater(t, got.TotalCost, prev, "years=%d", years)
		prev = got.TotalCost
	}
}

func TestCostOfInaction_RejectsBadArguments(t *testing.T) {
	e := newTestEngine()

	_, err := e.CostOfInaction(InactionInput{CurrentRevenue: 0, Years: 3})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = e.CostOfInaction(InactionInput{CurrentRevenue: 1_000_000, Years: -1})
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestProductivityGain_TechnologyScenario(t *testing.T) {
	e := newTestEngine()

	got, err := e.ProductivityGain(ProductivityInput{
		Revenue:          100_000_000,
		Years:            3,
		Industry:         "Technology",
		SkillLevel:       "Mixed",
		AdoptionMaturity: 0.5,
	})
	require.NoError(t, err)

	assert.InDelta(t, 40.0, got.IndustryBaseline, 1e-9)
	assert.InDelta(t, 40.0, got.SkillAdjustedGain, 1e-9)

	// The time factor keeps a three-year gain below the asymptotic
	// skill-adjusted baseline.
	assert.Less(t, got.TimeAdjustedFactor, 1.0)
	assert.Less(t, got.ProductivityGainPercentage, got.SkillAdjustedGain)

	assert.InDelta(t, 0.1, got.MaturityBonus, 1e-12)
	assert.InDelta(t, got.ProductivityGainPercentage/3.0, got.AnnualProductivityImprovement, 1e-9)
	assert.Greater(t, got.CumulativeProductivityGain, 0.0)
}

func TestProductivityGain_SkillLevels(t *testing.T) {
	e := newTestEngine()

	base := func(skill string) float64 {
		got, err := e.ProductivityGain(ProductivityInput{
			Revenue:    1_000_000,
			Years:      5,
			Industry:   "Healthcare",
			SkillLevel: skill,
		})
		require.NoError(t, err)
		return got.ProductivityGainPercentage
	}

	beginner := base("Beginner")
	mixed := base("Mixed")
	advanced := base("Advanced")
	expert := base("Expert")
	unknown := base("Wizard")

	assert.Less(t, beginner, mixed)
	assert.Less(t, mixed, advanced)
	assert.Less(t, advanced, expert)
	assert.Equal(t, mixed, unknown) // unknown skill level is neutral
}

func TestProductivityGain_RejectsBadArguments(t *testing.T) {
	e := newTestEngine()

	_, err := e.ProductivityGain(ProductivityInput{Revenue: -1, Years: 3})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = e.ProductivityGain(ProductivityInput{Revenue: 1_000_000, Years: -2})
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestMarketValueImpact(t *testing.T) {
	e := newTestEngine()

	got, err := e.MarketValueImpact(MarketValueInput{
		Revenue:        200_000_000,
		Industry:       "Technology",
		Years:          4,
		MarketPosition: "Leader",
		Users:          50_000,
	})
	require.NoError(t, err)

	assert.InDelta(t, 200_000_000*0.15*28.0, got.BaseMarketCap, 1e-6)
	assert.InDelta(t, 28.0, got.PERatio, 1e-12)
	assert.InDelta(t, 1.40, got.GrowthMultiple, 1e-12)
	assert.InDelta(t, 1.10, got.PositionAdjustment, 1e-12)

	assert.Greater(t, got.AdoptionPremium, 0.0)
	assert.Less(t, got.AdoptionPremium, 1.0)
	assert.Greater(t, got.NetworkEffectMultiplier, 1.0) // above the reference base

	assert.Greater(t, got.AIEnhancedMarketCap, got.BaseMarketCap)
	assert.InDelta(t, got.AIEnhancedMarketCap-got.BaseMarketCap, got.MarketValueIncrease, 1e-6)
	assert.InDelta(t, got.MarketValueIncrease/got.BaseMarketCap*100.0,
		got.MarketValueIncreasePercentage, 1e-9)
}

func TestMarketValueImpact_PositionOrdering(t *testing.T) {
	e := newTestEngine()

	caps := map[string]float64{}
	for _, position := range []string{"Leader", "Challenger", "Follower", "Laggard"} {
		got, err := e.MarketValueImpact(MarketValueInput{
			Revenue:        50_000_000,
			Industry:       "Retail",
			Years:          3,
			MarketPosition: position,
			Users:          10_000,
		})
		require.NoError(t, err)
		caps[position] = got.AIEnhancedMarketCap
	}

	assert.Greater(t, caps["Leader"], caps["Challenger"])
	assert.Greater(t, caps["Challenger"], caps["Follower"])
	assert.Greater(t, caps["Follower"], caps["Laggard"])
}

func TestMarketValueImpact_ZeroUsersDisablesNetworkEffect(t *testing.T) {
	e := newTestEngine()

	got, err := e.MarketValueImpact(MarketValueInput{
		Revenue:  10_000_000,
		Industry: "Other",
		Years:    2,
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.NetworkEffectMultiplier)
}

func TestPaybackPeriod(t *testing.T) {
	e := newTestEngine()

	got, err := e.PaybackPeriod(PaybackInput{
		Investment:    1_200_000,
		AnnualBenefit: 1_800_000,
		Industry:      "Financial Services",
		Complexity:    "Medium",
	})
	require.NoError(t, err)

	assert.InDelta(t, 15.0, got.BasePaybackMonths, 1e-12)
	assert.InDelta(t, 7.5, got.RampUpMonths, 1e-12)
	assert.InDelta(t, 1_800_000.0/12.0, got.MonthlyBenefitAtFullProductivity, 1e-9)
	assert.Equal(t, 1.0, got.ComplexityAdjustment)

	// The ramp means payback takes longer than investment/monthly benefit.
	naive := 1_200_000 / (1_800_000.0 / 12.0)
	assert.Greater(t, got.PaybackMonths, naive)
	assert.Less(t, got.PaybackMonths, float64(paybackSimulationCapMonths))
	assert.InDelta(t, got.PaybackMonths/12.0, got.PaybackYears, 1e-12)
	assert.Empty(t, got.Anomalies)
}

func TestPaybackPeriod_ComplexityStretchesTimeline(t *testing.T) {
	e := newTestEngine()

	run := func(complexity string) model.PaybackResult {
		got, err := e.PaybackPeriod(PaybackInput{
			Investment:    2_000_000,
			AnnualBenefit: 1_500_000,
			Industry:      "Manufacturing",
			Complexity:    complexity,
		})
		require.NoError(t, err)
		return got
	}

	low := run("Low")
	medium := run("Medium")
	high := run("High")

	assert.Less(t, low.TotalImplementationMonths, medium.TotalImplementationMonths)
	assert.Less(t, medium.TotalImplementationMonths, high.TotalImplementationMonths)
	assert.LessOrEqual(t, low.PaybackMonths, medium.PaybackMonths)
	assert.LessOrEqual(t, medium.PaybackMonths, high.PaybackMonths)
}

func TestPaybackPeriod_NeverRecovers(t *testing.T) {
	e := newTestEngine()

	got, err := e.PaybackPeriod(PaybackInput{
		Investment:    100_000_000,
		AnnualBenefit: 1_000,
		Industry:      "Other",
		Complexity:    "High",
	})
	require.NoError(t, err)

	assert.Equal(t, float64(paybackSimulationCapMonths), got.PaybackMonths)
	require.NotEmpty(t, got.Anomalies)
	assert.Contains(t, got.Anomalies[0], "not recovered")
}

func TestPaybackPeriod_RejectsBadArguments(t *testing.T) {
	e := newTestEngine()

	_, err := e.PaybackPeriod(PaybackInput{Investment: 0, AnnualBenefit: 100})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = e.PaybackPeriod(PaybackInput{Investment: 100, AnnualBenefit: 0})
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestGuardNonFinite(t *testing.T) {
	assert.Equal(t, 0.0, guardNonFinite(math.NaN()))
	assert.Equal(t, 0.0, guardNonFinite(math.Inf(1)))
	assert.Equal(t, 0.0, guardNonFinite(math.Inf(-1)))
	assert.Equal(t, 42.5, guardNonFinite(42.5))
}
