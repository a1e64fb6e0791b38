package integration

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/ai-econ-engine/internal/econ"
	"github.com/yourorg/ai-econ-engine/internal/params"
	"github.com/yourorg/ai-econ-engine/internal/validation"
)

func newTestIntegration() *Integration {
	p := params.Defaults()
	return New(econ.New(p), validation.New(p))
}

func TestUseCaseForCategory(t *testing.T) {
	tests := []struct {
		category string
		want     string
	}{
		{"Risk & Compliance", "Fraud Detection"},
		{"Customer Experience", "Customer Service"},
		{"Process Automation", "Default"},
		{"Something Nobody Heard Of", "Default"},
		{"", "Default"},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			assert.Equal(t, tt.want, UseCaseForCategory(tt.category))
		})
	}
}

func TestIntegration_ROI(t *testing.T) {
	i := newTestIntegration()

	view, err := i.ROI(ROIForm{
		Investment:     1_000_000,
		ProjectType:    "Risk & Compliance",
		TimelineMonths: 36,
		CompanySize:    "Large",
		Industry:       "Financial Services",
	})
	require.NoError(t, err)

	assert.InDelta(t, 294.0, view.Result.TotalROIPercentage, 1e-9)
	assert.Equal(t, "$1,000,000", view.Display["investment"])
	assert.Equal(t, "294.0%", view.Display["total_roi"])
	assert.Greater(t, view.Confidence, 0.0)
}

func TestIntegration_ROIGateRejection(t *testing.T) {
	i := newTestIntegration()

	_, err := i.ROI(ROIForm{
		Investment:     -500,
		ProjectType:    "Process Automation",
		TimelineMonths: 12,
		CompanySize:    "Medium",
		Industry:       "Retail",
	})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.False(t, verr.Outcome.Valid)
	assert.NotEmpty(t, verr.Outcome.Errors)
	assert.Contains(t, verr.Error(), "AI investment must be positive")
}

func TestIntegration_ROIRejectsUnknownCompanySize(t *testing.T) {
	i := newTestIntegration()

	_, err := i.ROI(ROIForm{
		Investment:     250_000,
		ProjectType:    "Process Automation",
		TimelineMonths: 12,
		CompanySize:    "Gigantic",
		Industry:       "Technology",
	})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
}

func TestIntegration_CostOfInaction(t *testing.T) {
	i := newTestIntegration()

	view, err := i.CostOfInaction(InactionForm{
		Revenue:                10_000_000,
		DelayYears:             2,
		Industry:               "Technology",
		CompetitorsAdoptingPct: 45,
		CurrentAdoptionLevel:   10,
	})
	require.NoError(t, err)

	assert.Greater(t, view.Result.TotalCost, 0.0)
	assert.NotEmpty(t, view.Display["total_cost"])
	assert.NotEmpty(t, view.Display["position_risk"])
}

func TestIntegration_Payback(t *testing.T) {
	i := newTestIntegration()

	view, err := i.Payback(PaybackForm{
		Investment:    500_000,
		AnnualBenefit: 400_000,
		Industry:      "Financial Services",
		Complexity:    "Medium",
	})
	require.NoError(t, err)

	assert.Greater(t, view.Result.PaybackMonths, 0.0)
	assert.NotEmpty(t, view.Display["payback"])
}

func TestCurrency(t *testing.T) {
	assert.Equal(t, "$1,250,000", Currency(1_250_000))
	assert.Equal(t, "-$614,203", Currency(-614_203))
	assert.Equal(t, "$0", Currency(0))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "294.0%", Percent(294.0))
	assert.Equal(t, "-3.5%", Percent(-3.5))
}

func TestYearsFromMonths(t *testing.T) {
	tests := []struct {
		months int
		want   int
	}{
		{1, 1},
		{12, 1},
		{13, 2},
		{24, 2},
		{36, 3},
		{37, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, yearsFromMonths(tt.months), "months %d", tt.months)
	}
}
