package econ

import (
	"fmt"
	"math"

	"github.com/yourorg/ai-econ-engine/internal/model"
)

// aiCapabilityCycleYears is the assumed length of one AI capability
// generation, used to express delay as "cycles behind". Calibration constant.
const aiCapabilityCycleYears = 1.5

// Risk-score bucket boundaries for market position risk. These are
// calibration constants carried over from the dashboard, not derived values.
const (
	riskScoreLow    = 1.0
	riskScoreMedium = 3.0
	riskScoreHigh   = 5.0
)

// InactionInput holds the parameters of a cost-of-inaction calculation.
type InactionInput struct {
	// CurrentRevenue is the company's annual revenue in dollars. Must be
	// positive.
	CurrentRevenue float64 `json:"current_revenue"`

	// Years is the length of the adoption delay being priced. Must be >= 0.
	Years int `json:"years"`

	// Industry selects the sector baseline.
	Industry string `json:"industry"`

	// CompetitorsAdoptingPct is the share of competitors already adopting AI,
	// 0-100.
	CompetitorsAdoptingPct float64 `json:"competitors_adopting_pct"`

	// CurrentAdoptionLevel is the company's own adoption level, 0-100. It is
	// treated as a fixed starting point, not an evolving trajectory.
	CurrentAdoptionLevel float64 `json:"current_adoption_level"`
}

// CostOfInaction prices an adoption delay as the sum of five closed-form
// components: forgone compounding productivity, competitive market-share
// erosion, the innovation gap against the industry adoption curve, a scaled
// GDP opportunity cost, and an exponential capability-gap penalty.
func (e *Engine) CostOfInaction(in InactionInput) (model.InactionResult, error) {
	if in.CurrentRevenue <= 0 {
		return model.InactionResult{}, fmt.Errorf("%w: current revenue must be positive, got %f",
			ErrInvalidArgument, in.CurrentRevenue)
	}
	if in.Years < 0 {
		return model.InactionResult{}, fmt.Errorf("%w: years must be non-negative, got %d",
			ErrInvalidArgument, in.Years)
	}

	p := e.params
	revenue := in.CurrentRevenue
	years := float64(in.Years)
	competitorShare := in.CompetitorsAdoptingPct / 100.0

	sectorGain := p.SectorProductivityGain(in.Industry)

	// Forgone compounding: the compound uplift minus the linear uplift a
	// non-adopter still captures through ordinary improvement.
	productivityLoss := revenue*(math.Pow(1.0+sectorGain, years)-1.0) - revenue*sectorGain*years
	productivityLoss = guardNonFinite(math.Max(0, productivityLoss))

	// Competitive displacement: erosion risk saturates as more competitors
	// adopt, then compounds over the delay.
	competitiveRisk := 1.0 - math.Exp(-p.CompetitiveLambda*competitorShare)
	annualErosion := p.MarketShareErosionRate * competitiveRisk
	marketShareLoss := revenue * years * (1.0 - math.Pow(1.0-annualErosion, years))
	marketShareLoss = guardNonFinite(marketShareLoss)

	// Innovation gap: distance between where the industry's adoption curve
	// will be and where the company stands today.
	industryPosition := e.sCurve(years)
	ownPosition := in.CurrentAdoptionLevel / 100.0
	gap := math.Max(0, industryPosition-ownPosition)
	innovationImpact := gap * 0.5 * revenue * years

	// Scaled proxy for the company's share of AI-driven GDP growth.
	gdpOpportunityCost := revenue * (p.GDPGrowthImpact / 10.0) * math.Pow(1.0+p.GDPGrowthImpact, years)

	// Explicit exponential penalty for falling behind on capability.
	capabilityGapCost := revenue * (math.Exp(0.2*years) - 1.0) / 10.0

	totalCost := productivityLoss + marketShareLoss + innovationImpact +
		gdpOpportunityCost + capabilityGapCost

	var impactPct, annualized float64
	if in.Years > 0 {
		impactPct = totalCost / (revenue * years) * 100.0
		annualized = totalCost / years
	}

	riskScore := years * in.CompetitorsAdoptingPct / 100.0

	result := model.InactionResult{
		ProductivityLoss:        productivityLoss,
		MarketShareLoss:         marketShareLoss,
		InnovationImpact:        innovationImpact,
		GDPOpportunityCost:      gdpOpportunityCost,
		CapabilityGapCost:       capabilityGapCost,
		TotalCost:               totalCost,
		TotalRevenueImpactPct:   impactPct,
		AnnualizedCost:          annualized,
		CompetitiveCyclesBehind: years / aiCapabilityCycleYears * competitiveRisk,
		MarketPositionRisk:      bucketRisk(riskScore),
	}

	if impactPct > 100 {
		result.Anomalies = append(result.Anomalies,
			fmt.Sprintf("cost of inaction is %.0f%% of cumulative revenue", impactPct))
	}

	return result, nil
}

// bucketRisk maps a delay risk score to a market position risk level.
func bucketRisk(score float64) model.RiskLevel {
	switch {
	case score < riskScoreLow:
		return model.RiskLow
	case score < riskScoreMedium:
		return model.RiskMedium
	case score < riskScoreHigh:
		return model.RiskHigh
	default:
		return model.RiskCritical
	}
}
