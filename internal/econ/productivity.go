package econ

import (
	"fmt"
	"math"

	"github.com/yourorg/ai-econ-engine/internal/model"
)

// skillMultipliers scale the sector baseline by workforce AI proficiency.
// Unknown skill levels are treated as neutral (1.0, same as "Mixed").
var skillMultipliers = map[string]float64{
	"Beginner": 0.80,
	"Mixed":    1.00,
	"Advanced": 1.10,
	"Expert":   1.20,
}

// productivityTimeRate shapes the diminishing-returns curve of productivity
// gains over time (1-exp(-rate*t)).
const productivityTimeRate = 0.4

// maturityBonusCeiling caps the uplift a fully mature adopter earns on top
// of the skill-adjusted gain (0.2 = up to +20%).
const maturityBonusCeiling = 0.2

// ProductivityInput holds the parameters of a productivity-gain calculation.
type ProductivityInput struct {
	// Revenue is annual revenue in dollars, used for the cumulative dollar
	// figure. Must be positive.
	Revenue float64 `json:"revenue"`

	// Years is the measurement horizon. Must be >= 0.
	Years int `json:"years"`

	// Industry selects the sector baseline.
	Industry string `json:"industry"`

	// SkillLevel is one of Beginner, Mixed, Advanced, Expert.
	SkillLevel string `json:"skill_level"`

	// AdoptionMaturity is how established the AI program already is, 0-1.
	AdoptionMaturity float64 `json:"adoption_maturity"`
}

// ProductivityGain combines the sector's asymptotic gain with a workforce
// skill multiplier, a diminishing-returns time factor and a maturity bonus.
func (e *Engine) ProductivityGain(in ProductivityInput) (model.ProductivityResult, error) {
	if in.Revenue <= 0 {
		return model.ProductivityResult{}, fmt.Errorf("%w: revenue must be positive, got %f",
			ErrInvalidArgument, in.Revenue)
	}
	if in.Years < 0 {
		return model.ProductivityResult{}, fmt.Errorf("%w: years must be non-negative, got %d",
			ErrInvalidArgument, in.Years)
	}

	years := float64(in.Years)

	industryBaseline := e.params.SectorProductivityGain(in.Industry) * 100.0

	skillMultiplier := 1.0
	if m, ok := skillMultipliers[in.SkillLevel]; ok {
		skillMultiplier = m
	}
	skillAdjusted := industryBaseline * skillMultiplier

	timeFactor := 1.0 - math.Exp(-productivityTimeRate*years)
	maturityBonus := maturityBonusCeiling * clamp01(in.AdoptionMaturity)

	gainPct := skillAdjusted * timeFactor * (1.0 + maturityBonus)

	var annualImprovement float64
	if in.Years > 0 {
		annualImprovement = gainPct / years
	}

	result := model.ProductivityResult{
		ProductivityGainPercentage:    gainPct,
		AnnualProductivityImprovement: annualImprovement,
		CumulativeProductivityGain:    in.Revenue * gainPct / 100.0 * years,
		IndustryBaseline:              industryBaseline,
		SkillAdjustedGain:             skillAdjusted,
		TimeAdjustedFactor:            timeFactor,
		MaturityBonus:                 maturityBonus,
	}

	if gainPct > industryBaseline*1.5 {
		result.Anomalies = append(result.Anomalies,
			fmt.Sprintf("productivity gain %.1f%% is well above the %s baseline", gainPct, in.Industry))
	}

	return result, nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
