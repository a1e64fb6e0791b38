// Package params holds the per-industry economic constants that drive every
// calculation in the engine. Parameters are built once at startup and treated
// as read-only afterwards, so a single instance is safe to share across
// concurrent calculations.
package params

// Fallback keys for the per-sector and per-use-case tables. Every table is
// guaranteed to contain its fallback key, which makes all lookups total:
// an unknown sector or use case resolves to the fallback instead of failing.
const (
	SectorFallback  = "Other"
	UseCaseFallback = "Default"
)

// EconomicParameters is the immutable configuration for the economic models.
// All fields are populated by Defaults (optionally merged with a preset file)
// and must not be mutated after construction.
type EconomicParameters struct {
	// GDPGrowthImpact is the macro GDP-growth assumption attributed to AI
	// adoption, as a fraction (0.07 = 7%).
	GDPGrowthImpact float64 `yaml:"gdp_growth_impact"`

	// DiscountRate is the rate used for NPV discounting.
	DiscountRate float64 `yaml:"discount_rate"`

	// SectorProductivityGains maps an industry to its asymptotic fractional
	// productivity uplift from AI adoption (0.25-0.40).
	SectorProductivityGains map[string]float64 `yaml:"sector_productivity_gains"`

	// IndustryPaybackMonths maps an industry to its typical months-to-payback.
	IndustryPaybackMonths map[string]float64 `yaml:"industry_payback_months"`

	// IndustryPERatios and IndustryGrowthMultiples are the market-valuation
	// multipliers used by the market-value-impact model.
	IndustryPERatios        map[string]float64 `yaml:"industry_pe_ratios"`
	IndustryGrowthMultiples map[string]float64 `yaml:"industry_growth_multiples"`

	// UseCaseROI maps an AI use-case category to its base ROI multiplier
	// (1.0 = 100%). The "Default" entry is the fallback for unknown use cases.
	UseCaseROI map[string]float64 `yaml:"use_case_roi"`

	// AdoptionK and AdoptionT0 shape the logistic S-curve of adoption:
	// steepness and inflection year respectively.
	AdoptionK  float64 `yaml:"adoption_k"`
	AdoptionT0 float64 `yaml:"adoption_t0"`

	// CompetitiveLambda and MarketShareErosionRate are the decay constants of
	// the competitive-displacement model in the cost-of-inaction calculation.
	CompetitiveLambda      float64 `yaml:"competitive_lambda"`
	MarketShareErosionRate float64 `yaml:"market_share_erosion_rate"`

	// ImplementationCostCurve is the fraction of the total investment spent in
	// each year of the rollout, front-loaded. Years past the end of the curve
	// fall back to steady-state maintenance spend inside the engine.
	ImplementationCostCurve []float64 `yaml:"implementation_cost_curve"`

	// InitialEfficiency and LearningRate parameterize the learning curve:
	// efficiency approaches 1.0 as 1-(1-initial)*exp(-rate*t).
	InitialEfficiency float64 `yaml:"initial_efficiency"`
	LearningRate      float64 `yaml:"learning_rate"`

	// NetworkBaseValue and NetworkCoefficient parameterize the Metcalfe-style
	// network-effect multiplier in the market-value model.
	NetworkBaseValue   float64 `yaml:"network_base_value"`
	NetworkCoefficient float64 `yaml:"network_coefficient"`
}

// Defaults returns the baseline parameter set calibrated from the adoption
// reports the dashboard visualizes (McKinsey, OECD, Goldman Sachs, Stanford
// AI Index).
func Defaults() *EconomicParameters {
	return &EconomicParameters{
		GDPGrowthImpact: 0.07,
		DiscountRate:    0.10,

		SectorProductivityGains: map[string]float64{
			"Technology":         0.40,
			"Financial Services": 0.35,
			"Healthcare":         0.32,
			"Manufacturing":      0.33,
			"Retail":             0.28,
			"Energy":             0.30,
			"Government":         0.25,
			SectorFallback:       0.30,
		},

		IndustryPaybackMonths: map[string]float64{
			"Technology":         12,
			"Financial Services": 15,
			"Healthcare":         20,
			"Manufacturing":      18,
			"Retail":             16,
			"Energy":             21,
			"Government":         24,
			SectorFallback:       18,
		},

		IndustryPERatios: map[string]float64{
			"Technology":         28.0,
			"Financial Services": 15.0,
			"Healthcare":         22.0,
			"Manufacturing":      18.0,
			"Retail":             20.0,
			"Energy":             12.0,
			"Government":         10.0,
			SectorFallback:       18.0,
		},

		IndustryGrowthMultiples: map[string]float64{
			"Technology":         1.40,
			"Financial Services": 1.20,
			"Healthcare":         1.25,
			"Manufacturing":      1.15,
			"Retail":             1.10,
			"Energy":             1.05,
			"Government":         1.00,
			SectorFallback:       1.15,
		},

		UseCaseROI: map[string]float64{
			"Fraud Detection":           2.80,
			"Predictive Maintenance":    2.20,
			"Supply Chain Optimization": 2.00,
			"Customer Service":          1.80,
			"Marketing Personalization": 1.60,
			"Document Processing":       1.40,
			UseCaseFallback:             1.50,
		},

		AdoptionK:  0.8,
		AdoptionT0: 3.5,

		CompetitiveLambda:      2.0,
		MarketShareErosionRate: 0.05,

		ImplementationCostCurve: []float64{0.40, 0.30, 0.20, 0.10},

		InitialEfficiency: 0.30,
		LearningRate:      0.50,

		NetworkBaseValue:   1.0,
		NetworkCoefficient: 0.15,
	}
}

// Clone returns a deep copy of the parameter set. Because parameters are
// read-only once built, refreshing them means cloning, mutating the clone,
// and swapping the pointer.
func (p *EconomicParameters) Clone() *EconomicParameters {
	clone := *p

	clone.SectorProductivityGains = cloneTable(p.SectorProductivityGains)
	clone.IndustryPaybackMonths = cloneTable(p.IndustryPaybackMonths)
	clone.IndustryPERatios = cloneTable(p.IndustryPERatios)
	clone.IndustryGrowthMultiples = cloneTable(p.IndustryGrowthMultiples)
	clone.UseCaseROI = cloneTable(p.UseCaseROI)

	clone.ImplementationCostCurve = make([]float64, len(p.ImplementationCostCurve))
	copy(clone.ImplementationCostCurve, p.ImplementationCostCurve)

	return &clone
}

func cloneTable(table map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(table))
	for k, v := range table {
		out[k] = v
	}
	return out
}

// SectorProductivityGain returns the productivity gain for an industry,
// falling back to the "Other" entry for unknown industries.
func (p *EconomicParameters) SectorProductivityGain(industry string) float64 {
	return lookup(p.SectorProductivityGains, industry)
}

// PaybackMonths returns the typical payback period in months for an industry.
func (p *EconomicParameters) PaybackMonths(industry string) float64 {
	return lookup(p.IndustryPaybackMonths, industry)
}

// PERatio returns the price/earnings multiplier for an industry.
func (p *EconomicParameters) PERatio(industry string) float64 {
	return lookup(p.IndustryPERatios, industry)
}

// GrowthMultiple returns the growth-expectation multiplier for an industry.
func (p *EconomicParameters) GrowthMultiple(industry string) float64 {
	return lookup(p.IndustryGrowthMultiples, industry)
}

// BaseROI returns the base ROI multiplier for an AI use case, falling back to
// the "Default" entry for unknown use cases.
func (p *EconomicParameters) BaseROI(useCase string) float64 {
	if v, ok := p.UseCaseROI[useCase]; ok {
		return v
	}
	return p.UseCaseROI[UseCaseFallback]
}

// CostFraction returns the fraction of the investment spent in a given
// zero-based rollout year. Years beyond the configured curve cost the
// steady-state maintenance fraction.
func (p *EconomicParameters) CostFraction(year int) float64 {
	if year >= 0 && year < len(p.ImplementationCostCurve) {
		return p.ImplementationCostCurve[year]
	}
	return steadyStateCostFraction
}

// steadyStateCostFraction is the annual maintenance spend once the rollout
// curve is exhausted.
const steadyStateCostFraction = 0.05

func lookup(table map[string]float64, key string) float64 {
	if v, ok := table[key]; ok {
		return v
	}
	return table[SectorFallback]
}
