// Package model defines the result records produced by the economic models.
// Every result is a plain value struct computed fresh per call; nothing in
// this package carries identity or is cached between calls.
package model

// RiskLevel buckets the competitive exposure of a company that delays
// AI adoption.
type RiskLevel string

// Market position risk buckets.
const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// ROIResult is the output of the ROI calculation.
type ROIResult struct {
	// TotalROIPercentage is the adjusted ROI expressed as a percentage
	// (294 = 294%).
	TotalROIPercentage float64 `json:"total_roi_percentage"`

	// NPV is the net present value of the investment's cash-flow schedule at
	// the configured discount rate.
	NPV float64 `json:"npv"`

	// PaybackPeriodYears blends the simulated break-even point with the
	// industry's typical payback norm.
	PaybackPeriodYears float64 `json:"payback_period_years"`

	// AnnualizedReturn is the total ROI spread over the implementation horizon.
	AnnualizedReturn float64 `json:"annualized_return"`

	// EfficiencyGainPercentage averages the ROI-implied gain with the
	// industry productivity baseline.
	EfficiencyGainPercentage float64 `json:"efficiency_gain_percentage"`

	// BreakEvenYear is the first year (1-based) in which cumulative net cash
	// flow turns positive. Never exceeds the implementation horizon.
	BreakEvenYear int `json:"break_even_year"`

	// TotalValueCreated is the sum of the yearly returns over the horizon.
	TotalValueCreated float64 `json:"total_value_created"`

	// IRR is the internal rate of return found by Newton's method on the
	// cash-flow schedule.
	IRR float64 `json:"irr"`

	// RiskAdjustedROI applies the flat risk discount to the adjusted ROI.
	RiskAdjustedROI float64 `json:"risk_adjusted_roi"`

	// IndustryProductivityGain echoes the sector baseline used, as a fraction.
	IndustryProductivityGain float64 `json:"industry_productivity_gain"`

	// LearningCurveImpact is the learning efficiency reached in the final
	// year of the horizon.
	LearningCurveImpact float64 `json:"learning_curve_impact"`

	// Anomalies carries advisory flags for unusual-but-valid results, e.g. an
	// ROI several times above the use-case norm. The engine never logs;
	// callers decide what to do with these.
	Anomalies []string `json:"anomalies,omitempty"`
}

// InactionResult is the output of the cost-of-inaction calculation: five
// additive components plus derived aggregates.
type InactionResult struct {
	ProductivityLoss   float64 `json:"productivity_loss"`
	MarketShareLoss    float64 `json:"market_share_loss"`
	InnovationImpact   float64 `json:"innovation_impact"`
	GDPOpportunityCost float64 `json:"gdp_opportunity_cost"`
	CapabilityGapCost  float64 `json:"capability_gap_cost"`

	// TotalCost is the sum of the five component costs.
	TotalCost float64 `json:"total_cost"`

	// TotalRevenueImpactPct expresses the total cost against cumulative
	// revenue over the delay period.
	TotalRevenueImpactPct float64 `json:"total_revenue_impact_pct"`

	AnnualizedCost float64 `json:"annualized_cost"`

	// CompetitiveCyclesBehind estimates how many AI capability generations
	// the company falls behind during the delay.
	CompetitiveCyclesBehind float64 `json:"competitive_cycles_behind"`

	MarketPositionRisk RiskLevel `json:"market_position_risk"`

	Anomalies []string `json:"anomalies,omitempty"`
}

// ProductivityResult is the output of the productivity-gain calculation.
type ProductivityResult struct {
	ProductivityGainPercentage    float64 `json:"productivity_gain_percentage"`
	AnnualProductivityImprovement float64 `json:"annual_productivity_improvement"`
	CumulativeProductivityGain    float64 `json:"cumulative_productivity_gain"`

	// IndustryBaseline is the sector's asymptotic gain as a percentage.
	IndustryBaseline float64 `json:"industry_baseline"`

	SkillAdjustedGain  float64 `json:"skill_adjusted_gain"`
	TimeAdjustedFactor float64 `json:"time_adjusted_factor"`
	MaturityBonus      float64 `json:"maturity_bonus"`

	Anomalies []string `json:"anomalies,omitempty"`
}

// MarketValueResult is the output of the market-value-impact calculation.
type MarketValueResult struct {
	MarketValueIncrease           float64 `json:"market_value_increase"`
	MarketValueIncreasePercentage float64 `json:"market_value_increase_percentage"`

	BaseMarketCap       float64 `json:"base_market_cap"`
	AIEnhancedMarketCap float64 `json:"ai_enhanced_market_cap"`

	PERatio        float64 `json:"pe_ratio"`
	GrowthMultiple float64 `json:"growth_multiple"`

	// AdoptionPremium reflects how far along the industry adoption S-curve
	// the valuation uplift has materialized.
	AdoptionPremium float64 `json:"adoption_premium"`

	NetworkEffectMultiplier float64 `json:"network_effect_multiplier"`
	PositionAdjustment      float64 `json:"position_adjustment"`

	Anomalies []string `json:"anomalies,omitempty"`
}

// PaybackResult is the output of the payback-period simulation.
type PaybackResult struct {
	PaybackMonths float64 `json:"payback_months"`
	PaybackYears  float64 `json:"payback_years"`

	// BasePaybackMonths is the industry norm before adjustments.
	BasePaybackMonths float64 `json:"base_payback_months"`

	// RampUpMonths is the duration of the linear ramp to full productivity.
	RampUpMonths float64 `json:"ramp_up_months"`

	LearningCurveMonths       float64 `json:"learning_curve_months"`
	TotalImplementationMonths float64 `json:"total_implementation_months"`
	ComplexityAdjustment      float64 `json:"complexity_adjustment"`

	MonthlyBenefitAtFullProductivity float64 `json:"monthly_benefit_at_full_productivity"`

	Anomalies []string `json:"anomalies,omitempty"`
}
