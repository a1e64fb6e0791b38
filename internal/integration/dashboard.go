// Package integration adapts raw dashboard form fields to the economic
// models: it maps UI-facing category labels to internal use-case keys, runs
// the validation gate before any calculation, and formats results for
// display. The engine itself never sees UI vocabulary.
package integration

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/yourorg/ai-econ-engine/internal/econ"
	"github.com/yourorg/ai-econ-engine/internal/model"
	"github.com/yourorg/ai-econ-engine/internal/params"
	"github.com/yourorg/ai-econ-engine/internal/validation"
)

// useCaseByCategory maps the dashboard's project-type labels to the
// engine's use-case keys. Labels with no specific model map to the default
// ROI entry.
var useCaseByCategory = map[string]string{
	"Process Automation":       params.UseCaseFallback,
	"Risk & Compliance":        "Fraud Detection",
	"Customer Experience":      "Customer Service",
	"Maintenance & Operations": "Predictive Maintenance",
	"Supply Chain":             "Supply Chain Optimization",
	"Marketing & Sales":        "Marketing Personalization",
	"Knowledge Management":     "Document Processing",
}

// ValidationError is returned when the validation gate rejects a form. The
// embedded outcome carries the per-field errors for the UI to re-prompt on.
type ValidationError struct {
	Outcome validation.Outcome
}

func (e *ValidationError) Error() string {
	return "invalid economic inputs: " + strings.Join(e.Outcome.Errors, "; ")
}

// Integration wires the validator gate in front of the engine and owns the
// display formatting conventions.
type Integration struct {
	engine    *econ.Engine
	validator *validation.Validator
}

// New creates the integration layer over an engine and its validator.
func New(engine *econ.Engine, validator *validation.Validator) *Integration {
	return &Integration{engine: engine, validator: validator}
}

// UseCaseForCategory resolves a dashboard project-type label to an engine
// use-case key. Unknown labels resolve to the default entry, mirroring the
// parameter table fallback.
func UseCaseForCategory(category string) string {
	if useCase, ok := useCaseByCategory[category]; ok {
		return useCase
	}
	return params.UseCaseFallback
}

// ROIForm carries the raw ROI form fields as the dashboard submits them.
type ROIForm struct {
	Investment        float64 `json:"investment"`
	ProjectType       string  `json:"project_type"`
	TimelineMonths    int     `json:"timeline_months"`
	CompanySize       string  `json:"company_size"`
	Industry          string  `json:"industry"`
	CurrentEfficiency float64 `json:"current_efficiency"`
	Revenue           float64 `json:"revenue"`
}

// ROIView packages an ROI result with its gate confidence and
// display-formatted fields.
type ROIView struct {
	Result     model.ROIResult   `json:"result"`
	Confidence float64           `json:"confidence"`
	Display    map[string]string `json:"display"`
}

// ROI validates an ROI form and runs the ROI model on it. A gate rejection
// comes back as *ValidationError; the calculation is never attempted.
func (i *Integration) ROI(form ROIForm) (ROIView, error) {
	in := validation.Inputs{
		AIInvestment:   &form.Investment,
		TimelineMonths: &form.TimelineMonths,
		Sector:         &form.Industry,
		CompanySize:    &form.CompanySize,
		ProjectType:    &form.ProjectType,
	}
	if form.Revenue > 0 {
		in.Revenue = &form.Revenue
	}
	outcome := i.validator.ValidateEconomicInputs(in)
	if !outcome.Valid {
		return ROIView{}, &ValidationError{Outcome: outcome}
	}

	result, err := i.engine.ROIWithRealData(econ.ROIInput{
		Investment:          form.Investment,
		UseCase:             UseCaseForCategory(form.ProjectType),
		ImplementationYears: yearsFromMonths(form.TimelineMonths),
		CompanySize:         form.CompanySize,
		CurrentEfficiency:   form.CurrentEfficiency,
		Industry:            form.Industry,
	})
	if err != nil {
		return ROIView{}, fmt.Errorf("roi calculation: %w", err)
	}

	return ROIView{
		Result:     result,
		Confidence: outcome.OverallConfidence,
		Display: map[string]string{
			"investment":    Currency(form.Investment),
			"total_roi":     Percent(result.TotalROIPercentage),
			"npv":           Currency(result.NPV),
			"irr":           Percent(result.IRR * 100.0),
			"payback":       fmt.Sprintf("%.1f years", result.PaybackPeriodYears),
			"value_created": Currency(result.TotalValueCreated),
		},
	}, nil
}

// InactionForm carries the raw cost-of-inaction form fields.
type InactionForm struct {
	Revenue                float64 `json:"revenue"`
	DelayYears             int     `json:"delay_years"`
	Industry               string  `json:"industry"`
	CompetitorsAdoptingPct float64 `json:"competitors_adopting_pct"`
	CurrentAdoptionLevel   float64 `json:"current_adoption_level"`
}

// InactionView packages a cost-of-inaction result for display.
type InactionView struct {
	Result     model.InactionResult `json:"result"`
	Confidence float64              `json:"confidence"`
	Display    map[string]string    `json:"display"`
}

// CostOfInaction validates an inaction form and prices the adoption delay.
func (i *Integration) CostOfInaction(form InactionForm) (InactionView, error) {
	outcome := i.validator.ValidateEconomicInputs(validation.Inputs{
		Revenue:                &form.Revenue,
		Sector:                 &form.Industry,
		CompetitorsAdoptingPct: &form.CompetitorsAdoptingPct,
		AdoptionLevel:          &form.CurrentAdoptionLevel,
	})
	if !outcome.Valid {
		return InactionView{}, &ValidationError{Outcome: outcome}
	}

	result, err := i.engine.CostOfInaction(econ.InactionInput{
		CurrentRevenue:         form.Revenue,
		Years:                  form.DelayYears,
		Industry:               form.Industry,
		CompetitorsAdoptingPct: form.CompetitorsAdoptingPct,
		CurrentAdoptionLevel:   form.CurrentAdoptionLevel,
	})
	if err != nil {
		return InactionView{}, fmt.Errorf("cost of inaction calculation: %w", err)
	}

	return InactionView{
		Result:     result,
		Confidence: outcome.OverallConfidence,
		Display: map[string]string{
			"total_cost":      Currency(result.TotalCost),
			"annualized_cost": Currency(result.AnnualizedCost),
			"revenue_impact":  Percent(result.TotalRevenueImpactPct),
			"position_risk":   string(result.MarketPositionRisk),
		},
	}, nil
}

// ProductivityForm carries the raw productivity form fields.
type ProductivityForm struct {
	Revenue          float64 `json:"revenue"`
	Years            int     `json:"years"`
	Industry         string  `json:"industry"`
	SkillLevel       string  `json:"skill_level"`
	AdoptionMaturity float64 `json:"adoption_maturity"`
}

// ProductivityView packages a productivity-gain result for display.
type ProductivityView struct {
	Result     model.ProductivityResult `json:"result"`
	Confidence float64                  `json:"confidence"`
	Display    map[string]string        `json:"display"`
}

// ProductivityGain validates a productivity form and runs the model.
func (i *Integration) ProductivityGain(form ProductivityForm) (ProductivityView, error) {
	outcome := i.validator.ValidateEconomicInputs(validation.Inputs{
		Revenue: &form.Revenue,
		Sector:  &form.Industry,
	})
	if !outcome.Valid {
		return ProductivityView{}, &ValidationError{Outcome: outcome}
	}

	result, err := i.engine.ProductivityGain(econ.ProductivityInput{
		Revenue:          form.Revenue,
		Years:            form.Years,
		Industry:         form.Industry,
		SkillLevel:       form.SkillLevel,
		AdoptionMaturity: form.AdoptionMaturity,
	})
	if err != nil {
		return ProductivityView{}, fmt.Errorf("productivity calculation: %w", err)
	}

	return ProductivityView{
		Result:     result,
		Confidence: outcome.OverallConfidence,
		Display: map[string]string{
			"gain":            Percent(result.ProductivityGainPercentage),
			"baseline":        Percent(result.IndustryBaseline),
			"cumulative_gain": Currency(result.CumulativeProductivityGain),
		},
	}, nil
}

// MarketValueForm carries the raw market-value form fields.
type MarketValueForm struct {
	Revenue        float64 `json:"revenue"`
	Industry       string  `json:"industry"`
	Years          int     `json:"years"`
	MarketPosition string  `json:"market_position"`
	Users          int     `json:"users"`
}

// MarketValueView packages a market-value result for display.
type MarketValueView struct {
	Result     model.MarketValueResult `json:"result"`
	Confidence float64                 `json:"confidence"`
	Display    map[string]string       `json:"display"`
}

// MarketValue validates a market-value form and runs the model.
func (i *Integration) MarketValue(form MarketValueForm) (MarketValueView, error) {
	outcome := i.validator.ValidateEconomicInputs(validation.Inputs{
		Revenue: &form.Revenue,
		Sector:  &form.Industry,
	})
	if !outcome.Valid {
		return MarketValueView{}, &ValidationError{Outcome: outcome}
	}

	result, err := i.engine.MarketValueImpact(econ.MarketValueInput{
		Revenue:        form.Revenue,
		Industry:       form.Industry,
		Years:          form.Years,
		MarketPosition: form.MarketPosition,
		Users:          form.Users,
	})
	if err != nil {
		return MarketValueView{}, fmt.Errorf("market value calculation: %w", err)
	}

	return MarketValueView{
		Result:     result,
		Confidence: outcome.OverallConfidence,
		Display: map[string]string{
			"increase":     Currency(result.MarketValueIncrease),
			"increase_pct": Percent(result.MarketValueIncreasePercentage),
			"enhanced_cap": Currency(result.AIEnhancedMarketCap),
		},
	}, nil
}

// PaybackForm carries the raw payback form fields.
type PaybackForm struct {
	Investment    float64 `json:"investment"`
	AnnualBenefit float64 `json:"annual_benefit"`
	Industry      string  `json:"industry"`
	Complexity    string  `json:"complexity"`
}

// PaybackView packages a payback result for display.
type PaybackView struct {
	Result     model.PaybackResult `json:"result"`
	Confidence float64             `json:"confidence"`
	Display    map[string]string   `json:"display"`
}

// Payback validates a payback form and runs the simulation.
func (i *Integration) Payback(form PaybackForm) (PaybackView, error) {
	outcome := i.validator.ValidateEconomicInputs(validation.Inputs{
		AIInvestment: &form.Investment,
		Sector:       &form.Industry,
	})
	if !outcome.Valid {
		return PaybackView{}, &ValidationError{Outcome: outcome}
	}

	result, err := i.engine.PaybackPeriod(econ.PaybackInput{
		Investment:    form.Investment,
		AnnualBenefit: form.AnnualBenefit,
		Industry:      form.Industry,
		Complexity:    form.Complexity,
	})
	if err != nil {
		return PaybackView{}, fmt.Errorf("payback calculation: %w", err)
	}

	return PaybackView{
		Result:     result,
		Confidence: outcome.OverallConfidence,
		Display: map[string]string{
			"payback":         fmt.Sprintf("%.0f months", result.PaybackMonths),
			"monthly_benefit": Currency(result.MonthlyBenefitAtFullProductivity),
		},
	}, nil
}

// Validate exposes the gate directly, for the dashboard's live form checks.
func (i *Integration) Validate(in validation.Inputs) validation.Outcome {
	return i.validator.ValidateEconomicInputs(in)
}

// Currency formats a dollar amount for display, e.g. "$1,250,000" or
// "-$614,203".
func Currency(v float64) string {
	if v < 0 {
		return "-$" + humanize.CommafWithDigits(-v, 0)
	}
	return "$" + humanize.CommafWithDigits(v, 0)
}

// Percent formats a percentage value for display, e.g. "294.0%".
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// yearsFromMonths converts a UI timeline in months to whole implementation
// years, rounding up and never below one.
func yearsFromMonths(months int) int {
	if months <= 12 {
		return 1
	}
	return (months + 11) / 12
}
