// Package validation gates calculation requests before they reach the
// economic models. It applies hard range checks that produce human-readable
// errors, soft confidence scores for values that are legal but atypical, and
// cross-field consistency checks. The validator never mutates or clamps
// inputs; callers are expected to re-prompt on failure.
package validation

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/yourorg/ai-econ-engine/internal/params"
)

// Hard bounds for the supported input fields.
const (
	MinRevenue = 1_000_000
	MaxRevenue = 1_000_000_000_000

	MinEmployees = 1
	MaxEmployees = 5_000_000

	MinInvestment = 1
	MaxInvestment = 10_000_000_000

	MinTimelineMonths = 1
	MaxTimelineMonths = 120

	MinRevenuePerEmployee = 50_000
	MaxRevenuePerEmployee = 5_000_000
)

// knownCompanySizes and knownRiskTolerances are the closed vocabularies the
// validator enforces. Sectors and project types are open: the parameter
// tables carry fallbacks for them, so an unknown value only lowers confidence.
var (
	knownCompanySizes   = []string{"Small", "Medium", "Large", "Enterprise"}
	knownRiskTolerances = []string{"Low", "Medium", "High"}
)

// Inputs is the set of fields a caller may supply for validation. Every
// field is optional; only supplied fields are checked. Nil means "not
// provided", which is different from a zero value.
type Inputs struct {
	Revenue                *float64 `json:"revenue,omitempty"`
	Employees              *int     `json:"employees,omitempty"`
	AIInvestment           *float64 `json:"ai_investment,omitempty"`
	TimelineMonths         *int     `json:"timeline_months,omitempty"`
	Sector                 *string  `json:"sector,omitempty"`
	AdoptionLevel          *float64 `json:"adoption_level,omitempty"`
	CompanySize            *string  `json:"company_size,omitempty"`
	ProjectType            *string  `json:"project_type,omitempty"`
	RiskTolerance          *string  `json:"risk_tolerance,omitempty"`
	CompetitorsAdoptingPct *float64 `json:"competitors_adopting_pct,omitempty"`
}

// Outcome is the validator's verdict: overall pass/fail, the list of
// violations, and a per-field confidence score reflecting how typical each
// supplied value is.
type Outcome struct {
	Valid             bool               `json:"valid"`
	Errors            []string           `json:"errors"`
	Confidence        map[string]float64 `json:"confidence"`
	OverallConfidence float64            `json:"overall_confidence"`
}

// Validator checks economic inputs against hard ranges and the configured
// parameter tables.
type Validator struct {
	params *params.EconomicParameters
}

// New creates a validator bound to a parameter set. The parameter tables
// define which sectors and project types score full confidence.
func New(p *params.EconomicParameters) *Validator {
	return &Validator{params: p}
}

// ValidateEconomicInputs checks every supplied field. The outcome is valid
// only if no field produced an error; confidence scores are advisory and do
// not affect validity.
func (v *Validator) ValidateEconomicInputs(in Inputs) Outcome {
	out := Outcome{
		Valid:      true,
		Errors:     []string{},
		Confidence: map[string]float64{},
	}

	if in.Revenue != nil {
		v.checkRevenue(*in.Revenue, &out)
	}
	if in.Employees != nil {
		v.checkEmployees(*in.Employees, &out)
	}
	if in.AIInvestment != nil {
		v.checkInvestment(*in.AIInvestment, &out)
	}
	if in.TimelineMonths != nil {
		v.checkTimeline(*in.TimelineMonths, &out)
	}
	if in.Sector != nil {
		v.checkSector(*in.Sector, &out)
	}
	if in.AdoptionLevel != nil {
		v.checkPercentage("adoption_level", "Adoption level", *in.AdoptionLevel, &out)
	}
	if in.CompanySize != nil {
		v.checkMembership("company_size", "Company size", *in.CompanySize, knownCompanySizes, &out)
	}
	if in.ProjectType != nil {
		v.checkProjectType(*in.ProjectType, &out)
	}
	if in.RiskTolerance != nil {
		v.checkMembership("risk_tolerance", "Risk tolerance", *in.RiskTolerance, knownRiskTolerances, &out)
	}
	if in.CompetitorsAdoptingPct != nil {
		v.checkPercentage("competitors_adopting_pct", "Competitors adopting percentage",
			*in.CompetitorsAdoptingPct, &out)
	}

	// Cross-field consistency: revenue per employee must be plausible. A
	// violation is appended without touching the per-field confidences.
	if in.Revenue != nil && in.Employees != nil && *in.Employees > 0 {
		perEmployee := *in.Revenue / float64(*in.Employees)
		if perEmployee < MinRevenuePerEmployee || perEmployee > MaxRevenuePerEmployee {
			out.addError(fmt.Sprintf(
				"Revenue per employee ($%.0f) is outside the plausible range ($%d-$%d)",
				perEmployee, MinRevenuePerEmployee, MaxRevenuePerEmployee))
		}
	}

	out.OverallConfidence = meanConfidence(out.Confidence)

	if !out.Valid {
		logrus.WithFields(logrus.Fields{
			"errors":     len(out.Errors),
			"confidence": out.OverallConfidence,
		}).Debug("Economic inputs rejected")
	} else if out.OverallConfidence < 0.5 && len(out.Confidence) > 0 {
		logrus.WithField("confidence", out.OverallConfidence).
			Info("Economic inputs accepted with low confidence")
	}

	return out
}

func (v *Validator) checkRevenue(revenue float64, out *Outcome) {
	switch {
	case revenue <= 0:
		out.addError("Revenue must be positive")
		out.Confidence["revenue"] = 0.0
	case revenue < MinRevenue:
		out.addError(fmt.Sprintf("Revenue below minimum threshold ($%s)", humanize.Comma(MinRevenue)))
		out.Confidence["revenue"] = 0.2
	case revenue > MaxRevenue:
		out.addError(fmt.Sprintf("Revenue exceeds maximum threshold ($%s)", humanize.Comma(MaxRevenue)))
		out.Confidence["revenue"] = 0.2
	case revenue >= 10_000_000 && revenue <= 1_000_000_000:
		// The models are calibrated on mid-market and enterprise reports.
		out.Confidence["revenue"] = 0.95
	case revenue > 1_000_000_000:
		out.Confidence["revenue"] = 0.6
	default:
		out.Confidence["revenue"] = 0.7
	}
}

func (v *Validator) checkEmployees(employees int, out *Outcome) {
	switch {
	case employees < MinEmployees:
		out.addError("Employee count must be at least 1")
		out.Confidence["employees"] = 0.0
	case employees > MaxEmployees:
		out.addError(fmt.Sprintf("Employee count exceeds maximum threshold (%s)", humanize.Comma(MaxEmployees)))
		out.Confidence["employees"] = 0.2
	case employees >= 50 && employees <= 100_000:
		out.Confidence["employees"] = 0.9
	default:
		out.Confidence["employees"] = 0.5
	}
}

func (v *Validator) checkInvestment(investment float64, out *Outcome) {
	switch {
	case investment <= 0:
		out.addError("AI investment must be positive")
		out.Confidence["ai_investment"] = 0.0
	case investment > MaxInvestment:
		out.addError(fmt.Sprintf("AI investment exceeds maximum threshold ($%s)", humanize.Comma(MaxInvestment)))
		out.Confidence["ai_investment"] = 0.2
	case investment >= 100_000 && investment <= 50_000_000:
		out.Confidence["ai_investment"] = 0.9
	default:
		out.Confidence["ai_investment"] = 0.5
	}
}

func (v *Validator) checkTimeline(months int, out *Outcome) {
	switch {
	case months < MinTimelineMonths:
		out.addError("Timeline must be at least 1 month")
		out.Confidence["timeline_months"] = 0.0
	case months > MaxTimelineMonths:
		out.addError(fmt.Sprintf("Timeline exceeds maximum of %d months", MaxTimelineMonths))
		out.Confidence["timeline_months"] = 0.2
	case months >= 6 && months <= 36:
		out.Confidence["timeline_months"] = 0.9
	default:
		out.Confidence["timeline_months"] = 0.5
	}
}

// checkSector scores sector membership. Unknown sectors are not errors: the
// parameter tables price them through the fallback entry, so the validator
// only lowers confidence to signal the weaker calibration.
func (v *Validator) checkSector(sector string, out *Outcome) {
	if sector == "" {
		out.addError("Sector must not be empty")
		out.Confidence["sector"] = 0.0
		return
	}
	if _, ok := v.params.SectorProductivityGains[sector]; ok {
		out.Confidence["sector"] = 1.0
		return
	}
	out.Confidence["sector"] = 0.5
}

func (v *Validator) checkProjectType(projectType string, out *Outcome) {
	if projectType == "" {
		out.addError("Project type must not be empty")
		out.Confidence["project_type"] = 0.0
		return
	}
	if _, ok := v.params.UseCaseROI[projectType]; ok {
		out.Confidence["project_type"] = 0.95
		return
	}
	// Priced through the default ROI entry.
	out.Confidence["project_type"] = 0.7
}

func (v *Validator) checkPercentage(field, label string, value float64, out *Outcome) {
	switch {
	case value < 0 || value > 100:
		out.addError(fmt.Sprintf("%s must be between 0 and 100", label))
		out.Confidence[field] = 0.0
	case value >= 20 && value <= 80:
		out.Confidence[field] = 0.9
	default:
		out.Confidence[field] = 0.7
	}
}

func (v *Validator) checkMembership(field, label, value string, allowed []string, out *Outcome) {
	for _, candidate := range allowed {
		if value == candidate {
			out.Confidence[field] = 1.0
			return
		}
	}
	out.addError(fmt.Sprintf("%s must be one of %v, got %q", label, allowed, value))
	out.Confidence[field] = 0.0
}

func (o *Outcome) addError(msg string) {
	o.Valid = false
	o.Errors = append(o.Errors, msg)
}

func meanConfidence(scores map[string]float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}
