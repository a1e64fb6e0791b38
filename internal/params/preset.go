package params

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// preset mirrors EconomicParameters with optional fields so that a preset
// file only needs to name the values it overrides.
type preset struct {
	GDPGrowthImpact *float64 `yaml:"gdp_growth_impact"`
	DiscountRate    *float64 `yaml:"discount_rate"`

	SectorProductivityGains map[string]float64 `yaml:"sector_productivity_gains"`
	IndustryPaybackMonths   map[string]float64 `yaml:"industry_payback_months"`
	IndustryPERatios        map[string]float64 `yaml:"industry_pe_ratios"`
	IndustryGrowthMultiples map[string]float64 `yaml:"industry_growth_multiples"`
	UseCaseROI              map[string]float64 `yaml:"use_case_roi"`

	AdoptionK  *float64 `yaml:"adoption_k"`
	AdoptionT0 *float64 `yaml:"adoption_t0"`

	CompetitiveLambda      *float64 `yaml:"competitive_lambda"`
	MarketShareErosionRate *float64 `yaml:"market_share_erosion_rate"`

	ImplementationCostCurve []float64 `yaml:"implementation_cost_curve"`

	InitialEfficiency *float64 `yaml:"initial_efficiency"`
	LearningRate      *float64 `yaml:"learning_rate"`

	NetworkBaseValue   *float64 `yaml:"network_base_value"`
	NetworkCoefficient *float64 `yaml:"network_coefficient"`
}

// LoadPreset builds a parameter set from the defaults merged with the YAML
// preset file at path. Scalar overrides replace the default value; table
// entries are merged key-wise so a preset can adjust one sector without
// restating the whole table. The merged tables always retain their fallback
// keys.
func LoadPreset(path string) (*EconomicParameters, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading params preset: %w", err)
	}

	var ps preset
	if err := yaml.Unmarshal(raw, &ps); err != nil {
		return nil, fmt.Errorf("parsing params preset: %w", err)
	}

	p := Defaults()

	setScalar(&p.GDPGrowthImpact, ps.GDPGrowthImpact)
	setScalar(&p.DiscountRate, ps.DiscountRate)
	setScalar(&p.AdoptionK, ps.AdoptionK)
	setScalar(&p.AdoptionT0, ps.AdoptionT0)
	setScalar(&p.CompetitiveLambda, ps.CompetitiveLambda)
	setScalar(&p.MarketShareErosionRate, ps.MarketShareErosionRate)
	setScalar(&p.InitialEfficiency, ps.InitialEfficiency)
	setScalar(&p.LearningRate, ps.LearningRate)
	setScalar(&p.NetworkBaseValue, ps.NetworkBaseValue)
	setScalar(&p.NetworkCoefficient, ps.NetworkCoefficient)

	mergeTable(p.SectorProductivityGains, ps.SectorProductivityGains)
	mergeTable(p.IndustryPaybackMonths, ps.IndustryPaybackMonths)
	mergeTable(p.IndustryPERatios, ps.IndustryPERatios)
	mergeTable(p.IndustryGrowthMultiples, ps.IndustryGrowthMultiples)
	mergeTable(p.UseCaseROI, ps.UseCaseROI)

	if len(ps.ImplementationCostCurve) > 0 {
		p.ImplementationCostCurve = append([]float64(nil), ps.ImplementationCostCurve...)
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid params preset: %w", err)
	}

	return p, nil
}

// Validate checks the structural invariants of a parameter set: every table
// must keep its fallback key and the core rates must be positive.
func (p *EconomicParameters) Validate() error {
	sectorTables := map[string]map[string]float64{
		"sector_productivity_gains": p.SectorProductivityGains,
		"industry_payback_months":   p.IndustryPaybackMonths,
		"industry_pe_ratios":        p.IndustryPERatios,
		"industry_growth_multiples": p.IndustryGrowthMultiples,
	}
	for name, table := range sectorTables {
		if _, ok := table[SectorFallback]; !ok {
			return fmt.Errorf("table %s is missing the %q fallback entry", name, SectorFallback)
		}
	}
	if _, ok := p.UseCaseROI[UseCaseFallback]; !ok {
		return fmt.Errorf("table use_case_roi is missing the %q fallback entry", UseCaseFallback)
	}

	if p.DiscountRate <= 0 {
		return fmt.Errorf("discount_rate must be positive, got %f", p.DiscountRate)
	}
	if p.LearningRate <= 0 {
		return fmt.Errorf("learning_rate must be positive, got %f", p.LearningRate)
	}
	if len(p.ImplementationCostCurve) == 0 {
		return fmt.Errorf("implementation_cost_curve must not be empty")
	}

	return nil
}

func setScalar(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func mergeTable(dst, src map[string]float64) {
	for k, v := range src {
		dst[k] = v
	}
}
