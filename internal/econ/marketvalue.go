package econ

import (
	"fmt"
	"math"

	"github.com/yourorg/ai-econ-engine/internal/model"
)

// positionAdjustments scale the valuation uplift by the company's competitive
// standing. Unknown positions are treated as neutral.
var positionAdjustments = map[string]float64{
	"Leader":     1.10,
	"Challenger": 1.00,
	"Follower":   0.90,
	"Laggard":    0.80,
}

// operatingMargin is the assumed earnings margin used to derive a market cap
// from revenue when the caller does not track earnings directly.
const operatingMargin = 0.15

// networkReferenceUsers normalizes the Metcalfe-style network multiplier so
// that a user base of this size yields the configured base value.
const networkReferenceUsers = 10_000.0

// MarketValueInput holds the parameters of a market-value-impact calculation.
type MarketValueInput struct {
	// Revenue is annual revenue in dollars. Must be positive.
	Revenue float64 `json:"revenue"`

	// Industry selects the P/E ratio and growth multiple.
	Industry string `json:"industry"`

	// Years is the time since AI adoption began, driving the adoption
	// premium. Must be >= 0.
	Years int `json:"years"`

	// MarketPosition is one of Leader, Challenger, Follower, Laggard.
	MarketPosition string `json:"market_position"`

	// Users is the size of the product's user or customer base, feeding the
	// network-effect multiplier. Zero disables the network effect.
	Users int `json:"users"`
}

// MarketValueImpact estimates the valuation uplift from AI adoption: an
// earnings-derived base market cap, lifted by the sector productivity gain
// weighted by the adoption premium and growth multiple, then scaled by the
// network-effect multiplier and market-position adjustment.
func (e *Engine) MarketValueImpact(in MarketValueInput) (model.MarketValueResult, error) {
	if in.Revenue <= 0 {
		return model.MarketValueResult{}, fmt.Errorf("%w: revenue must be positive, got %f",
			ErrInvalidArgument, in.Revenue)
	}
	if in.Years < 0 {
		return model.MarketValueResult{}, fmt.Errorf("%w: years must be non-negative, got %d",
			ErrInvalidArgument, in.Years)
	}

	p := e.params

	peRatio := p.PERatio(in.Industry)
	growthMultiple := p.GrowthMultiple(in.Industry)
	sectorGain := p.SectorProductivityGain(in.Industry)

	baseMarketCap := in.Revenue * operatingMargin * peRatio

	adoptionPremium := e.sCurve(float64(in.Years))

	networkMultiplier := 1.0
	if in.Users > 0 {
		networkMultiplier = p.NetworkBaseValue *
			math.Pow(float64(in.Users)/networkReferenceUsers, p.NetworkCoefficient)
	}
	networkMultiplier = guardNonFinite(networkMultiplier)

	positionAdjustment := 1.0
	if adj, ok := positionAdjustments[in.MarketPosition]; ok {
		positionAdjustment = adj
	}

	uplift := sectorGain * adoptionPremium * growthMultiple
	enhanced := baseMarketCap * (1.0 + uplift) * networkMultiplier * positionAdjustment

	increase := enhanced - baseMarketCap

	result := model.MarketValueResult{
		MarketValueIncrease:           increase,
		MarketValueIncreasePercentage: increase / baseMarketCap * 100.0,
		BaseMarketCap:                 baseMarketCap,
		AIEnhancedMarketCap:           enhanced,
		PERatio:                       peRatio,
		GrowthMultiple:                growthMultiple,
		AdoptionPremium:               adoptionPremium,
		NetworkEffectMultiplier:       networkMultiplier,
		PositionAdjustment:            positionAdjustment,
	}

	if result.MarketValueIncreasePercentage > 100 {
		result.Anomalies = append(result.Anomalies,
			fmt.Sprintf("market value uplift of %.0f%% exceeds the typical adoption premium range",
				result.MarketValueIncreasePercentage))
	}

	return result, nil
}
