package econ

import "math"

// Newton's-method constants for the IRR solver. These are behavioral
// constants: changing them changes published results.
const (
	irrInitialGuess    = 0.10
	irrMaxIterations   = 100
	irrTolerance       = 1e-6
	irrDerivativeFloor = 1e-10
)

// LogisticAdoption evaluates the adoption S-curve at time t (in years):
// 1/(1+exp(-k*(t-t0))). The result is strictly inside (0,1) for finite t and
// monotonically increasing in t.
func LogisticAdoption(t, k, t0 float64) float64 {
	v := 1.0 / (1.0 + math.Exp(-k*(t-t0)))
	// Far from the inflection point exp under/overflows and the quotient
	// rounds to an endpoint; nudge it back inside the open interval.
	if v >= 1.0 {
		return math.Nextafter(1.0, 0)
	}
	if v <= 0.0 {
		return math.SmallestNonzeroFloat64
	}
	return v
}

// NPV computes the net present value of a cash-flow schedule at the given
// discount rate. Flows are per-period net amounts; periods are indexed from 1,
// so flows[0] is discounted by (1+rate)^1.
func NPV(rate float64, flows []float64) float64 {
	var total float64
	for i, flow := range flows {
		total += flow / math.Pow(1.0+rate, float64(i+1))
	}
	return total
}

// npvDerivative is d(NPV)/d(rate) for the same period convention as NPV.
func npvDerivative(rate float64, flows []float64) float64 {
	var total float64
	for i, flow := range flows {
		period := float64(i + 1)
		total -= period * flow / math.Pow(1.0+rate, period+1)
	}
	return total
}

// IRR finds the internal rate of return of a cash-flow schedule with Newton's
// method starting from guess. It stops on convergence of successive iterates,
// on a vanishing derivative, or after the iteration cap, returning the last
// iterate in every case. A schedule with no sign change has no root; the
// caller gets the last iterate rather than an error, matching the advisory
// nature of the IRR figure.
func IRR(flows []float64, guess float64) float64 {
	rate := guess
	for i := 0; i < irrMaxIterations; i++ {
		derivative := npvDerivative(rate, flows)
		if math.Abs(derivative) < irrDerivativeFloor {
			break
		}

		next := rate - NPV(rate, flows)/derivative
		if next <= -1.0 {
			// A rate at or below -100% makes the discount factor blow up.
			break
		}
		if math.Abs(next-rate) < irrTolerance {
			return next
		}
		rate = next
	}
	return rate
}

// learningEfficiency models how effectively the organization uses the new
// capability after t years: 1-(1-initial)*exp(-rate*t), approaching 1.0.
func learningEfficiency(t, initial, rate float64) float64 {
	return 1.0 - (1.0-initial)*math.Exp(-rate*t)
}

// diminishingReturns dampens early-year benefits: 1-exp(-0.5*t).
func diminishingReturns(t float64) float64 {
	return 1.0 - math.Exp(-0.5*t)
}
