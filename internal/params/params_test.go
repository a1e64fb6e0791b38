package params

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_TablesCarryFallbacks(t *testing.T) {
	p := Defaults()
	require.NoError(t, p.Validate())

	assert.Equal(t, 0.30, p.SectorProductivityGains[SectorFallback])
	assert.Equal(t, 1.50, p.UseCaseROI[UseCaseFallback])
}

func TestLookups_AreTotal(t *testing.T) {
	p := Defaults()

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"known sector gain", p.SectorProductivityGain("Technology"), 0.40},
		{"unknown sector gain", p.SectorProductivityGain("Interpretive Dance"), 0.30},
		{"empty sector gain", p.SectorProductivityGain(""), 0.30},
		{"known use case", p.BaseROI("Fraud Detection"), 2.80},
		{"unknown use case", p.BaseROI("Time Travel"), 1.50},
		{"unknown payback", p.PaybackMonths("Interpretive Dance"), 18},
		{"unknown pe ratio", p.PERatio("Interpretive Dance"), 18.0},
		{"unknown growth multiple", p.GrowthMultiple("Interpretive Dance"), 1.15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestCostFraction(t *testing.T) {
	p := Defaults()

	assert.Equal(t, 0.40, p.CostFraction(0))
	assert.Equal(t, 0.10, p.CostFraction(3))
	// Past the curve the spend drops to steady-state maintenance.
	assert.Equal(t, 0.05, p.CostFraction(4))
	assert.Equal(t, 0.05, p.CostFraction(17))
}

func TestClone_IsIndependent(t *testing.T) {
	p := Defaults()
	clone := p.Clone()

	clone.SectorProductivityGains["Technology"] = 0.99
	clone.UseCaseROI["Fraud Detection"] = 9.9
	clone.ImplementationCostCurve[0] = 0.0
	clone.DiscountRate = 0.42

	assert.Equal(t, 0.40, p.SectorProductivityGain("Technology"))
	assert.Equal(t, 2.80, p.BaseROI("Fraud Detection"))
	assert.Equal(t, 0.40, p.CostFraction(0))
	assert.Equal(t, 0.10, p.DiscountRate)
}

func TestLoadPreset_MergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.yaml")
	content := []byte(`
discount_rate: 0.12
sector_productivity_gains:
  Technology: 0.42
use_case_roi:
  Fraud Detection: 3.00
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	p, err := LoadPreset(path)
	require.NoError(t, err)

	assert.Equal(t, 0.12, p.DiscountRate)
	assert.Equal(t, 0.42, p.SectorProductivityGain("Technology"))
	assert.Equal(t, 3.00, p.BaseROI("Fraud Detection"))

	// Untouched entries keep their defaults, including the fallbacks.
	assert.Equal(t, 0.35, p.SectorProductivityGain("Financial Services"))
	assert.Equal(t, 0.30, p.SectorProductivityGain("nope"))
	assert.Equal(t, 0.07, p.GDPGrowthImpact)
}

func TestLoadPreset_RejectsBrokenPreset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte("discount_rate: -0.5\n"), 0o644))

	_, err := LoadPreset(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discount_rate")
}

func TestLoadPreset_MissingFile(t *testing.T) {
	_, err := LoadPreset(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
