package service

import (
	"testing"

	leaddomain "github.com/casekit/lexbill/internal/leadscore/domain"
	"github.com/stretchr/testify/assert"
)

func TestWeightsSumToOne(t *testing.T) {
	var sum float64
	for _, weight := range leaddomain.Weights {
		sum += weight
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestCompute_Extremes(t *testing.T) {
	all100 := map[string]float64{
		leaddomain.FactorMatterUrgency:     100,
		leaddomain.FactorBudgetRange:       100,
		leaddomain.FactorReferralQuality:   100,
		leaddomain.FactorResponseTime:      100,
		leaddomain.FactorPracticeAreaMatch: 100,
		leaddomain.FactorGeographicMatch:   100,
	}
	assert.Equal(t, 100, Compute(all100))

	all0 := map[string]float64{
		leaddomain.FactorMatterUrgency: 0,
		leaddomain.FactorBudgetRange:   0,
	}
	assert.Equal(t, 0, Compute(all0))
	assert.Equal(t, 0, Compute(nil))
	assert.Equal(t, 0, Compute(map[string]float64{}))
}

func TestCompute_PartialSubmissionIsNotRenormalized(t *testing.T) {
	score := Compute(map[string]float64{
		leaddomain.FactorMatterUrgency: 100,
		leaddomain.FactorBudgetRange:   100,
	})
	assert.Equal(t, 45, score)
}

func TestCompute_UnknownKeysIgnored(t *testing.T) {
	score := Compute(map[string]float64{
		leaddomain.FactorMatterUrgency: 100,
		"companySize":                  100,
		"vibes":                        9000,
	})
	assert.Equal(t, 20, score)
}

func TestCompute_ClampsInputs(t *testing.T) {
	score := Compute(map[string]float64{
		leaddomain.FactorMatterUrgency: 250,
		leaddomain.FactorBudgetRange:   -40,
	})
	assert.Equal(t, 20, score)
}

func TestCompute_Rounding(t *testing.T) {
	// 55*0.20 + 55*0.25 = 24.75, rounds half away from zero to 25.
	score := Compute(map[string]float64{
		leaddomain.FactorMatterUrgency: 55,
		leaddomain.FactorBudgetRange:   55,
	})
	assert.Equal(t, 25, score)
}
