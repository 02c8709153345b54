package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/username/caseledger/backend/src/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRuleSetResolveLatestOnOrBefore(t *testing.T) {
	rs := NewRuleSet([]models.CalcRule{
		{EffectiveDate: date(2025, time.January, 1), AnesUnitsMultiplier: 2, AnesTimeDivisor: 20, MedUnitsMultiplier: 2},
		{EffectiveDate: date(2024, time.January, 1), AnesUnitsMultiplier: 1, AnesTimeDivisor: 10, MedUnitsMultiplier: 1},
	})

	assert.Equal(t, 1.0, rs.Resolve(date(2024, time.June, 15)).AnesUnitsMultiplier)
	assert.Equal(t, 2.0, rs.Resolve(date(2025, time.June, 15)).AnesUnitsMultiplier)
	// The effective date itself is covered.
	assert.Equal(t, 2.0, rs.Resolve(date(2025, time.January, 1)).AnesUnitsMultiplier)
}

func TestRuleSetResolveFallsBackToDefault(t *testing.T) {
	rs := NewRuleSet([]models.CalcRule{
		{EffectiveDate: date(2024, time.January, 1), AnesUnitsMultiplier: 9},
	})

	rule := rs.Resolve(date(2023, time.December, 31))
	assert.Equal(t, DefaultAnesUnitsMultiplier, rule.AnesUnitsMultiplier)
	assert.Equal(t, DefaultAnesTimeDivisor, rule.AnesTimeDivisor)
	assert.Equal(t, DefaultMedUnitsMultiplier, rule.MedUnitsMultiplier)
}

func TestRuleSetResolveEmptySetUsesDefault(t *testing.T) {
	rs := NewRuleSet(nil)

	rule := rs.Resolve(date(2025, time.May, 1))
	assert.Equal(t, DefaultAnesUnitsMultiplier, rule.AnesUnitsMultiplier)
}

func TestComputeUnitScore(t *testing.T) {
	// 0.5*10 + 120/10 + 0.6*5 = 20.00
	score := ComputeUnitScore(DefaultRule(), 10, 120, 5)
	assert.Equal(t, 20.00, score)
}

func TestComputeUnitScoreRoundsToTwoDecimals(t *testing.T) {
	rule := models.CalcRule{AnesUnitsMultiplier: 1, AnesTimeDivisor: 3, MedUnitsMultiplier: 0}
	// 100/3 = 33.333... rounds to 33.33
	assert.Equal(t, 33.33, ComputeUnitScore(rule, 0, 100, 0))
}

func TestComputeUnitScoreZeroDivisorSkipsTimeTerm(t *testing.T) {
	rule := models.CalcRule{AnesUnitsMultiplier: 1, AnesTimeDivisor: 0, MedUnitsMultiplier: 1}
	assert.Equal(t, 15.0, ComputeUnitScore(rule, 10, 500, 5))
}

func TestRuleSetScoreUsesResolvedRule(t *testing.T) {
	rs := NewRuleSet([]models.CalcRule{
		{EffectiveDate: date(2024, time.January, 1), AnesUnitsMultiplier: 1, AnesTimeDivisor: 10, MedUnitsMultiplier: 1},
		{EffectiveDate: date(2025, time.January, 1), AnesUnitsMultiplier: 2, AnesTimeDivisor: 10, MedUnitsMultiplier: 2},
	})

	// 2024 rule: 1*10 + 100/10 + 1*5 = 25
	assert.Equal(t, 25.0, rs.Score(date(2024, time.June, 1), 10, 100, 5))
	// 2025 rule: 2*10 + 100/10 + 2*5 = 40
	assert.Equal(t, 40.0, rs.Score(date(2025, time.June, 1), 10, 100, 5))
}

func TestNewRuleSetDoesNotMutateInput(t *testing.T) {
	rules := []models.CalcRule{
		{EffectiveDate: date(2025, time.January, 1)},
		{EffectiveDate: date(2024, time.January, 1)},
	}
	NewRuleSet(rules)
	assert.Equal(t, date(2025, time.January, 1), rules[0].EffectiveDate)
}
