package services

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/username/caseledger/backend/src/logger"
	"github.com/username/caseledger/backend/src/model"
	"github.com/username/caseledger/backend/src/models"
	"github.com/username/caseledger/backend/src/utils"
)

// Built-in coefficient defaults, used when no stored rule covers a date.
const (
	DefaultAnesUnitsMultiplier = 0.5
	DefaultAnesTimeDivisor     = 10.0
	DefaultMedUnitsMultiplier  = 0.6
)

// defaultRuleEffectiveDate seeds the rule table on first start so the rule
// list is never empty in the UI.
var defaultRuleEffectiveDate = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// DefaultRule returns the built-in coefficient set.
func DefaultRule() models.CalcRule {
	return models.CalcRule{
		EffectiveDate:       defaultRuleEffectiveDate,
		AnesUnitsMultiplier: DefaultAnesUnitsMultiplier,
		AnesTimeDivisor:     DefaultAnesTimeDivisor,
		MedUnitsMultiplier:  DefaultMedUnitsMultiplier,
		Description:         "Built-in default coefficients",
	}
}

// ComputeUnitScore applies one rule's coefficients to a case's totals, rounded
// to two decimals. A zero time divisor drops the time term instead of dividing.
func ComputeUnitScore(rule models.CalcRule, anesUnits, anesMinutes, medUnits float64) float64 {
	score := rule.AnesUnitsMultiplier * anesUnits
	if rule.AnesTimeDivisor != 0 {
		score += anesMinutes / rule.AnesTimeDivisor
	}
	score += rule.MedUnitsMultiplier * medUnits
	return utils.RoundFloat(score, 2)
}

// RuleSet is an in-memory snapshot of every stored rule, sorted by effective
// date ascending. One snapshot serves a whole aggregation run, so every case in
// the run resolves against the same rule state.
type RuleSet struct {
	rules []models.CalcRule
}

// NewRuleSet builds a snapshot from an unsorted rule list.
func NewRuleSet(rules []models.CalcRule) *RuleSet {
	sorted := make([]models.CalcRule, len(rules))
	copy(sorted, rules)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].EffectiveDate.Before(sorted[j].EffectiveDate)
	})
	return &RuleSet{rules: sorted}
}

// Resolve returns the rule with the latest effective date on or before the
// given date. Dates before every stored rule fall back to the built-in default.
func (rs *RuleSet) Resolve(date time.Time) models.CalcRule {
	for i := len(rs.rules) - 1; i >= 0; i-- {
		if !rs.rules[i].EffectiveDate.After(date) {
			return rs.rules[i]
		}
	}
	logger.L.Warn("No stored rule covers date, using built-in defaults", "date", date.Format("2006-01-02"))
	return DefaultRule()
}

// Score implements the calculator used by case aggregation.
func (rs *RuleSet) Score(dateOfService time.Time, anesUnits, anesMinutes, medUnits float64) float64 {
	return ComputeUnitScore(rs.Resolve(dateOfService), anesUnits, anesMinutes, medUnits)
}

type ruleServiceImpl struct {
	db *sql.DB
}

// NewRuleService creates the DB-backed rule service.
func NewRuleService(db *sql.DB) RuleService {
	return &ruleServiceImpl{db: db}
}

func (s *ruleServiceImpl) ListRules() ([]models.CalcRule, error) {
	return model.ListRules(s.db)
}

func (s *ruleServiceImpl) SaveRule(rule *models.CalcRule) error {
	if err := model.SaveRule(s.db, rule); err != nil {
		return fmt.Errorf("saving calculation rule: %w", err)
	}
	logger.L.Info("Calculation rule saved",
		"effectiveDate", rule.EffectiveDate.Format("2006-01-02"),
		"anesUnitsMultiplier", rule.AnesUnitsMultiplier,
		"anesTimeDivisor", rule.AnesTimeDivisor,
		"medUnitsMultiplier", rule.MedUnitsMultiplier)
	return nil
}

func (s *ruleServiceImpl) DeleteRule(id int64) error {
	affected, err := model.DeleteRule(s.db, id)
	if err != nil {
		return fmt.Errorf("deleting calculation rule %d: %w", id, err)
	}
	if affected == 0 {
		return ErrRuleNotFound
	}
	logger.L.Info("Calculation rule deleted", "ruleID", id)
	return nil
}

// EnsureDefaultRule seeds the built-in default rule when the table is empty.
func (s *ruleServiceImpl) EnsureDefaultRule() error {
	n, err := model.CountRules(s.db)
	if err != nil {
		return fmt.Errorf("counting calculation rules: %w", err)
	}
	if n > 0 {
		return nil
	}
	rule := DefaultRule()
	if err := model.SaveRule(s.db, &rule); err != nil {
		return fmt.Errorf("seeding default calculation rule: %w", err)
	}
	logger.L.Info("Seeded default calculation rule",
		"effectiveDate", rule.EffectiveDate.Format("2006-01-02"))
	return nil
}

func (s *ruleServiceImpl) Snapshot() (*RuleSet, error) {
	rules, err := model.ListRules(s.db)
	if err != nil {
		return nil, fmt.Errorf("loading rule snapshot: %w", err)
	}
	return NewRuleSet(rules), nil
}
