package models

import "time"

// CalcRule is one time-versioned set of unit-score coefficients. The rule in
// force for a case is the one with the latest EffectiveDate on or before the
// case's date of service. At most one rule exists per effective date; adding a
// rule for an existing date replaces its coefficients.
type CalcRule struct {
	ID                  int64     `json:"id,omitempty"`
	EffectiveDate       time.Time `json:"effective_date"`
	AnesUnitsMultiplier float64   `json:"anes_units_multiplier"`
	AnesTimeDivisor     float64   `json:"anes_time_divisor"`
	MedUnitsMultiplier  float64   `json:"med_units_multiplier"`
	Description         string    `json:"description"`
}
