package models

// MasterCase is the rollup of every charge transaction sharing one ticket
// reference. Cases are rebuilt from scratch on every aggregation run; they never
// accumulate deltas, so rerunning aggregation on unchanged input produces an
// identical set.
type MasterCase struct {
	ID        int64  `json:"id,omitempty"`
	TicketRef string `json:"ticket_ref"`

	DateOfService    string `json:"date_of_service"` // earliest valid date, YYYY-MM-DD, or empty
	CPTCodes         string `json:"cpt_codes"`       // sorted, de-duplicated, comma-joined
	InitialStartTime string `json:"initial_start_time"`
	LatestStopTime   string `json:"latest_stop_time"`

	TotalAnesTime      float64 `json:"total_anes_time"`
	TotalAnesBaseUnits float64 `json:"total_anes_base_units"`
	TotalMedBaseUnits  float64 `json:"total_med_base_units"`
	TotalOtherUnits    float64 `json:"total_other_units"`

	UnitScore float64 `json:"unit_score"`
	// ScoreDegraded marks cases whose score defaulted to zero because no valid
	// date of service existed to resolve a rule against.
	ScoreDegraded bool `json:"score_degraded"`
}

// CaseStats summarizes the current state of the aggregated data set.
type CaseStats struct {
	TotalCases        int `json:"total_cases"`
	TotalTransactions int `json:"total_transactions"`
	DegradedCases     int `json:"degraded_cases"`
}
