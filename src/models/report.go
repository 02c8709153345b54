package models

// ChargeTransaction is one itemized billing line parsed from the charge
// transaction section of a compensation report. The numeric tail fields are kept
// as the raw strings the report carried; an empty string means the column was
// absent or failed validation for that line. Summing and type conversion happen
// at aggregation time.
type ChargeTransaction struct {
	ID        int64 `json:"id,omitempty"` // Database primary key
	SummaryID int64 `json:"summary_id,omitempty"`

	TicketRef string `json:"ticket_ref"` // 8-digit encounter key, always present
	Note      string `json:"note"`       // single char from the note alphabet, or empty
	SiteCode  string `json:"site_code"`
	ServType  string `json:"serv_type"` // An (anesthesia), Me (medical direction), Mo (modifier)
	CPTCode   string `json:"cpt_code"`  // 5-digit procedure code
	PayCode   string `json:"pay_code"`
	StartTime string `json:"start_time"` // HH:MM, or empty
	StopTime  string `json:"stop_time"`
	OBCasePos string `json:"ob_case_pos"` // single char (L, R, S, P) on obstetric lines, or empty

	DateOfService string `json:"date_of_service"` // M/D/YY as printed, or empty
	DateOfPost    string `json:"date_of_post"`

	// Fixed 12-field numeric tail, in report column order.
	SplitPercent   string `json:"split_percent"`
	AnesTimeMin    string `json:"anes_time_min"`
	AnesBaseUnits  string `json:"anes_base_units"`
	MedBaseUnits   string `json:"med_base_units"`
	OtherUnits     string `json:"other_units"`
	ChgAmt         string `json:"chg_amt"`
	SubPoolPercent string `json:"sub_pool_percent"`
	SbPlTimeMin    string `json:"sb_pl_time_min"`
	GrpPoolPercent string `json:"grp_pool_percent"`
	GrPlTimeMin    string `json:"gr_pl_time_min"`
	GrpAnesBase    string `json:"grp_anes_base"`
	GrpMedBase     string `json:"grp_med_base"`

	RawLine string `json:"raw_line,omitempty"` // original line for reference, name already stripped
}

// NumericTail returns the 12 numeric-or-empty values in report column order.
// The parser guarantees exactly this many values for any accepted line.
func (t *ChargeTransaction) NumericTail() []string {
	return []string{
		t.SplitPercent, t.AnesTimeMin, t.AnesBaseUnits, t.MedBaseUnits,
		t.OtherUnits, t.ChgAmt, t.SubPoolPercent, t.SbPlTimeMin,
		t.GrpPoolPercent, t.GrPlTimeMin, t.GrpAnesBase, t.GrpMedBase,
	}
}

// setNumericTail assigns the 12 tail fields from a slice in column order.
func (t *ChargeTransaction) SetNumericTail(vals []string) {
	fields := []*string{
		&t.SplitPercent, &t.AnesTimeMin, &t.AnesBaseUnits, &t.MedBaseUnits,
		&t.OtherUnits, &t.ChgAmt, &t.SubPoolPercent, &t.SbPlTimeMin,
		&t.GrpPoolPercent, &t.GrPlTimeMin, &t.GrpAnesBase, &t.GrpMedBase,
	}
	for i, f := range fields {
		if i < len(vals) {
			*f = vals[i]
		}
	}
}

// ReportSummary is the pay-period summary extracted from the first pages of a
// report. Dates are stored as YYYY-MM-DD strings; monetary fields may be nil
// when the pattern was not found in the document.
type ReportSummary struct {
	ID                     int64    `json:"id,omitempty"`
	SourceFile             string   `json:"source_file"`
	PayPeriodStartDate     string   `json:"pay_period_start_date"`
	PayPeriodEndDate       string   `json:"pay_period_end_date"`
	PayDate                string   `json:"pay_date"`
	GrossPay               *float64 `json:"gross_pay"`
	NetCompensation        *float64 `json:"net_compensation"`
	MedicalDirectorStipend *float64 `json:"medical_director_stipend"`
	EmployeeNumber         string   `json:"employee_number"`
}

// ReportData is the full parsed content of one uploaded report.
type ReportData struct {
	Summary      ReportSummary       `json:"summary"`
	Transactions []ChargeTransaction `json:"transactions"`
}
