package model

import (
	"github.com/username/caseledger/backend/src/models"
)

// ReplaceMasterCases swaps the whole master case table for the given set.
// Aggregation always rebuilds from scratch, so partial updates never happen.
func ReplaceMasterCases(db DBTX, cases []models.MasterCase) error {
	if _, err := db.Exec(`DELETE FROM master_cases`); err != nil {
		return err
	}

	stmt, err := db.Prepare(`
		INSERT INTO master_cases (
			ticket_ref, date_of_service, cpt_codes, initial_start_time, latest_stop_time,
			total_anes_time, total_anes_base_units, total_med_base_units, total_other_units,
			unit_score, score_degraded
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range cases {
		c := &cases[i]
		degraded := 0
		if c.ScoreDegraded {
			degraded = 1
		}
		_, err := stmt.Exec(
			c.TicketRef, c.DateOfService, c.CPTCodes, c.InitialStartTime, c.LatestStopTime,
			c.TotalAnesTime, c.TotalAnesBaseUnits, c.TotalMedBaseUnits, c.TotalOtherUnits,
			c.UnitScore, degraded)
		if err != nil {
			return err
		}
	}
	return nil
}

// ListMasterCases returns every aggregated case ordered by ticket reference.
func ListMasterCases(db DBTX) ([]models.MasterCase, error) {
	query := `
		SELECT id, ticket_ref, date_of_service, cpt_codes, initial_start_time, latest_stop_time,
		       total_anes_time, total_anes_base_units, total_med_base_units, total_other_units,
		       unit_score, score_degraded
		FROM master_cases ORDER BY ticket_ref ASC`
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cases := []models.MasterCase{}
	for rows.Next() {
		var c models.MasterCase
		var degraded int
		err := rows.Scan(&c.ID, &c.TicketRef, &c.DateOfService, &c.CPTCodes,
			&c.InitialStartTime, &c.LatestStopTime,
			&c.TotalAnesTime, &c.TotalAnesBaseUnits, &c.TotalMedBaseUnits, &c.TotalOtherUnits,
			&c.UnitScore, &degraded)
		if err != nil {
			return nil, err
		}
		c.ScoreDegraded = degraded != 0
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

// GetCaseStats returns counts over the aggregated data set.
func GetCaseStats(db DBTX) (*models.CaseStats, error) {
	var stats models.CaseStats
	err := db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM master_cases),
			(SELECT COUNT(*) FROM charge_transactions),
			(SELECT COUNT(*) FROM master_cases WHERE score_degraded = 1)`).
		Scan(&stats.TotalCases, &stats.TotalTransactions, &stats.DegradedCases)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
