package model

import (
	"github.com/username/caseledger/backend/src/logger"
	"github.com/username/caseledger/backend/src/models"
)

const txColumns = `ticket_ref, note, site_code, serv_type, cpt_code, pay_code,
	start_time, stop_time, ob_case_pos, date_of_service, date_of_post,
	split_percent, anes_time_min, anes_base_units, med_base_units, other_units,
	chg_amt, sub_pool_percent, sb_pl_time_min, grp_pool_percent, gr_pl_time_min,
	grp_anes_base, grp_med_base, raw_line`

// InsertChargeTransactions stores the parsed lines of one report under the given
// summary id. Lines with an invalid ticket reference are skipped with a warning
// rather than failing the whole upload.
func InsertChargeTransactions(db DBTX, summaryID int64, transactions []models.ChargeTransaction) (int, error) {
	stmt, err := db.Prepare(`
		INSERT INTO charge_transactions (summary_id, ` + txColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for i := range transactions {
		t := &transactions[i]
		if len(t.TicketRef) != 8 {
			logger.L.Warn("Skipping transaction with invalid ticket reference", "ticketRef", t.TicketRef)
			continue
		}
		_, err := stmt.Exec(summaryID,
			t.TicketRef, t.Note, t.SiteCode, t.ServType, t.CPTCode, t.PayCode,
			t.StartTime, t.StopTime, t.OBCasePos, t.DateOfService, t.DateOfPost,
			t.SplitPercent, t.AnesTimeMin, t.AnesBaseUnits, t.MedBaseUnits, t.OtherUnits,
			t.ChgAmt, t.SubPoolPercent, t.SbPlTimeMin, t.GrpPoolPercent, t.GrPlTimeMin,
			t.GrpAnesBase, t.GrpMedBase, t.RawLine)
		if err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

// transactionSortColumns whitelists the ORDER BY targets the API accepts.
var transactionSortColumns = map[string]string{
	"ticket_ref":      "ticket_ref",
	"date_of_service": "date_of_service",
	"cpt_code":        "cpt_code",
	"serv_type":       "serv_type",
	"id":              "id",
}

// ListChargeTransactions returns all stored transactions ordered by the given
// column. Unknown sort keys fall back to ticket_ref.
func ListChargeTransactions(db DBTX, sortBy string) ([]models.ChargeTransaction, error) {
	col, ok := transactionSortColumns[sortBy]
	if !ok {
		col = "ticket_ref"
	}
	return queryTransactions(db, `
		SELECT id, summary_id, `+txColumns+`
		FROM charge_transactions ORDER BY `+col+` ASC, id ASC`)
}

// FetchAllChargeTransactions returns the full transaction set in a stable
// order for case aggregation.
func FetchAllChargeTransactions(db DBTX) ([]models.ChargeTransaction, error) {
	return queryTransactions(db, `
		SELECT id, summary_id, `+txColumns+`
		FROM charge_transactions ORDER BY ticket_ref ASC, id ASC`)
}

// CountChargeTransactions reports how many transactions are stored.
func CountChargeTransactions(db DBTX) (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM charge_transactions`).Scan(&n)
	return n, err
}

// DeleteAllChargeTransactions clears the transaction table. Used by the full
// data reset, which also removes summaries and cases.
func DeleteAllChargeTransactions(db DBTX) error {
	_, err := db.Exec(`DELETE FROM charge_transactions`)
	return err
}

func queryTransactions(db DBTX, query string, args ...any) ([]models.ChargeTransaction, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.ChargeTransaction{}
	for rows.Next() {
		var t models.ChargeTransaction
		err := rows.Scan(&t.ID, &t.SummaryID,
			&t.TicketRef, &t.Note, &t.SiteCode, &t.ServType, &t.CPTCode, &t.PayCode,
			&t.StartTime, &t.StopTime, &t.OBCasePos, &t.DateOfService, &t.DateOfPost,
			&t.SplitPercent, &t.AnesTimeMin, &t.AnesBaseUnits, &t.MedBaseUnits, &t.OtherUnits,
			&t.ChgAmt, &t.SubPoolPercent, &t.SbPlTimeMin, &t.GrpPoolPercent, &t.GrPlTimeMin,
			&t.GrpAnesBase, &t.GrpMedBase, &t.RawLine)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
