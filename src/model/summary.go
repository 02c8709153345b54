package model

import (
	"database/sql"

	"github.com/username/caseledger/backend/src/models"
)

// GetSummaryBySourceFile looks up an existing summary by its source filename.
// Returns sql.ErrNoRows when the file was never uploaded.
func GetSummaryBySourceFile(db DBTX, sourceFile string) (*models.ReportSummary, error) {
	query := `
		SELECT id, source_file, pay_period_start_date, pay_period_end_date, pay_date,
		       gross_pay, net_compensation, medical_director_stipend, employee_number
		FROM report_summaries WHERE source_file = ?`
	return scanSummary(db.QueryRow(query, sourceFile))
}

// InsertSummary stores a new report summary and returns its generated id.
func InsertSummary(db DBTX, s *models.ReportSummary) (int64, error) {
	query := `
		INSERT INTO report_summaries (
			source_file, pay_period_start_date, pay_period_end_date, pay_date,
			gross_pay, net_compensation, medical_director_stipend, employee_number
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := db.Exec(query,
		s.SourceFile, s.PayPeriodStartDate, s.PayPeriodEndDate, s.PayDate,
		nullFloat(s.GrossPay), nullFloat(s.NetCompensation), nullFloat(s.MedicalDirectorStipend),
		s.EmployeeNumber)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// DeleteSummary removes a summary row. Its charge transactions go with it
// through the foreign key cascade.
func DeleteSummary(db DBTX, id int64) (int64, error) {
	res, err := db.Exec(`DELETE FROM report_summaries WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListSummaries returns every uploaded report summary, newest pay period first.
func ListSummaries(db DBTX) ([]models.ReportSummary, error) {
	query := `
		SELECT id, source_file, pay_period_start_date, pay_period_end_date, pay_date,
		       gross_pay, net_compensation, medical_director_stipend, employee_number
		FROM report_summaries
		ORDER BY pay_period_start_date DESC, source_file ASC`
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []models.ReportSummary{}
	for rows.Next() {
		s, err := scanSummaryRows(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *s)
	}
	return summaries, rows.Err()
}

func scanSummary(row *sql.Row) (*models.ReportSummary, error) {
	var s models.ReportSummary
	var start, end, payDate, employee sql.NullString
	var gross, net, stipend sql.NullFloat64
	err := row.Scan(&s.ID, &s.SourceFile, &start, &end, &payDate, &gross, &net, &stipend, &employee)
	if err != nil {
		return nil, err
	}
	applySummaryNulls(&s, start, end, payDate, employee, gross, net, stipend)
	return &s, nil
}

func scanSummaryRows(rows *sql.Rows) (*models.ReportSummary, error) {
	var s models.ReportSummary
	var start, end, payDate, employee sql.NullString
	var gross, net, stipend sql.NullFloat64
	err := rows.Scan(&s.ID, &s.SourceFile, &start, &end, &payDate, &gross, &net, &stipend, &employee)
	if err != nil {
		return nil, err
	}
	applySummaryNulls(&s, start, end, payDate, employee, gross, net, stipend)
	return &s, nil
}

func applySummaryNulls(s *models.ReportSummary, start, end, payDate, employee sql.NullString, gross, net, stipend sql.NullFloat64) {
	s.PayPeriodStartDate = start.String
	s.PayPeriodEndDate = end.String
	s.PayDate = payDate.String
	s.EmployeeNumber = employee.String
	if gross.Valid {
		v := gross.Float64
		s.GrossPay = &v
	}
	if net.Valid {
		v := net.Float64
		s.NetCompensation = &v
	}
	if stipend.Valid {
		v := stipend.Float64
		s.MedicalDirectorStipend = &v
	}
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
