package model

import (
	"time"

	"github.com/username/caseledger/backend/src/models"
)

const ruleDateLayout = "2006-01-02"

// ListRules returns all calculation rules, newest effective date first.
func ListRules(db DBTX) ([]models.CalcRule, error) {
	query := `
		SELECT id, effective_date, anes_units_multiplier, anes_time_divisor,
		       med_units_multiplier, description
		FROM calc_rules ORDER BY effective_date DESC`
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := []models.CalcRule{}
	for rows.Next() {
		var r models.CalcRule
		var effective string
		err := rows.Scan(&r.ID, &effective, &r.AnesUnitsMultiplier, &r.AnesTimeDivisor,
			&r.MedUnitsMultiplier, &r.Description)
		if err != nil {
			return nil, err
		}
		if r.EffectiveDate, err = time.Parse(ruleDateLayout, effective); err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

// SaveRule inserts a rule, replacing the coefficients in place when a rule for
// the same effective date already exists.
func SaveRule(db DBTX, r *models.CalcRule) error {
	query := `
		INSERT INTO calc_rules (effective_date, anes_units_multiplier, anes_time_divisor,
		                        med_units_multiplier, description)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(effective_date) DO UPDATE SET
			anes_units_multiplier = excluded.anes_units_multiplier,
			anes_time_divisor = excluded.anes_time_divisor,
			med_units_multiplier = excluded.med_units_multiplier,
			description = excluded.description,
			updated_at = CURRENT_TIMESTAMP`
	_, err := db.Exec(query, r.EffectiveDate.Format(ruleDateLayout),
		r.AnesUnitsMultiplier, r.AnesTimeDivisor, r.MedUnitsMultiplier, r.Description)
	return err
}

// DeleteRule removes a rule by id. Returns the number of rows removed so the
// caller can distinguish a missing id.
func DeleteRule(db DBTX, id int64) (int64, error) {
	res, err := db.Exec(`DELETE FROM calc_rules WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountRules reports how many rules exist, used to seed the built-in default
// on first start.
func CountRules(db DBTX) (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM calc_rules`).Scan(&n)
	return n, err
}
