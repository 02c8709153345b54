package processors

import (
	"time"

	"github.com/username/caseledger/backend/src/models"
)

// CaseProcessor aggregates charge transactions into master cases.
type CaseProcessor interface {
	Process(transactions []models.ChargeTransaction, calc UnitCalculator) []models.MasterCase
}

// UnitCalculator resolves the unit score for one case from its date of service
// and unit totals.
type UnitCalculator interface {
	Score(dateOfService time.Time, anesUnits, anesMinutes, medUnits float64) float64
}
