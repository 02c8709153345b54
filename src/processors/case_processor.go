package processors

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/username/caseledger/backend/src/logger"
	"github.com/username/caseledger/backend/src/models"
)

// serviceDateLayout is the M/D/YY format the report prints for dates.
const serviceDateLayout = "1/2/06"

// caseProcessorImpl implements the CaseProcessor interface.
type caseProcessorImpl struct{}

// NewCaseProcessor creates a new instance of CaseProcessor.
func NewCaseProcessor() CaseProcessor {
	return &caseProcessorImpl{}
}

// Process rebuilds the full master case set from a transaction snapshot.
// Grouping is by ticket reference alone. The output is a pure function of the
// input: same snapshot and calculator, same cases in the same order.
func (p *caseProcessorImpl) Process(transactions []models.ChargeTransaction, calc UnitCalculator) []models.MasterCase {
	groups := make(map[string][]models.ChargeTransaction)
	for _, t := range transactions {
		if !validTicket(t.TicketRef) {
			logger.L.Warn("Skipping transaction with unusable ticket reference",
				"transactionID", t.ID, "ticketRef", t.TicketRef)
			continue
		}
		groups[t.TicketRef] = append(groups[t.TicketRef], t)
	}

	tickets := make([]string, 0, len(groups))
	for ticket := range groups {
		tickets = append(tickets, ticket)
	}
	sort.Strings(tickets)

	cases := make([]models.MasterCase, 0, len(tickets))
	for _, ticket := range tickets {
		cases = append(cases, buildCase(ticket, groups[ticket], calc))
	}
	return cases
}

// validTicket rejects the placeholder strings that show up when a PDF cell was
// empty, alongside the genuinely empty key.
func validTicket(ticket string) bool {
	switch strings.ToLower(strings.TrimSpace(ticket)) {
	case "", "nan", "none", "null":
		return false
	}
	return true
}

func buildCase(ticket string, group []models.ChargeTransaction, calc UnitCalculator) models.MasterCase {
	c := models.MasterCase{TicketRef: ticket}

	cptSet := make(map[string]struct{})
	var minDate time.Time
	for _, t := range group {
		c.TotalAnesTime += parseAmount(t.AnesTimeMin)
		c.TotalAnesBaseUnits += parseAmount(t.AnesBaseUnits)
		c.TotalMedBaseUnits += parseAmount(t.MedBaseUnits)
		c.TotalOtherUnits += parseAmount(t.OtherUnits)

		if t.CPTCode != "" {
			cptSet[t.CPTCode] = struct{}{}
		}
		if d, ok := parseServiceDate(t.DateOfService); ok {
			if minDate.IsZero() || d.Before(minDate) {
				minDate = d
			}
		}
		// Times compare as raw text, matching how the report orders them.
		if t.StartTime != "" && (c.InitialStartTime == "" || t.StartTime < c.InitialStartTime) {
			c.InitialStartTime = t.StartTime
		}
		if t.StopTime != "" && (c.LatestStopTime == "" || t.StopTime > c.LatestStopTime) {
			c.LatestStopTime = t.StopTime
		}
	}

	cpts := make([]string, 0, len(cptSet))
	for cpt := range cptSet {
		cpts = append(cpts, cpt)
	}
	sort.Strings(cpts)
	c.CPTCodes = strings.Join(cpts, ", ")

	if minDate.IsZero() {
		// No transaction in the group carried a parseable date, so no rule can
		// be resolved. The case still exists, with a zero score.
		logger.L.Warn("Case has no valid date of service, unit score degraded", "ticketRef", ticket)
		c.ScoreDegraded = true
		return c
	}
	c.DateOfService = minDate.Format("2006-01-02")
	c.UnitScore = calc.Score(minDate, c.TotalAnesBaseUnits, c.TotalAnesTime, c.TotalMedBaseUnits)
	return c
}

// parseAmount converts one stored numeric string, treating empty and
// unparseable values as zero so one bad column never poisons a case total.
func parseAmount(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseServiceDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(serviceDateLayout, s)
	if err != nil {
		logger.L.Warn("Unparseable date of service", "value", s)
		return time.Time{}, false
	}
	return d, true
}
