package chargereport

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/username/caseledger/backend/src/logger"
	"github.com/username/caseledger/backend/src/models"
)

// Summary patterns over the non-data text of the report. The period appears
// either as "Period: May 2025" or as "For the Month of May" with the year
// implied by the pay date; the pay date itself appears as "Pay Date:" or, on
// older stubs, "Payroll Issued:".
var (
	payPeriodRe    = regexp.MustCompile(`(?i)Period:\s*([A-Za-z]+\s+\d{4})`)
	payPeriodAltRe = regexp.MustCompile(`(?i)For the Month of\s+([A-Za-z]+)`)
	payDateRe      = regexp.MustCompile(`(?i)Pay Date:\s*(\d{1,2}/\d{1,2}/\d{4})`)
	payrollIssueRe = regexp.MustCompile(`(?i)Payroll Issued:\s*(\d{1,2}/\d{1,2}/\d{4})`)
	grossEarnRe    = regexp.MustCompile(`(?i)Gross Earnings\s*\$([\d,]+\.?\d*)`)
	netCompRe      = regexp.MustCompile(`(?i)Net Compensation/Net Pay\s*([\d,]+\.?\d*)`)
	stipendRe      = regexp.MustCompile(`(?i)Medical Director Stipend\s*([\d,]+\.?\d*)`)
	employeeNumRe  = regexp.MustCompile(`(?i)Employee Number\s*(\d+)`)
)

const isoDate = "2006-01-02"

// extractSummary scans the report's summary pages for the pay period, the pay
// date, and the compensation amounts. Missing fields stay empty; when no
// period is printed at all, it is estimated as the month before the pay date.
func extractSummary(text string) models.ReportSummary {
	var summary models.ReportSummary

	var payDate time.Time
	if m := payDateRe.FindStringSubmatch(text); m != nil {
		payDate = parseUSDate(m[1])
	} else if m := payrollIssueRe.FindStringSubmatch(text); m != nil {
		payDate = parseUSDate(m[1])
	}
	if !payDate.IsZero() {
		summary.PayDate = payDate.Format(isoDate)
	}

	var periodStart time.Time
	if m := payPeriodRe.FindStringSubmatch(text); m != nil {
		if t, err := time.Parse("January 2006", normalizeSpace(m[1])); err == nil {
			periodStart = t
		} else {
			logger.L.Warn("Unparseable pay period in summary", "value", m[1])
		}
	}
	if periodStart.IsZero() && !payDate.IsZero() {
		if m := payPeriodAltRe.FindStringSubmatch(text); m != nil {
			month := m[1] + " " + strconv.Itoa(payDate.Year())
			if t, err := time.Parse("January 2006", month); err == nil {
				periodStart = t
			} else {
				logger.L.Warn("Unparseable month name in summary", "value", m[1])
			}
		}
	}
	if periodStart.IsZero() && !payDate.IsZero() {
		// No printed period anywhere. Compensation reports pay a month in
		// arrears, so take the month before the pay date.
		periodStart = time.Date(payDate.Year(), payDate.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
		logger.L.Info("Estimated pay period from pay date", "periodStart", periodStart.Format(isoDate))
	}
	if !periodStart.IsZero() {
		summary.PayPeriodStartDate = periodStart.Format(isoDate)
		summary.PayPeriodEndDate = periodStart.AddDate(0, 1, -1).Format(isoDate)
	}

	grossEarnings := findAmount(grossEarnRe, text)
	netCompensation := findAmount(netCompRe, text)
	if grossEarnings != nil {
		summary.GrossPay = grossEarnings
	} else if netCompensation != nil {
		summary.GrossPay = netCompensation
	}
	summary.NetCompensation = netCompensation
	summary.MedicalDirectorStipend = findAmount(stipendRe, text)

	if m := employeeNumRe.FindStringSubmatch(text); m != nil {
		summary.EmployeeNumber = m[1]
	}

	return summary
}

func findAmount(re *regexp.Regexp, text string) *float64 {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		logger.L.Warn("Unparseable amount in summary", "value", m[1])
		return nil
	}
	return &v
}

func parseUSDate(s string) time.Time {
	t, err := time.Parse("1/2/2006", s)
	if err != nil {
		logger.L.Warn("Unparseable date in summary", "value", s)
		return time.Time{}
	}
	return t
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
