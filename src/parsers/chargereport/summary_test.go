package chargereport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSummaryFullDocument(t *testing.T) {
	text := `
Monthly Compensation Report
Period: May 2025
Pay Date: 06/13/2025
Gross Earnings $12,345.67
Net Compensation/Net Pay 11,000.00
Medical Director Stipend 1,500.00
Employee Number 4521
`
	s := extractSummary(text)

	assert.Equal(t, "2025-05-01", s.PayPeriodStartDate)
	assert.Equal(t, "2025-05-31", s.PayPeriodEndDate)
	assert.Equal(t, "2025-06-13", s.PayDate)
	require.NotNil(t, s.GrossPay)
	assert.InDelta(t, 12345.67, *s.GrossPay, 0.001)
	require.NotNil(t, s.NetCompensation)
	assert.InDelta(t, 11000.00, *s.NetCompensation, 0.001)
	require.NotNil(t, s.MedicalDirectorStipend)
	assert.InDelta(t, 1500.00, *s.MedicalDirectorStipend, 0.001)
	assert.Equal(t, "4521", s.EmployeeNumber)
}

func TestExtractSummaryMonthNameWithYearFromPayDate(t *testing.T) {
	text := `
For the Month of May
Payroll Issued: 6/13/2025
`
	s := extractSummary(text)

	assert.Equal(t, "2025-06-13", s.PayDate)
	assert.Equal(t, "2025-05-01", s.PayPeriodStartDate)
	assert.Equal(t, "2025-05-31", s.PayPeriodEndDate)
}

func TestExtractSummaryEstimatesPeriodFromPayDate(t *testing.T) {
	// No printed period: assume the month before the pay date, including the
	// year rollover in January.
	s := extractSummary("Pay Date: 01/15/2025")

	assert.Equal(t, "2024-12-01", s.PayPeriodStartDate)
	assert.Equal(t, "2024-12-31", s.PayPeriodEndDate)
}

func TestExtractSummaryDecemberPeriodEnd(t *testing.T) {
	s := extractSummary("Period: December 2024\nPay Date: 01/15/2025")

	assert.Equal(t, "2024-12-01", s.PayPeriodStartDate)
	assert.Equal(t, "2024-12-31", s.PayPeriodEndDate)
}

func TestExtractSummaryGrossPayFallsBackToNet(t *testing.T) {
	s := extractSummary("Net Compensation/Net Pay 9,876.50")

	require.NotNil(t, s.GrossPay)
	assert.InDelta(t, 9876.50, *s.GrossPay, 0.001)
}

func TestExtractSummaryEmptyText(t *testing.T) {
	s := extractSummary("no recognizable patterns here")

	assert.Empty(t, s.PayPeriodStartDate)
	assert.Empty(t, s.PayDate)
	assert.Nil(t, s.GrossPay)
	assert.Nil(t, s.NetCompensation)
	assert.Empty(t, s.EmployeeNumber)
}
