package processors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/caseledger/backend/src/models"
)

// fixedCalculator scores every case with a constant, keeping these tests
// focused on grouping rather than coefficient resolution.
type fixedCalculator struct {
	score float64
}

func (c fixedCalculator) Score(_ time.Time, _, _, _ float64) float64 {
	return c.score
}

// recordingCalculator captures what the processor passes to the calculator.
type recordingCalculator struct {
	date        time.Time
	anesUnits   float64
	anesMinutes float64
	medUnits    float64
}

func (c *recordingCalculator) Score(date time.Time, anesUnits, anesMinutes, medUnits float64) float64 {
	c.date = date
	c.anesUnits = anesUnits
	c.anesMinutes = anesMinutes
	c.medUnits = medUnits
	return 1.0
}

func tx(ticket, date, cpt, start, stop, anesMin, anesUnits, medUnits, otherUnits string) models.ChargeTransaction {
	return models.ChargeTransaction{
		TicketRef:     ticket,
		DateOfService: date,
		CPTCode:       cpt,
		StartTime:     start,
		StopTime:      stop,
		AnesTimeMin:   anesMin,
		AnesBaseUnits: anesUnits,
		MedBaseUnits:  medUnits,
		OtherUnits:    otherUnits,
	}
}

func TestProcessGroupsByTicket(t *testing.T) {
	p := NewCaseProcessor()
	cases := p.Process([]models.ChargeTransaction{
		tx("11111111", "5/12/25", "00840", "7:30", "9:45", "135", "8.00", "0", "0"),
		tx("11111111", "5/12/25", "00840", "7:30", "9:45", "15", "0", "2.50", "0"),
		tx("22222222", "5/13/25", "00100", "8:00", "8:45", "45", "5.00", "0", "1.00"),
	}, fixedCalculator{score: 3.5})

	require.Len(t, cases, 2)
	assert.Equal(t, "11111111", cases[0].TicketRef)
	assert.Equal(t, "22222222", cases[1].TicketRef)

	first := cases[0]
	assert.InDelta(t, 150.0, first.TotalAnesTime, 0.001)
	assert.InDelta(t, 8.0, first.TotalAnesBaseUnits, 0.001)
	assert.InDelta(t, 2.5, first.TotalMedBaseUnits, 0.001)
	assert.Equal(t, 3.5, first.UnitScore)
	assert.False(t, first.ScoreDegraded)
}

func TestProcessIsIdempotent(t *testing.T) {
	input := []models.ChargeTransaction{
		tx("33333333", "5/12/25", "00840", "7:30", "9:45", "135", "8.00", "0", "0"),
		tx("11111111", "5/13/25", "00100", "8:00", "8:45", "45", "5.00", "0", "0"),
		tx("22222222", "5/14/25", "00300", "9:00", "9:30", "30", "4.00", "0", "0"),
	}
	p := NewCaseProcessor()

	first := p.Process(input, fixedCalculator{score: 1})
	second := p.Process(input, fixedCalculator{score: 1})

	assert.Equal(t, first, second)
}

func TestProcessSkipsUnusableTickets(t *testing.T) {
	p := NewCaseProcessor()
	cases := p.Process([]models.ChargeTransaction{
		tx("", "5/12/25", "00840", "", "", "10", "0", "0", "0"),
		tx("nan", "5/12/25", "00840", "", "", "10", "0", "0", "0"),
		tx("None", "5/12/25", "00840", "", "", "10", "0", "0", "0"),
		tx("null", "5/12/25", "00840", "", "", "10", "0", "0", "0"),
		tx("44444444", "5/12/25", "00840", "", "", "10", "0", "0", "0"),
	}, fixedCalculator{})

	require.Len(t, cases, 1)
	assert.Equal(t, "44444444", cases[0].TicketRef)
}

func TestProcessUnparseableAmountsCountAsZero(t *testing.T) {
	p := NewCaseProcessor()
	cases := p.Process([]models.ChargeTransaction{
		tx("55555555", "5/12/25", "00840", "", "", "abc", "8.00", "", "1.5"),
	}, fixedCalculator{})

	require.Len(t, cases, 1)
	assert.Zero(t, cases[0].TotalAnesTime)
	assert.InDelta(t, 8.0, cases[0].TotalAnesBaseUnits, 0.001)
	assert.Zero(t, cases[0].TotalMedBaseUnits)
	assert.InDelta(t, 1.5, cases[0].TotalOtherUnits, 0.001)
}

func TestProcessUsesEarliestValidDate(t *testing.T) {
	calc := &recordingCalculator{}
	p := NewCaseProcessor()
	cases := p.Process([]models.ChargeTransaction{
		tx("66666666", "1/2/25", "00840", "", "", "0", "0", "0", "0"),
		tx("66666666", "12/30/24", "00840", "", "", "0", "0", "0", "0"),
		tx("66666666", "not-a-date", "00840", "", "", "0", "0", "0", "0"),
	}, calc)

	require.Len(t, cases, 1)
	assert.Equal(t, "2024-12-30", cases[0].DateOfService)
	assert.Equal(t, time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), calc.date)
}

func TestProcessCombinesCPTCodesSortedAndDeduped(t *testing.T) {
	p := NewCaseProcessor()
	cases := p.Process([]models.ChargeTransaction{
		tx("77777777", "5/12/25", "00840", "", "", "0", "0", "0", "0"),
		tx("77777777", "5/12/25", "00100", "", "", "0", "0", "0", "0"),
		tx("77777777", "5/12/25", "00840", "", "", "0", "0", "0", "0"),
	}, fixedCalculator{})

	require.Len(t, cases, 1)
	assert.Equal(t, "00100, 00840", cases[0].CPTCodes)
}

func TestProcessTimeBounds(t *testing.T) {
	p := NewCaseProcessor()
	cases := p.Process([]models.ChargeTransaction{
		tx("88888888", "5/12/25", "00840", "09:15", "10:00", "0", "0", "0", "0"),
		tx("88888888", "5/12/25", "00840", "07:30", "12:45", "0", "0", "0", "0"),
	}, fixedCalculator{})

	require.Len(t, cases, 1)
	assert.Equal(t, "07:30", cases[0].InitialStartTime)
	assert.Equal(t, "12:45", cases[0].LatestStopTime)
}

func TestProcessDegradesScoreWithoutValidDate(t *testing.T) {
	p := NewCaseProcessor()
	cases := p.Process([]models.ChargeTransaction{
		tx("99999999", "", "00840", "", "", "60", "6.00", "0", "0"),
	}, fixedCalculator{score: 42})

	require.Len(t, cases, 1)
	assert.True(t, cases[0].ScoreDegraded)
	assert.Zero(t, cases[0].UnitScore, "score stays zero when no rule can be resolved")
	assert.Empty(t, cases[0].DateOfService)
	assert.InDelta(t, 60.0, cases[0].TotalAnesTime, 0.001, "totals are still aggregated")
}

func TestProcessPassesTotalsToCalculator(t *testing.T) {
	calc := &recordingCalculator{}
	p := NewCaseProcessor()
	p.Process([]models.ChargeTransaction{
		tx("12121212", "5/12/25", "00840", "", "", "120", "10.00", "5.00", "0"),
	}, calc)

	assert.InDelta(t, 10.0, calc.anesUnits, 0.001)
	assert.InDelta(t, 120.0, calc.anesMinutes, 0.001)
	assert.InDelta(t, 5.0, calc.medUnits, 0.001)
}
