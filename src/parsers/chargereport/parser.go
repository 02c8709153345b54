package chargereport

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/username/caseledger/backend/src/logger"
	"github.com/username/caseledger/backend/src/models"
	"github.com/username/caseledger/backend/src/security/validation"
)

// numericTailLen is the fixed number of numeric-or-empty values every accepted
// data line carries: split percent, anesthesia minutes, anesthesia base units,
// medical base units, other units, charge amount, and the six pooled/group
// variants. Short service-type variants simply leave trailing fields empty.
const numericTailLen = 12

// maxTimeTokens and maxDateTokens bound the optional time and date blocks.
const (
	maxTimeTokens = 2
	maxDateTokens = 2
)

// ChargeReportParser parses the plain-text export of a monthly compensation
// report: a pay-period summary section followed by one charge transaction per
// visual line.
type ChargeReportParser struct{}

// NewParser creates a new instance of the ChargeReportParser.
func NewParser() *ChargeReportParser {
	return &ChargeReportParser{}
}

// Parse reads the report text line by line. Lines that open with an 8-digit
// ticket reference become charge transactions; everything else feeds the
// summary pattern scan.
func (p *ChargeReportParser) Parse(file io.Reader) (*models.ReportData, error) {
	var summaryText strings.Builder
	var transactions []models.ChargeTransaction

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	rejected := 0
	for scanner.Scan() {
		lineNo++
		line := validation.StripUnprintable(scanner.Text())

		tx, ok := p.ParseLine(line)
		if ok {
			transactions = append(transactions, *tx)
			continue
		}

		rejected++
		summaryText.WriteString(line)
		summaryText.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("chargereport parser: failed reading report text: %w", err)
	}

	summary := extractSummary(summaryText.String())

	logger.L.Info("Report text parsed",
		"lines", lineNo,
		"transactions", len(transactions),
		"nonDataLines", rejected)

	return &models.ReportData{
		Summary:      summary,
		Transactions: transactions,
	}, nil
}

// ParseLine converts one visual line into a charge transaction. It returns
// ok=false for anything that is not a data line: a data line starts with
// exactly 8 digits followed by whitespace. Field-level failures inside an
// accepted line degrade to empty fields; they never abort the line.
//
// Consumption is strictly left to right over whitespace-delimited tokens:
//
//	ticket [note] <name tokens, discarded> site serv [cpt] paycode
//	[time [time]] [obpos] [date [date]] <12 numeric-or-empty tail values>
func (p *ChargeReportParser) ParseLine(line string) (*models.ChargeTransaction, bool) {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 9 {
		return nil, false
	}
	if !isTicketRef(trimmed[:8]) {
		return nil, false
	}
	if trimmed[8] != ' ' && trimmed[8] != '\t' {
		return nil, false
	}

	tx := &models.ChargeTransaction{TicketRef: trimmed[:8]}
	cur := newTokenCursor(strings.Fields(trimmed[9:]))

	// Note is a lookahead, never an unconditional consumption: a one-letter
	// token outside the note alphabet is the start of the patient name.
	if isNoteCode(cur.peek()) {
		tx.Note = cur.next()
	}

	// Everything between the note and the site+service marker is the patient
	// name. It is discarded here and never stored anywhere downstream.
	markerStart, found := p.scanToServiceMarker(cur, tx)
	if !found {
		// Ticket line with no recognizable marker: keep the bare record so the
		// encounter still counts, with every downstream field empty.
		logger.L.Warn("Data line missing site/service marker", "ticketRef", tx.TicketRef)
		tx.RawLine = tx.TicketRef
		return tx, true
	}

	tx.RawLine = redactedLine(tx, cur.toks[markerStart:])

	if isCPTCode(cur.peek()) {
		tx.CPTCode = cur.next()
	}
	if !cur.done() && !isTimeToken(cur.peek()) {
		tx.PayCode = cur.next()
	}

	times := make([]string, 0, maxTimeTokens)
	for len(times) < maxTimeTokens && isTimeToken(cur.peek()) {
		times = append(times, cur.next())
	}
	if len(times) > 0 {
		tx.StartTime = times[0]
	}
	if len(times) > 1 {
		tx.StopTime = times[1]
	}

	// Obstetric lines carry a single-character case position between the times
	// and the dates. Consume it so the date block and the numeric tail stay
	// aligned.
	if isOBPosToken(cur.peek()) {
		tx.OBCasePos = cur.next()
	}

	dates := make([]string, 0, maxDateTokens)
	for len(dates) < maxDateTokens && isDateToken(cur.peek()) {
		dates = append(dates, cur.next())
	}
	if len(dates) > 0 {
		tx.DateOfService = dates[0]
	}
	if len(dates) > 1 {
		tx.DateOfPost = dates[1]
	}

	tx.SetNumericTail(consumeNumericTail(cur))

	return tx, true
}

// scanToServiceMarker advances the cursor past discarded name tokens until it
// finds the site+service marker, consuming the marker itself. The marker is
// either a 2-letter site token followed by a known service token, or a single
// 4-character token carrying both halves (PDF extraction sometimes joins them,
// dropping the space between site and service). Returns the token index where
// the marker begins so the redacted line can start there.
func (p *ChargeReportParser) scanToServiceMarker(cur *tokenCursor, tx *models.ChargeTransaction) (int, bool) {
	for !cur.done() {
		tok := cur.peek()

		if isSiteCode(tok) {
			rest := cur.rest()
			if len(rest) > 1 && isServiceCode(rest[1]) {
				start := cur.pos
				tx.SiteCode = cur.next()
				tx.ServType = cur.next()
				return start, true
			}
		}

		if len(tok) == 4 && isSiteCode(tok[:2]) && isServiceCode(tok[2:]) {
			start := cur.pos
			cur.next()
			tx.SiteCode = tok[:2]
			tx.ServType = tok[2:]
			return start, true
		}

		cur.next()
	}
	return 0, false
}

// consumeNumericTail builds the fixed 12-value tail. The first value is the
// split percent, present only when the first post-date numeric token carries a
// decimal point; a bare integer there is already the anesthesia minutes. Every
// remaining field consumes exactly one token whether or not it validates, so a
// single malformed value never shifts the fields after it.
func consumeNumericTail(cur *tokenCursor) []string {
	tail := make([]string, 0, numericTailLen)

	if isDecimalToken(cur.peek()) {
		tail = append(tail, normalizeNumber(cur.next()))
	} else {
		tail = append(tail, "")
	}

	for len(tail) < numericTailLen {
		if cur.done() {
			tail = append(tail, "")
			continue
		}
		tok := cur.next()
		if isNumericToken(tok) {
			tail = append(tail, normalizeNumber(tok))
		} else {
			tail = append(tail, "")
		}
	}
	return tail
}

// redactedLine rebuilds the stored reference line from the ticket, note, and
// everything from the site/service marker on. The discarded name tokens are
// gone by construction.
func redactedLine(tx *models.ChargeTransaction, fromMarker []string) string {
	parts := make([]string, 0, len(fromMarker)+2)
	parts = append(parts, tx.TicketRef)
	if tx.Note != "" {
		parts = append(parts, tx.Note)
	}
	parts = append(parts, fromMarker...)
	return strings.Join(parts, " ")
}
