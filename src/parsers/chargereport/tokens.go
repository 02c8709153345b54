package chargereport

import (
	"regexp"
	"strconv"
	"strings"
)

// Token classification for whitespace-delimited report tokens. Report columns
// are not reliably aligned, so downstream parsing leans entirely on these
// predicates to decide what a token is.

// noteAlphabet is the fixed set of single-character note codes the billing
// system emits. Anything else in note position is the start of a patient name.
const noteAlphabet = "SBMDZ"

var (
	timeRegex = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
	dateRegex = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2}$`)
	// Numbers may carry thousands separators, e.g. "1,240.00".
	numberRegex = regexp.MustCompile(`^-?\d{1,3}(,\d{3})*(\.\d+)?$|^-?\d+(\.\d+)?$`)
)

// serviceCodes are the known 2-letter service type markers: anesthesia,
// medical direction, and modifier lines.
var serviceCodes = map[string]bool{
	"An": true,
	"Me": true,
	"Mo": true,
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isTicketRef reports whether a token is an 8-digit encounter ticket reference.
func isTicketRef(tok string) bool {
	return len(tok) == 8 && allDigits(tok)
}

// isNoteCode reports whether a token is a single character from the note alphabet.
func isNoteCode(tok string) bool {
	return len(tok) == 1 && strings.ContainsRune(noteAlphabet, rune(tok[0]))
}

// isSiteCode reports whether a token looks like a 2-letter site code.
func isSiteCode(tok string) bool {
	if len(tok) != 2 {
		return false
	}
	for _, r := range tok {
		if !('A' <= r && r <= 'Z' || 'a' <= r && r <= 'z') {
			return false
		}
	}
	return true
}

// isServiceCode reports whether a token is a known 2-letter service type.
func isServiceCode(tok string) bool {
	return serviceCodes[tok]
}

// isCPTCode reports whether a token is a 5-digit procedure code.
func isCPTCode(tok string) bool {
	return len(tok) == 5 && allDigits(tok)
}

// isTimeToken reports whether a token matches H:MM or HH:MM.
func isTimeToken(tok string) bool {
	return timeRegex.MatchString(tok)
}

// isDateToken reports whether a token matches the report's M/D/YY date format.
func isDateToken(tok string) bool {
	return dateRegex.MatchString(tok)
}

// isOBPosToken reports whether a token is an OB case position indicator. The
// reports print it as a single character (L, R, S, P) between the time and
// date columns on obstetric lines.
func isOBPosToken(tok string) bool {
	return len(tok) == 1 && !isDateToken(tok)
}

// isNumericToken reports whether a token parses as a number once thousands
// separators are stripped.
func isNumericToken(tok string) bool {
	if !numberRegex.MatchString(tok) {
		return false
	}
	_, err := strconv.ParseFloat(normalizeNumber(tok), 64)
	return err == nil
}

// isDecimalToken reports whether a token is numeric and carries a decimal
// point. The reports omit the split-percent column with no placeholder when it
// does not apply; the decimal point is the only signal that distinguishes a
// split percentage from a bare minutes count.
func isDecimalToken(tok string) bool {
	return strings.Contains(tok, ".") && isNumericToken(tok)
}

// normalizeNumber strips thousands separators so the value round-trips through
// strconv.
func normalizeNumber(tok string) string {
	return strings.ReplaceAll(tok, ",", "")
}
