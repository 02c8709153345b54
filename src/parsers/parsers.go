package parsers

import (
	"fmt"
	"io"

	"github.com/username/caseledger/backend/src/models"
	"github.com/username/caseledger/backend/src/parsers/chargereport"
)

// Parser converts one uploaded report file into structured report data.
// Implementations receive the plain-text export of a report (one string per
// visual line) produced by the upstream extraction step.
type Parser interface {
	Parse(file io.Reader) (*models.ReportData, error)
}

// GetParser returns the parser registered for a given report source.
func GetParser(source string) (Parser, error) {
	switch source {
	case "chargereport":
		return chargereport.NewParser(), nil
	default:
		return nil, fmt.Errorf("unsupported report source: %q", source)
	}
}
