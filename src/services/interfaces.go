package services

import (
	"errors"
	"io"

	"github.com/username/caseledger/backend/src/models"
)

// UploadResult is the outcome of processing a single uploaded report: the
// stored summary plus counts from the case rebuild that followed.
type UploadResult struct {
	Summary          models.ReportSummary `json:"summary"`
	TransactionCount int                  `json:"transaction_count"`
	CaseCount        int                  `json:"case_count"`
	DegradedCases    int                  `json:"degraded_cases"`
	Replaced         bool                 `json:"replaced"` // true when a prior upload of the same file was discarded
}

// Common service errors.
var (
	ErrParsingFailed    = errors.New("report parsing failed")
	ErrProcessingFailed = errors.New("case aggregation failed")
	ErrRuleNotFound     = errors.New("calculation rule not found")
	ErrSummaryNotFound  = errors.New("report summary not found")
)

// UploadService is the core report ingestion and query surface.
type UploadService interface {
	ProcessUpload(fileReader io.Reader, source, filename string, filesize int64) (*UploadResult, error)
	RebuildCases() (int, error)
	GetTransactions(sortBy string) ([]models.ChargeTransaction, error)
	GetCases() ([]models.MasterCase, error)
	GetCaseStats() (*models.CaseStats, error)
	GetSummaries() ([]models.ReportSummary, error)
	DeleteSummary(id int64) error
	DeleteAllData() error
	InvalidateCache()
}

// RuleService manages the time-versioned unit-score coefficients.
type RuleService interface {
	ListRules() ([]models.CalcRule, error)
	SaveRule(rule *models.CalcRule) error
	DeleteRule(id int64) error
	EnsureDefaultRule() error
	// Snapshot loads all rules into an in-memory set for one aggregation run.
	Snapshot() (*RuleSet, error)
}
