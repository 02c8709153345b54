package services

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/caseledger/backend/src/database"
	"github.com/username/caseledger/backend/src/logger"
	"github.com/username/caseledger/backend/src/model"
	"github.com/username/caseledger/backend/src/models"
	"github.com/username/caseledger/backend/src/parsers"
	"github.com/username/caseledger/backend/src/processors"
)

const (
	ckCases                = "res_master_cases"
	ckCaseStats            = "res_case_stats"
	ckSummaries            = "res_report_summaries"
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

type uploadServiceImpl struct {
	caseProcessor processors.CaseProcessor
	ruleService   RuleService
	reportCache   *cache.Cache
}

func NewUploadService(
	caseProcessor processors.CaseProcessor,
	ruleService RuleService,
	reportCache *cache.Cache,
) UploadService {
	return &uploadServiceImpl{
		caseProcessor: caseProcessor,
		ruleService:   ruleService,
		reportCache:   reportCache,
	}
}

// ProcessUpload parses one report file and replaces any earlier upload of the
// same filename. Deleting the old summary, storing the new data, and rebuilding
// the master cases all happen in a single database transaction, so a failed
// upload leaves the previous state untouched.
func (s *uploadServiceImpl) ProcessUpload(fileReader io.Reader, source, filename string, filesize int64) (*UploadResult, error) {
	overallStartTime := time.Now()
	logger.L.Info("ProcessUpload START", "source", source, "filename", filename, "filesize", filesize)

	parser, err := parsers.GetParser(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
	reportData, err := parser.Parse(fileReader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
	reportData.Summary.SourceFile = filename

	ruleSet, err := s.ruleService.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}

	dbTx, err := database.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	replaced := false
	existing, err := model.GetSummaryBySourceFile(dbTx, filename)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("checking for prior upload of %s: %w", filename, err)
	}
	if existing != nil {
		// Transactions cascade with the summary, making re-upload idempotent.
		if _, err := model.DeleteSummary(dbTx, existing.ID); err != nil {
			return nil, fmt.Errorf("replacing prior upload of %s: %w", filename, err)
		}
		replaced = true
		logger.L.Info("Replacing prior upload", "filename", filename, "oldSummaryID", existing.ID)
	}

	summaryID, err := model.InsertSummary(dbTx, &reportData.Summary)
	if err != nil {
		return nil, fmt.Errorf("storing report summary for %s: %w", filename, err)
	}
	reportData.Summary.ID = summaryID

	insertedCount, err := model.InsertChargeTransactions(dbTx, summaryID, reportData.Transactions)
	if err != nil {
		return nil, fmt.Errorf("storing charge transactions for %s: %w", filename, err)
	}

	cases, err := rebuildCasesTx(dbTx, s.caseProcessor, ruleSet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing upload transaction: %w", err)
	}
	s.InvalidateCache()

	degraded := 0
	for i := range cases {
		if cases[i].ScoreDegraded {
			degraded++
		}
	}

	logger.L.Info("ProcessUpload END",
		"filename", filename,
		"transactions", insertedCount,
		"cases", len(cases),
		"replaced", replaced,
		"duration", time.Since(overallStartTime))

	return &UploadResult{
		Summary:          reportData.Summary,
		TransactionCount: insertedCount,
		CaseCount:        len(cases),
		DegradedCases:    degraded,
		Replaced:         replaced,
	}, nil
}

// RebuildCases regenerates the full master case set from the stored
// transactions, outside of any upload. Returns the number of cases built.
func (s *uploadServiceImpl) RebuildCases() (int, error) {
	ruleSet, err := s.ruleService.Snapshot()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}

	dbTx, err := database.DB.Begin()
	if err != nil {
		return 0, fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	cases, err := rebuildCasesTx(dbTx, s.caseProcessor, ruleSet)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}
	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("error committing case rebuild: %w", err)
	}
	s.InvalidateCache()

	logger.L.Info("Master cases rebuilt", "cases", len(cases))
	return len(cases), nil
}

// rebuildCasesTx runs the full aggregation inside the caller's transaction.
func rebuildCasesTx(dbTx model.DBTX, proc processors.CaseProcessor, calc processors.UnitCalculator) ([]models.MasterCase, error) {
	transactions, err := model.FetchAllChargeTransactions(dbTx)
	if err != nil {
		return nil, fmt.Errorf("fetching transactions for aggregation: %w", err)
	}
	cases := proc.Process(transactions, calc)
	if err := model.ReplaceMasterCases(dbTx, cases); err != nil {
		return nil, fmt.Errorf("storing master cases: %w", err)
	}
	return cases, nil
}

func (s *uploadServiceImpl) GetTransactions(sortBy string) ([]models.ChargeTransaction, error) {
	return model.ListChargeTransactions(database.DB, sortBy)
}

func (s *uploadServiceImpl) GetCases() ([]models.MasterCase, error) {
	if cached, found := s.reportCache.Get(ckCases); found {
		return cached.([]models.MasterCase), nil
	}
	cases, err := model.ListMasterCases(database.DB)
	if err != nil {
		return nil, err
	}
	s.reportCache.Set(ckCases, cases, DefaultCacheExpiration)
	return cases, nil
}

func (s *uploadServiceImpl) GetCaseStats() (*models.CaseStats, error) {
	if cached, found := s.reportCache.Get(ckCaseStats); found {
		return cached.(*models.CaseStats), nil
	}
	stats, err := model.GetCaseStats(database.DB)
	if err != nil {
		return nil, err
	}
	s.reportCache.Set(ckCaseStats, stats, DefaultCacheExpiration)
	return stats, nil
}

func (s *uploadServiceImpl) GetSummaries() ([]models.ReportSummary, error) {
	if cached, found := s.reportCache.Get(ckSummaries); found {
		return cached.([]models.ReportSummary), nil
	}
	summaries, err := model.ListSummaries(database.DB)
	if err != nil {
		return nil, err
	}
	s.reportCache.Set(ckSummaries, summaries, DefaultCacheExpiration)
	return summaries, nil
}

// DeleteSummary removes one uploaded report and its transactions, then rebuilds
// the cases from what remains.
func (s *uploadServiceImpl) DeleteSummary(id int64) error {
	ruleSet, err := s.ruleService.Snapshot()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}

	dbTx, err := database.DB.Begin()
	if err != nil {
		return fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	affected, err := model.DeleteSummary(dbTx, id)
	if err != nil {
		return fmt.Errorf("deleting summary %d: %w", id, err)
	}
	if affected == 0 {
		return ErrSummaryNotFound
	}
	if _, err := rebuildCasesTx(dbTx, s.caseProcessor, ruleSet); err != nil {
		return fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("error committing summary deletion: %w", err)
	}
	s.InvalidateCache()

	logger.L.Info("Report summary deleted", "summaryID", id)
	return nil
}

// DeleteAllData clears summaries, transactions, and cases. Rules survive.
func (s *uploadServiceImpl) DeleteAllData() error {
	dbTx, err := database.DB.Begin()
	if err != nil {
		return fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	// Summaries cascade into transactions; cases are rebuilt as an empty set.
	if _, err := dbTx.Exec(`DELETE FROM report_summaries`); err != nil {
		return fmt.Errorf("clearing report summaries: %w", err)
	}
	if err := model.DeleteAllChargeTransactions(dbTx); err != nil {
		return fmt.Errorf("clearing charge transactions: %w", err)
	}
	if err := model.ReplaceMasterCases(dbTx, nil); err != nil {
		return fmt.Errorf("clearing master cases: %w", err)
	}
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("error committing data reset: %w", err)
	}
	s.InvalidateCache()

	logger.L.Info("All report data deleted")
	return nil
}

func (s *uploadServiceImpl) InvalidateCache() {
	s.reportCache.Delete(ckCases)
	s.reportCache.Delete(ckCaseStats)
	s.reportCache.Delete(ckSummaries)
}
