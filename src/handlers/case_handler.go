package handlers

import (
	"net/http"

	"github.com/username/caseledger/backend/src/logger"
	"github.com/username/caseledger/backend/src/services"
	"github.com/username/caseledger/backend/src/utils"
)

type CaseHandler struct {
	uploadService services.UploadService
}

func NewCaseHandler(service services.UploadService) *CaseHandler {
	return &CaseHandler{
		uploadService: service,
	}
}

// HandleGetCases returns the aggregated master cases, ordered by ticket
// reference.
func (h *CaseHandler) HandleGetCases(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	cases, err := h.uploadService.GetCases()
	if err != nil {
		ctxLogger.Error("Failed to list master cases", "error", err)
		utils.SendJSONError(w, "Failed to retrieve cases", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, cases, http.StatusOK)
}

// HandleGetCaseStats returns counts over the aggregated data set.
func (h *CaseHandler) HandleGetCaseStats(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	stats, err := h.uploadService.GetCaseStats()
	if err != nil {
		ctxLogger.Error("Failed to compute case statistics", "error", err)
		utils.SendJSONError(w, "Failed to retrieve case statistics", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, stats, http.StatusOK)
}

// HandleRebuildCases regenerates the master cases from the stored transactions
// on demand, for example after editing rules outside the rule endpoints.
func (h *CaseHandler) HandleRebuildCases(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	count, err := h.uploadService.RebuildCases()
	if err != nil {
		ctxLogger.Error("Failed to rebuild master cases", "error", err)
		utils.SendJSONError(w, "Failed to rebuild cases", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, map[string]int{"case_count": count}, http.StatusOK)
}
