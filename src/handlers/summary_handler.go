package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/username/caseledger/backend/src/logger"
	"github.com/username/caseledger/backend/src/services"
	"github.com/username/caseledger/backend/src/utils"
)

type SummaryHandler struct {
	uploadService services.UploadService
}

func NewSummaryHandler(service services.UploadService) *SummaryHandler {
	return &SummaryHandler{
		uploadService: service,
	}
}

// HandleGetSummaries lists every uploaded report summary.
func (h *SummaryHandler) HandleGetSummaries(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	summaries, err := h.uploadService.GetSummaries()
	if err != nil {
		ctxLogger.Error("Failed to list report summaries", "error", err)
		utils.SendJSONError(w, "Failed to retrieve report summaries", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, summaries, http.StatusOK)
}

// HandleDeleteSummary removes one uploaded report and everything derived from
// it, then rebuilds the cases from the remaining data.
func (h *SummaryHandler) HandleDeleteSummary(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Invalid summary id", http.StatusBadRequest)
		return
	}

	if err := h.uploadService.DeleteSummary(id); err != nil {
		if errors.Is(err, services.ErrSummaryNotFound) {
			utils.SendJSONError(w, "Report summary not found", http.StatusNotFound)
			return
		}
		ctxLogger.Error("Failed to delete report summary", "summaryID", id, "error", err)
		utils.SendJSONError(w, "Failed to delete report summary", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, map[string]string{"message": "Report summary deleted"}, http.StatusOK)
}
