package handlers

import (
	"net/http"

	"github.com/username/caseledger/backend/src/logger"
	"github.com/username/caseledger/backend/src/services"
	"github.com/username/caseledger/backend/src/utils"
)

type TransactionHandler struct {
	uploadService services.UploadService
}

func NewTransactionHandler(service services.UploadService) *TransactionHandler {
	return &TransactionHandler{
		uploadService: service,
	}
}

// HandleGetTransactions lists every stored charge transaction. An optional
// sort query parameter picks the order; unknown values fall back to
// ticket_ref.
func (h *TransactionHandler) HandleGetTransactions(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	sortBy := r.URL.Query().Get("sort")
	transactions, err := h.uploadService.GetTransactions(sortBy)
	if err != nil {
		ctxLogger.Error("Failed to list charge transactions", "error", err)
		utils.SendJSONError(w, "Failed to retrieve transactions", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, transactions, http.StatusOK)
}

// HandleDeleteAllData wipes all uploaded data: summaries, transactions, and the
// aggregated cases. Calculation rules are kept.
func (h *TransactionHandler) HandleDeleteAllData(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	if err := h.uploadService.DeleteAllData(); err != nil {
		ctxLogger.Error("Failed to delete all report data", "error", err)
		utils.SendJSONError(w, "Failed to delete report data", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, map[string]string{"message": "All report data deleted"}, http.StatusOK)
}
