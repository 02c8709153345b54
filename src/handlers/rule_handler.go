package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/username/caseledger/backend/src/logger"
	"github.com/username/caseledger/backend/src/models"
	"github.com/username/caseledger/backend/src/security/validation"
	"github.com/username/caseledger/backend/src/services"
	"github.com/username/caseledger/backend/src/utils"
)

type RuleHandler struct {
	ruleService   services.RuleService
	uploadService services.UploadService
}

func NewRuleHandler(ruleService services.RuleService, uploadService services.UploadService) *RuleHandler {
	return &RuleHandler{
		ruleService:   ruleService,
		uploadService: uploadService,
	}
}

// saveRulePayload is the request body for creating or replacing a rule.
type saveRulePayload struct {
	EffectiveDate       string  `json:"effective_date"`
	AnesUnitsMultiplier float64 `json:"anes_units_multiplier"`
	AnesTimeDivisor     float64 `json:"anes_time_divisor"`
	MedUnitsMultiplier  float64 `json:"med_units_multiplier"`
	Description         string  `json:"description"`
}

// HandleGetRules lists the calculation rules, newest effective date first.
func (h *RuleHandler) HandleGetRules(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	rules, err := h.ruleService.ListRules()
	if err != nil {
		ctxLogger.Error("Failed to list calculation rules", "error", err)
		utils.SendJSONError(w, "Failed to retrieve calculation rules", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, rules, http.StatusOK)
}

// HandleSaveRule creates a rule or replaces the one sharing the same effective
// date, then rebuilds the cases so every stored score reflects the change.
func (h *RuleHandler) HandleSaveRule(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	var payload saveRulePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	effectiveDate, err := validation.ValidateDateString(payload.EffectiveDate, "effective_date")
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateFloatRange(payload.AnesUnitsMultiplier, "anes_units_multiplier", 0, 100); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateFloatRange(payload.AnesTimeDivisor, "anes_time_divisor", 0.0001, 10000); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateFloatRange(payload.MedUnitsMultiplier, "med_units_multiplier", 0, 100); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	description := validation.SanitizeText(payload.Description)
	if err := validation.ValidateStringMaxLength(description, validation.MaxDescriptionLength, "description"); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	rule := models.CalcRule{
		EffectiveDate:       effectiveDate,
		AnesUnitsMultiplier: payload.AnesUnitsMultiplier,
		AnesTimeDivisor:     payload.AnesTimeDivisor,
		MedUnitsMultiplier:  payload.MedUnitsMultiplier,
		Description:         description,
	}
	if err := h.ruleService.SaveRule(&rule); err != nil {
		ctxLogger.Error("Failed to save calculation rule", "error", err)
		utils.SendJSONError(w, "Failed to save calculation rule", http.StatusInternalServerError)
		return
	}

	if _, err := h.uploadService.RebuildCases(); err != nil {
		ctxLogger.Error("Rule saved but case rebuild failed", "error", err)
		utils.SendJSONError(w, "Rule saved but recalculation failed", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, rule, http.StatusOK)
}

// HandleDeleteRule removes a rule by id and rebuilds the cases without it.
func (h *RuleHandler) HandleDeleteRule(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Invalid rule id", http.StatusBadRequest)
		return
	}

	if err := h.ruleService.DeleteRule(id); err != nil {
		if errors.Is(err, services.ErrRuleNotFound) {
			utils.SendJSONError(w, "Calculation rule not found", http.StatusNotFound)
			return
		}
		ctxLogger.Error("Failed to delete calculation rule", "ruleID", id, "error", err)
		utils.SendJSONError(w, "Failed to delete calculation rule", http.StatusInternalServerError)
		return
	}

	if _, err := h.uploadService.RebuildCases(); err != nil {
		ctxLogger.Error("Rule deleted but case rebuild failed", "ruleID", id, "error", err)
		utils.SendJSONError(w, "Rule deleted but recalculation failed", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, map[string]string{"message": "Calculation rule deleted"}, http.StatusOK)
}
