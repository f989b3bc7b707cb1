package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openlms/authoring-backend/internal/drip"
	"github.com/openlms/authoring-backend/internal/logger"
	"github.com/openlms/authoring-backend/internal/services"
)

type DripHandler struct {
	log              *logger.Logger
	settingsService  services.SettingsService
	structureService services.StructureService
}

func NewDripHandler(log *logger.Logger, settingsService services.SettingsService, structureService services.StructureService) *DripHandler {
	return &DripHandler{
		log:              log.With("handler", "DripHandler"),
		settingsService:  settingsService,
		structureService: structureService,
	}
}

// GetChapterConditions resolves what governs one chapter: the package-level
// override when present, the chapter's own conditions otherwise.
func (h *DripHandler) GetChapterConditions(c *gin.Context) {
	courseID, err := pathUUID(c, "course_id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	chapterID, err := pathUUID(c, "chapter_id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	eff, err := h.settingsService.ResolveChapterConditions(c.Request.Context(), courseID, chapterID)
	if err != nil {
		respondMapped(c, "resolve_conditions_failed", err)
		return
	}
	RespondOK(c, gin.H{
		"source":     eff.Source,
		"conditions": eff.Conditions,
		"editable":   eff.Editable(),
	})
}

// UpsertCondition runs the drip editing transaction. editing_id "new" creates
// a fresh condition; an existing id replaces that condition in place.
func (h *DripHandler) UpsertCondition(c *gin.Context) {
	courseID, err := pathUUID(c, "course_id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		Condition drip.Condition `json:"condition"`
		EditingID string         `json:"editing_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if req.EditingID == "" {
		req.EditingID = drip.EditingIDNew
	}
	conditions, err := h.settingsService.UpsertCondition(c.Request.Context(), courseID, req.Condition, req.EditingID)
	if err != nil {
		respondMapped(c, "upsert_condition_failed", err)
		return
	}
	h.structureService.RefreshConditions(c.Request.Context(), courseID)
	RespondOK(c, gin.H{"conditions": conditions})
}

func (h *DripHandler) RemoveCondition(c *gin.Context) {
	courseID, err := pathUUID(c, "course_id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	conditionID := c.Param("condition_id")
	conditions, err := h.settingsService.RemoveCondition(c.Request.Context(), courseID, conditionID)
	if err != nil {
		respondMapped(c, "remove_condition_failed", err)
		return
	}
	h.structureService.RefreshConditions(c.Request.Context(), courseID)
	RespondOK(c, gin.H{"conditions": conditions})
}

// RuleDefaults hands the client the starting parameters for a rule type, the
// same values applied when an editor switches a rule between types.
func (h *DripHandler) RuleDefaults(c *gin.Context) {
	ruleType := drip.RuleType(c.Param("rule_type"))
	switch ruleType {
	case drip.RuleDateBased, drip.RuleCompletionBased, drip.RulePrerequisite, drip.RuleSequential:
	default:
		RespondError(c, http.StatusBadRequest, "unknown_rule_type", fmt.Errorf("unknown rule type %q", ruleType))
		return
	}
	RespondOK(c, gin.H{"rule": drip.Rule{Type: ruleType, Params: drip.DefaultParams(ruleType, time.Now())}})
}

// EvaluateChapter answers whether a chapter is unlocked for the progress
// snapshot in the request body. Used by the authoring preview.
func (h *DripHandler) EvaluateChapter(c *gin.Context) {
	courseID, err := pathUUID(c, "course_id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	chapterID, err := pathUUID(c, "chapter_id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var snap drip.ProgressSnapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	outcome, err := h.settingsService.EvaluateChapter(c.Request.Context(), courseID, chapterID, snap)
	if err != nil {
		respondMapped(c, "evaluate_failed", err)
		return
	}
	RespondOK(c, outcome)
}
