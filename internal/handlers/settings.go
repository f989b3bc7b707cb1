package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openlms/authoring-backend/internal/logger"
	"github.com/openlms/authoring-backend/internal/services"
	"github.com/openlms/authoring-backend/internal/types"
)

type SettingsHandler struct {
	log              *logger.Logger
	settingsService  services.SettingsService
	structureService services.StructureService
}

func NewSettingsHandler(log *logger.Logger, settingsService services.SettingsService, structureService services.StructureService) *SettingsHandler {
	return &SettingsHandler{
		log:              log.With("handler", "SettingsHandler"),
		settingsService:  settingsService,
		structureService: structureService,
	}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	courseID, err := pathUUID(c, "course_id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	settings, err := h.settingsService.Get(c.Request.Context(), courseID)
	if err != nil {
		respondMapped(c, "load_settings_failed", err)
		return
	}
	RespondOK(c, settings)
}

// Save replaces the whole settings document and pushes the new state into
// any live tree managers for the course.
func (h *SettingsHandler) Save(c *gin.Context) {
	courseID, err := pathUUID(c, "course_id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var settings types.CourseSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.settingsService.Save(c.Request.Context(), courseID, &settings); err != nil {
		respondMapped(c, "save_settings_failed", err)
		return
	}
	h.structureService.RefreshSettings(c.Request.Context(), courseID)
	RespondOK(c, settings)
}
