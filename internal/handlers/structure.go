package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openlms/authoring-backend/internal/logger"
	"github.com/openlms/authoring-backend/internal/services"
	"github.com/openlms/authoring-backend/internal/tree"
	"github.com/openlms/authoring-backend/internal/types"
)

// StructureHandler is the HTTP face of the tree managers: snapshots, loads,
// expand/collapse state, folder-view navigation, and the nine structural
// mutations.
type StructureHandler struct {
	log              *logger.Logger
	structureService services.StructureService
}

func NewStructureHandler(log *logger.Logger, structureService services.StructureService) *StructureHandler {
	return &StructureHandler{
		log:              log.With("handler", "StructureHandler"),
		structureService: structureService,
	}
}

func (h *StructureHandler) manager(c *gin.Context) (*tree.Manager, bool) {
	key, err := treeKey(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_key", err)
		return nil, false
	}
	m, err := h.structureService.Manager(c.Request.Context(), key)
	if err != nil {
		h.log.Error("manager construction failed", "key", key, "error", err)
		respondMapped(c, "load_structure_failed", err)
		return nil, false
	}
	return m, true
}

func (h *StructureHandler) GetSnapshot(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	RespondOK(c, m.Snapshot())
}

func (h *StructureHandler) Reload(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	if err := m.Load(c.Request.Context()); err != nil {
		respondMapped(c, "reload_failed", err)
		return
	}
	RespondOK(c, m.Snapshot())
}

func (h *StructureHandler) Toggle(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	var req struct {
		NodeType string    `json:"node_type" validate:"required,oneof=subject module chapter"`
		ID       uuid.UUID `json:"id" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := validate.Struct(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	switch req.NodeType {
	case "subject":
		m.ToggleSubject(req.ID)
	case "module":
		m.ToggleModule(req.ID)
	case "chapter":
		m.ToggleChapter(req.ID)
	}
	RespondOK(c, m.Snapshot())
}

func (h *StructureHandler) ExpandAll(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	m.ExpandAll()
	RespondOK(c, m.Snapshot())
}

func (h *StructureHandler) CollapseAll(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	m.CollapseAll()
	RespondOK(c, m.Snapshot())
}

// Navigate drills the folder view into a subject, module or chapter node.
func (h *StructureHandler) Navigate(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	var req struct {
		NodeType string    `json:"node_type" validate:"required,oneof=subject module chapter"`
		ID       uuid.UUID `json:"id" validate:"required"`
		Name     string    `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := validate.Struct(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	switch req.NodeType {
	case "subject":
		m.EnterSubject(req.ID, req.Name)
	case "module":
		m.EnterModule(req.ID, req.Name)
	case "chapter":
		m.EnterChapter(req.ID, req.Name)
	}
	RespondOK(c, m.Navigation())
}

func (h *StructureHandler) GoToBreadcrumb(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	var req struct {
		Index int `json:"index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	m.GoToBreadcrumb(req.Index)
	RespondOK(c, m.Navigation())
}

func (h *StructureHandler) ResetNavigation(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	m.ResetNavigation()
	RespondOK(c, m.Navigation())
}

// OpenDripDialog returns the dialog hand-off payload for a chapter node, or
// 404 when drip conditions are off or the chapter is not loaded.
func (h *StructureHandler) OpenDripDialog(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	chapterID, err := pathUUID(c, "chapter_id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	dialog, ok := m.OpenDripDialog(chapterID)
	if !ok {
		RespondError(c, http.StatusNotFound, "drip_dialog_unavailable", nil)
		return
	}
	RespondOK(c, dialog)
}

// ---- structural mutations ----
//
// Wire DTOs carry offering visibility as a comma-joined id string; the
// handler splits it before the request reaches the tree manager.

type subjectBody struct {
	Name              string `json:"name" validate:"required"`
	Code              string `json:"code"`
	Index             int    `json:"index"`
	PackageSessionIDs string `json:"package_session_ids"`
}

type moduleBody struct {
	SubjectID   uuid.UUID `json:"subject_id"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
	Index       int       `json:"index"`
}

type chapterBody struct {
	ModuleID          uuid.UUID `json:"module_id"`
	Name              string    `json:"name" validate:"required"`
	Description       string    `json:"description"`
	Index             int       `json:"index"`
	PackageSessionIDs string    `json:"package_session_ids"`
}

func bindMutation(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return false
	}
	if err := validate.Struct(req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return false
	}
	return true
}

func (h *StructureHandler) respondAfterMutation(c *gin.Context, m *tree.Manager, err error) {
	if err != nil {
		respondMapped(c, "mutation_failed", err)
		return
	}
	RespondOK(c, m.Snapshot())
}

func (h *StructureHandler) CreateSubject(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	var body subjectBody
	if !bindMutation(c, &body) {
		return
	}
	ids, err := parseUUIDList(body.PackageSessionIDs)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	h.respondAfterMutation(c, m, m.CreateSubject(c.Request.Context(), types.CreateSubjectRequest{
		Name:              body.Name,
		Code:              body.Code,
		Index:             body.Index,
		PackageSessionIDs: ids,
	}))
}

func (h *StructureHandler) UpdateSubject(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	subjectID, err := pathUUID(c, "subject_id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var body subjectBody
	if !bindMutation(c, &body) {
		return
	}
	ids, err := parseUUIDList(body.PackageSessionIDs)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	h.respondAfterMutation(c, m, m.UpdateSubject(c.Request.Context(), types.UpdateSubjectRequest{
		SubjectID:         subjectID,
		Name:              body.Name,
		Code:              body.Code,
		Index:             body.Index,
		PackageSessionIDs: ids,
	}))
}

func (h *StructureHandler) DeleteSubject(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	subjectID, err := pathUUID(c, "subject_id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	ids, err := parseUUIDList(c.Query("package_session_ids"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	h.respondAfterMutation(c, m, m.DeleteSubject(c.Request.Context(), types.DeleteSubjectRequest{
		SubjectID:         subjectID,
		PackageSessionIDs: ids,
	}))
}

func (h *StructureHandler) CreateModule(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	var body moduleBody
	if !bindMutation(c, &body) {
		return
	}
	h.respondAfterMutation(c, m, m.CreateModule(c.Request.Context(), types.CreateModuleRequest{
		SubjectID:   body.SubjectID,
		Name:        body.Name,
		Description: body.Description,
		Index:       body.Index,
	}))
}

func (h *StructureHandler) UpdateModule(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	moduleID, err := pathUUID(c, "module_id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var body moduleBody
	if !bindMutation(c, &body) {
		return
	}
	h.respondAfterMutation(c, m, m.UpdateModule(c.Request.Context(), types.UpdateModuleRequest{
		ModuleID:    moduleID,
		Name:        body.Name,
		Description: body.Description,
		Index:       body.Index,
	}))
}

func (h *StructureHandler) DeleteModule(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	moduleID, err := pathUUID(c, "module_id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	h.respondAfterMutation(c, m, m.DeleteModule(c.Request.Context(), types.DeleteModuleRequest{
		ModuleID: moduleID,
	}))
}

func (h *StructureHandler) CreateChapter(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	var body chapterBody
	if !bindMutation(c, &body) {
		return
	}
	ids, err := parseUUIDList(body.PackageSessionIDs)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	h.respondAfterMutation(c, m, m.CreateChapter(c.Request.Context(), types.CreateChapterRequest{
		ModuleID:          body.ModuleID,
		Name:              body.Name,
		Description:       body.Description,
		Index:             body.Index,
		PackageSessionIDs: ids,
	}))
}

func (h *StructureHandler) UpdateChapter(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	chapterID, err := pathUUID(c, "chapter_id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var body chapterBody
	if !bindMutation(c, &body) {
		return
	}
	ids, err := parseUUIDList(body.PackageSessionIDs)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	h.respondAfterMutation(c, m, m.UpdateChapter(c.Request.Context(), types.UpdateChapterRequest{
		ChapterID:         chapterID,
		Name:              body.Name,
		Description:       body.Description,
		Index:             body.Index,
		PackageSessionIDs: ids,
	}))
}

func (h *StructureHandler) DeleteChapter(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	chapterID, err := pathUUID(c, "chapter_id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	ids, err := parseUUIDList(c.Query("package_session_ids"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	h.respondAfterMutation(c, m, m.DeleteChapter(c.Request.Context(), types.DeleteChapterRequest{
		ChapterID:         chapterID,
		PackageSessionIDs: ids,
	}))
}
