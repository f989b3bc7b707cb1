package types

import "github.com/google/uuid"

// ModuleWithChapters is what the structure provider returns per subject:
// modules with their chapter metadata (no slides yet).
type ModuleWithChapters struct {
	Module   *Module    `json:"module"`
	Chapters []*Chapter `json:"chapters"`
}

// ChapterWithSlides pairs a chapter with its slide detail, fetched one level
// deeper than ModuleWithChapters.
type ChapterWithSlides struct {
	Chapter *Chapter `json:"chapter"`
	Slides  []*Slide `json:"slides"`
}

// Mutation payloads for the structure providers. PackageSessionIDs carries
// the offerings the entity should be visible in; the HTTP layer accepts them
// comma-joined and splits before they reach a repo.

type CreateSubjectRequest struct {
	Name              string      `json:"name" validate:"required"`
	Code              string      `json:"code"`
	Index             int         `json:"index"`
	PackageSessionIDs []uuid.UUID `json:"package_session_ids" validate:"min=1"`
}

type UpdateSubjectRequest struct {
	SubjectID         uuid.UUID   `json:"subject_id" validate:"required"`
	Name              string      `json:"name" validate:"required"`
	Code              string      `json:"code"`
	Index             int         `json:"index"`
	PackageSessionIDs []uuid.UUID `json:"package_session_ids"`
}

type DeleteSubjectRequest struct {
	SubjectID         uuid.UUID   `json:"subject_id" validate:"required"`
	PackageSessionIDs []uuid.UUID `json:"package_session_ids" validate:"min=1"`
}

type CreateModuleRequest struct {
	SubjectID   uuid.UUID `json:"subject_id" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
	Index       int       `json:"index"`
}

type UpdateModuleRequest struct {
	ModuleID    uuid.UUID `json:"module_id" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
	Index       int       `json:"index"`
}

type DeleteModuleRequest struct {
	ModuleID uuid.UUID `json:"module_id" validate:"required"`
}

type CreateChapterRequest struct {
	ModuleID          uuid.UUID   `json:"module_id" validate:"required"`
	Name              string      `json:"name" validate:"required"`
	Description       string      `json:"description"`
	Index             int         `json:"index"`
	PackageSessionIDs []uuid.UUID `json:"package_session_ids" validate:"min=1"`
}

type UpdateChapterRequest struct {
	ChapterID         uuid.UUID   `json:"chapter_id" validate:"required"`
	Name              string      `json:"name" validate:"required"`
	Description       string      `json:"description"`
	Index             int         `json:"index"`
	PackageSessionIDs []uuid.UUID `json:"package_session_ids"`
}

type DeleteChapterRequest struct {
	ChapterID         uuid.UUID   `json:"chapter_id" validate:"required"`
	PackageSessionIDs []uuid.UUID `json:"package_session_ids" validate:"min=1"`
}
