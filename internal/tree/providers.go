package tree

import (
	"context"

	"github.com/google/uuid"

	"github.com/openlms/authoring-backend/internal/types"
)

// StructureProvider serves read-only structure queries. All calls are
// idempotent and side-effect free.
type StructureProvider interface {
	GetSubjects(ctx context.Context, courseID, sessionID, levelID uuid.UUID) ([]*types.Subject, error)
	GetModulesWithChapters(ctx context.Context, subjectID, packageSessionID uuid.UUID) ([]*types.ModuleWithChapters, error)
	GetChaptersWithSlides(ctx context.Context, moduleID, packageSessionID uuid.UUID) ([]*types.ChapterWithSlides, error)
	GetDirectSlides(ctx context.Context, packageSessionID uuid.UUID) ([]*types.Slide, error)
}

// MutationProvider performs the structural writes. Single call, single
// entity; there are no partial-success semantics.
type MutationProvider interface {
	CreateSubject(ctx context.Context, req types.CreateSubjectRequest) error
	UpdateSubject(ctx context.Context, req types.UpdateSubjectRequest) error
	DeleteSubject(ctx context.Context, req types.DeleteSubjectRequest) error
	CreateModule(ctx context.Context, req types.CreateModuleRequest) error
	UpdateModule(ctx context.Context, req types.UpdateModuleRequest) error
	DeleteModule(ctx context.Context, req types.DeleteModuleRequest) error
	CreateChapter(ctx context.Context, req types.CreateChapterRequest) error
	UpdateChapter(ctx context.Context, req types.UpdateChapterRequest) error
	DeleteChapter(ctx context.Context, req types.DeleteChapterRequest) error
}

// SessionResolver looks up the package session backing a (course, session,
// level) triple. Absence is normal, not an error: it returns uuid.Nil and no
// error when the triple has no offering.
type SessionResolver interface {
	GetPackageSessionID(ctx context.Context, courseID, sessionID, levelID uuid.UUID) (uuid.UUID, error)
}
