package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openlms/authoring-backend/internal/logger"
	"github.com/openlms/authoring-backend/internal/repos"
	"github.com/openlms/authoring-backend/internal/tree"
	"github.com/openlms/authoring-backend/internal/types"
)

// StructureService hands out tree managers, one per (course, session, level)
// editing key. Construction resolves the course's structure depth into a
// shape, folds in the settings document, and runs the first load; afterwards
// callers drive the manager directly.
type StructureService interface {
	Manager(ctx context.Context, key tree.Key) (*tree.Manager, error)
	// Evict drops a cached manager, forcing the next request to rebuild it.
	Evict(key tree.Key)
	// RefreshConditions pushes the current condition list into a live
	// manager after a drip save, without reloading its tree.
	RefreshConditions(ctx context.Context, courseID uuid.UUID)
	// RefreshSettings re-applies the whole settings document to live
	// managers after a settings save. No reload either.
	RefreshSettings(ctx context.Context, courseID uuid.UUID)
}

type structureService struct {
	db       *gorm.DB
	log      *logger.Logger
	sessions repos.PackageSessionRepo
	settings SettingsService
	provider *providerAdapter

	mu       sync.Mutex
	managers map[tree.Key]*tree.Manager
}

func NewStructureService(
	db *gorm.DB,
	baseLog *logger.Logger,
	sessionRepo repos.PackageSessionRepo,
	subjectRepo repos.SubjectRepo,
	moduleRepo repos.ModuleRepo,
	chapterRepo repos.ChapterRepo,
	slideRepo repos.SlideRepo,
	settingsService SettingsService,
) StructureService {
	return &structureService{
		db:       db,
		log:      baseLog.With("service", "StructureService"),
		sessions: sessionRepo,
		settings: settingsService,
		provider: &providerAdapter{
			sessions: sessionRepo,
			subjects: subjectRepo,
			modules:  moduleRepo,
			chapters: chapterRepo,
			slides:   slideRepo,
		},
		managers: map[tree.Key]*tree.Manager{},
	}
}

func (s *structureService) Manager(ctx context.Context, key tree.Key) (*tree.Manager, error) {
	s.mu.Lock()
	if m, ok := s.managers[key]; ok {
		s.mu.Unlock()
		return m, nil
	}
	s.mu.Unlock()

	depth, err := s.sessions.GetDepth(ctx, nil, key.CourseID, key.SessionID, key.LevelID)
	if err != nil {
		return nil, fmt.Errorf("resolve course depth: %w", err)
	}
	shape, err := tree.ShapeForDepth(depth)
	if err != nil {
		return nil, err
	}

	m := tree.New(tree.Deps{
		Log:       s.log,
		Structure: s.provider,
		Mutations: s.provider,
		Resolver:  s.provider,
	}, key, shape)

	if settings, err := s.settings.Get(ctx, key.CourseID); err != nil {
		// A missing settings document must not block the tree.
		s.log.Warn("course settings unavailable, using defaults", "course_id", key.CourseID, "error", err)
	} else {
		m.ApplySettings(*settings)
	}

	if err := m.Load(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.managers[key]; ok {
		return existing, nil
	}
	s.managers[key] = m
	return m, nil
}

func (s *structureService) Evict(key tree.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.managers, key)
}

func (s *structureService) RefreshConditions(ctx context.Context, courseID uuid.UUID) {
	settings, err := s.settings.Get(ctx, courseID)
	if err != nil {
		s.log.Warn("condition refresh skipped, settings unavailable", "course_id", courseID, "error", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, m := range s.managers {
		if key.CourseID == courseID {
			m.SetConditions(settings.DripConditions.Conditions)
		}
	}
}

func (s *structureService) RefreshSettings(ctx context.Context, courseID uuid.UUID) {
	settings, err := s.settings.Get(ctx, courseID)
	if err != nil {
		s.log.Warn("settings refresh skipped, settings unavailable", "course_id", courseID, "error", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, m := range s.managers {
		if key.CourseID == courseID {
			m.ApplySettings(*settings)
		}
	}
}

// providerAdapter maps the tree's provider contracts onto the gorm repos.
type providerAdapter struct {
	sessions repos.PackageSessionRepo
	subjects repos.SubjectRepo
	modules  repos.ModuleRepo
	chapters repos.ChapterRepo
	slides   repos.SlideRepo
}

func (a *providerAdapter) GetPackageSessionID(ctx context.Context, courseID, sessionID, levelID uuid.UUID) (uuid.UUID, error) {
	return a.sessions.Resolve(ctx, nil, courseID, sessionID, levelID)
}

func (a *providerAdapter) GetSubjects(ctx context.Context, courseID, sessionID, levelID uuid.UUID) ([]*types.Subject, error) {
	return a.subjects.GetForOffering(ctx, nil, courseID, sessionID, levelID)
}

func (a *providerAdapter) GetModulesWithChapters(ctx context.Context, subjectID, packageSessionID uuid.UUID) ([]*types.ModuleWithChapters, error) {
	return a.modules.GetWithChapters(ctx, nil, subjectID, packageSessionID)
}

func (a *providerAdapter) GetChaptersWithSlides(ctx context.Context, moduleID, packageSessionID uuid.UUID) ([]*types.ChapterWithSlides, error) {
	return a.chapters.GetWithSlides(ctx, nil, moduleID, packageSessionID)
}

func (a *providerAdapter) GetDirectSlides(ctx context.Context, packageSessionID uuid.UUID) ([]*types.Slide, error) {
	return a.slides.GetDirect(ctx, nil, packageSessionID)
}

func (a *providerAdapter) CreateSubject(ctx context.Context, req types.CreateSubjectRequest) error {
	subject := &types.Subject{Name: req.Name, Code: req.Code, Index: req.Index}
	_, err := a.subjects.Create(ctx, nil, subject, req.PackageSessionIDs)
	return err
}

func (a *providerAdapter) UpdateSubject(ctx context.Context, req types.UpdateSubjectRequest) error {
	subject := &types.Subject{ID: req.SubjectID, Name: req.Name, Code: req.Code, Index: req.Index}
	return a.subjects.Update(ctx, nil, subject, req.PackageSessionIDs)
}

func (a *providerAdapter) DeleteSubject(ctx context.Context, req types.DeleteSubjectRequest) error {
	return a.subjects.Delete(ctx, nil, req.SubjectID, req.PackageSessionIDs)
}

func (a *providerAdapter) CreateModule(ctx context.Context, req types.CreateModuleRequest) error {
	module := &types.Module{SubjectID: req.SubjectID, Name: req.Name, Description: req.Description, Index: req.Index}
	_, err := a.modules.Create(ctx, nil, module)
	return err
}

func (a *providerAdapter) UpdateModule(ctx context.Context, req types.UpdateModuleRequest) error {
	module := &types.Module{ID: req.ModuleID, Name: req.Name, Description: req.Description, Index: req.Index}
	return a.modules.Update(ctx, nil, module)
}

func (a *providerAdapter) DeleteModule(ctx context.Context, req types.DeleteModuleRequest) error {
	return a.modules.Delete(ctx, nil, req.ModuleID)
}

func (a *providerAdapter) CreateChapter(ctx context.Context, req types.CreateChapterRequest) error {
	chapter := &types.Chapter{ModuleID: req.ModuleID, Name: req.Name, Description: req.Description, Index: req.Index}
	_, err := a.chapters.Create(ctx, nil, chapter, req.PackageSessionIDs)
	return err
}

func (a *providerAdapter) UpdateChapter(ctx context.Context, req types.UpdateChapterRequest) error {
	chapter := &types.Chapter{ID: req.ChapterID, Name: req.Name, Description: req.Description, Index: req.Index}
	return a.chapters.Update(ctx, nil, chapter, req.PackageSessionIDs)
}

func (a *providerAdapter) DeleteChapter(ctx context.Context, req types.DeleteChapterRequest) error {
	return a.chapters.Delete(ctx, nil, req.ChapterID, req.PackageSessionIDs)
}
