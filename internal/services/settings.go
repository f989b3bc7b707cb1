package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	redisclient "github.com/openlms/authoring-backend/internal/clients/redis"
	"github.com/openlms/authoring-backend/internal/drip"
	"github.com/openlms/authoring-backend/internal/logger"
	"github.com/openlms/authoring-backend/internal/repos"
	"github.com/openlms/authoring-backend/internal/types"
)

// SettingsService owns the course settings document: display configuration
// and the drip-condition collection. Every write is a full-document replace
// through the repo, with the redis cache refreshed on the way out.
type SettingsService interface {
	Get(ctx context.Context, courseID uuid.UUID) (*types.CourseSettings, error)
	Save(ctx context.Context, courseID uuid.UUID, settings *types.CourseSettings) error
	ResolveChapterConditions(ctx context.Context, courseID, chapterID uuid.UUID) (drip.Effective, error)
	UpsertCondition(ctx context.Context, courseID uuid.UUID, incoming drip.Condition, editingID string) ([]drip.Condition, error)
	RemoveCondition(ctx context.Context, courseID uuid.UUID, conditionID string) ([]drip.Condition, error)
	EvaluateChapter(ctx context.Context, courseID, chapterID uuid.UUID, snap drip.ProgressSnapshot) (drip.Outcome, error)
}

type settingsService struct {
	db        *gorm.DB
	log       *logger.Logger
	repo      repos.SettingsRepo
	cache     redisclient.SettingsCache
	evaluator *drip.Evaluator
}

// NewSettingsService wires the settings store. cache may be nil; the service
// then runs db-only.
func NewSettingsService(db *gorm.DB, baseLog *logger.Logger, repo repos.SettingsRepo, cache redisclient.SettingsCache) SettingsService {
	return &settingsService{
		db:        db,
		log:       baseLog.With("service", "SettingsService"),
		repo:      repo,
		cache:     cache,
		evaluator: drip.NewEvaluator(),
	}
}

func (s *settingsService) Get(ctx context.Context, courseID uuid.UUID) (*types.CourseSettings, error) {
	if s.cache != nil {
		if settings, ok := s.cache.Get(ctx, courseID); ok {
			return settings, nil
		}
	}
	settings, err := s.repo.Get(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("load course settings: %w", err)
	}
	if s.cache != nil {
		s.cache.Set(ctx, courseID, settings)
	}
	return settings, nil
}

func (s *settingsService) Save(ctx context.Context, courseID uuid.UUID, settings *types.CourseSettings) error {
	for _, c := range settings.DripConditions.Conditions {
		if err := drip.ValidateRuleSet(c.Spec.Rules); err != nil {
			return err
		}
	}
	if err := s.repo.Save(ctx, nil, courseID, settings); err != nil {
		s.log.Error("settings save failed", "course_id", courseID, "error", err)
		return fmt.Errorf("save course settings: %w", err)
	}
	if s.cache != nil {
		s.cache.Set(ctx, courseID, settings)
	}
	return nil
}

func (s *settingsService) ResolveChapterConditions(ctx context.Context, courseID, chapterID uuid.UUID) (drip.Effective, error) {
	settings, err := s.Get(ctx, courseID)
	if err != nil {
		return drip.Effective{}, err
	}
	return drip.ResolveEffective(courseID.String(), chapterID.String(), settings.DripConditions.Conditions), nil
}

// UpsertCondition runs the editing transaction for one condition: validate,
// apply copy-on-write to the collection, persist the whole document, return
// the new collection. Chapter-level conditions are rejected while a
// package-level override is active for the course.
func (s *settingsService) UpsertCondition(ctx context.Context, courseID uuid.UUID, incoming drip.Condition, editingID string) ([]drip.Condition, error) {
	if err := drip.ValidateRuleSet(incoming.Spec.Rules); err != nil {
		return nil, err
	}

	settings, err := s.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	conditions := settings.DripConditions.Conditions

	if incoming.Level == drip.LevelChapter {
		eff := drip.ResolveEffective(courseID.String(), incoming.LevelID, conditions)
		if !eff.Editable() {
			return nil, &drip.ValidationError{
				Field:  "level",
				Reason: "chapter conditions are not editable while a package-level condition is active",
			}
		}
	}

	updated := drip.Upsert(conditions, incoming, editingID)
	settings.DripConditions.Conditions = updated
	if err := s.Save(ctx, courseID, settings); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *settingsService) RemoveCondition(ctx context.Context, courseID uuid.UUID, conditionID string) ([]drip.Condition, error) {
	settings, err := s.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	updated := drip.Remove(settings.DripConditions.Conditions, conditionID)
	settings.DripConditions.Conditions = updated
	if err := s.Save(ctx, courseID, settings); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *settingsService) EvaluateChapter(ctx context.Context, courseID, chapterID uuid.UUID, snap drip.ProgressSnapshot) (drip.Outcome, error) {
	settings, err := s.Get(ctx, courseID)
	if err != nil {
		return drip.Outcome{}, err
	}
	if !settings.DripConditions.Enabled {
		return drip.Outcome{Unlocked: true, Source: drip.SourceNone}, nil
	}
	return s.evaluator.Evaluate(courseID.String(), chapterID.String(), settings.DripConditions.Conditions, snap), nil
}
