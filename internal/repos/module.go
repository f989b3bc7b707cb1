package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openlms/authoring-backend/internal/logger"
	"github.com/openlms/authoring-backend/internal/types"
)

type ModuleRepo interface {
	// GetWithChapters lists a subject's modules with the chapter metadata
	// visible in the given offering. Slides are not loaded at this level.
	GetWithChapters(ctx context.Context, tx *gorm.DB, subjectID, packageSessionID uuid.UUID) ([]*types.ModuleWithChapters, error)
	GetBySubjectIDs(ctx context.Context, tx *gorm.DB, subjectIDs []uuid.UUID) ([]*types.Module, error)
	Create(ctx context.Context, tx *gorm.DB, row *types.Module) (*types.Module, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.Module) error
	Delete(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) error
}

type moduleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewModuleRepo(db *gorm.DB, baseLog *logger.Logger) ModuleRepo {
	return &moduleRepo{db: db, log: baseLog.With("repo", "ModuleRepo")}
}

func (r *moduleRepo) resolveTx(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *moduleRepo) GetWithChapters(ctx context.Context, tx *gorm.DB, subjectID, packageSessionID uuid.UUID) ([]*types.ModuleWithChapters, error) {
	transaction := r.resolveTx(tx)

	var modules []*types.Module
	err := transaction.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		Order(`"index" ASC`).
		Find(&modules).Error
	if err != nil {
		return nil, err
	}
	if len(modules) == 0 {
		return []*types.ModuleWithChapters{}, nil
	}

	moduleIDs := make([]uuid.UUID, 0, len(modules))
	for _, m := range modules {
		moduleIDs = append(moduleIDs, m.ID)
	}

	var chapters []*types.Chapter
	err = transaction.WithContext(ctx).
		Joins(`JOIN chapter_session cs ON cs.chapter_id = chapter.id AND cs.deleted_at IS NULL`).
		Where("chapter.module_id IN ? AND cs.package_session_id = ?", moduleIDs, packageSessionID).
		Order(`chapter."index" ASC`).
		Find(&chapters).Error
	if err != nil {
		return nil, err
	}

	byModule := map[uuid.UUID][]*types.Chapter{}
	for _, ch := range chapters {
		byModule[ch.ModuleID] = append(byModule[ch.ModuleID], ch)
	}

	out := make([]*types.ModuleWithChapters, 0, len(modules))
	for _, m := range modules {
		out = append(out, &types.ModuleWithChapters{Module: m, Chapters: byModule[m.ID]})
	}
	return out, nil
}

func (r *moduleRepo) GetBySubjectIDs(ctx context.Context, tx *gorm.DB, subjectIDs []uuid.UUID) ([]*types.Module, error) {
	var results []*types.Module
	if len(subjectIDs) == 0 {
		return results, nil
	}
	err := r.resolveTx(tx).WithContext(ctx).
		Where("subject_id IN ?", subjectIDs).
		Order(`"index" ASC`).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *moduleRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Module) (*types.Module, error) {
	if err := r.resolveTx(tx).WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *moduleRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Module) error {
	return r.resolveTx(tx).WithContext(ctx).
		Model(&types.Module{}).
		Where("id = ?", row.ID).
		Updates(map[string]interface{}{
			"name":        row.Name,
			"description": row.Description,
			"index":       row.Index,
		}).Error
}

func (r *moduleRepo) Delete(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) error {
	return r.resolveTx(tx).WithContext(ctx).
		Where("id = ?", moduleID).
		Delete(&types.Module{}).Error
}
