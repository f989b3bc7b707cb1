package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openlms/authoring-backend/internal/logger"
	"github.com/openlms/authoring-backend/internal/types"
)

type SlideRepo interface {
	// GetDirect lists the slides attached straight to an offering, for
	// depth-2 courses with no chapter layer.
	GetDirect(ctx context.Context, tx *gorm.DB, packageSessionID uuid.UUID) ([]*types.Slide, error)
	GetByChapterID(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID) ([]*types.Slide, error)
	Create(ctx context.Context, tx *gorm.DB, row *types.Slide) (*types.Slide, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.Slide) error
	Delete(ctx context.Context, tx *gorm.DB, slideID uuid.UUID) error
}

type slideRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSlideRepo(db *gorm.DB, baseLog *logger.Logger) SlideRepo {
	return &slideRepo{db: db, log: baseLog.With("repo", "SlideRepo")}
}

func (r *slideRepo) resolveTx(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *slideRepo) GetDirect(ctx context.Context, tx *gorm.DB, packageSessionID uuid.UUID) ([]*types.Slide, error) {
	var results []*types.Slide
	err := r.resolveTx(tx).WithContext(ctx).
		Where("package_session_id = ? AND chapter_id IS NULL", packageSessionID).
		Order(`"index" ASC`).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *slideRepo) GetByChapterID(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID) ([]*types.Slide, error) {
	var results []*types.Slide
	err := r.resolveTx(tx).WithContext(ctx).
		Where("chapter_id = ?", chapterID).
		Order(`"index" ASC`).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *slideRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Slide) (*types.Slide, error) {
	if err := r.resolveTx(tx).WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *slideRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Slide) error {
	return r.resolveTx(tx).WithContext(ctx).
		Model(&types.Slide{}).
		Where("id = ?", row.ID).
		Updates(map[string]interface{}{
			"name":        row.Name,
			"source_type": row.SourceType,
			"index":       row.Index,
			"status":      row.Status,
		}).Error
}

func (r *slideRepo) Delete(ctx context.Context, tx *gorm.DB, slideID uuid.UUID) error {
	return r.resolveTx(tx).WithContext(ctx).
		Where("id = ?", slideID).
		Delete(&types.Slide{}).Error
}
