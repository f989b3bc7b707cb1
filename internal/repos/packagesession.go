package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openlms/authoring-backend/internal/logger"
	"github.com/openlms/authoring-backend/internal/types"
)

type PackageSessionRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.PackageSession, error)
	// Resolve returns uuid.Nil and no error when the triple has no offering;
	// absence is a normal outcome, not a failure.
	Resolve(ctx context.Context, tx *gorm.DB, courseID, sessionID, levelID uuid.UUID) (uuid.UUID, error)
	GetDepth(ctx context.Context, tx *gorm.DB, courseID, sessionID, levelID uuid.UUID) (int, error)
	Create(ctx context.Context, tx *gorm.DB, row *types.PackageSession) (*types.PackageSession, error)
}

type packageSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPackageSessionRepo(db *gorm.DB, baseLog *logger.Logger) PackageSessionRepo {
	return &packageSessionRepo{db: db, log: baseLog.With("repo", "PackageSessionRepo")}
}

func (r *packageSessionRepo) resolveTx(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *packageSessionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.PackageSession, error) {
	var row types.PackageSession
	err := r.resolveTx(tx).WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *packageSessionRepo) Resolve(ctx context.Context, tx *gorm.DB, courseID, sessionID, levelID uuid.UUID) (uuid.UUID, error) {
	var row types.PackageSession
	err := r.resolveTx(tx).WithContext(ctx).
		Select("id").
		Where("course_id = ? AND session_id = ? AND level_id = ? AND status = ?", courseID, sessionID, levelID, "active").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, err
	}
	return row.ID, nil
}

func (r *packageSessionRepo) GetDepth(ctx context.Context, tx *gorm.DB, courseID, sessionID, levelID uuid.UUID) (int, error) {
	var row types.PackageSession
	err := r.resolveTx(tx).WithContext(ctx).
		Select("course_depth").
		Where("course_id = ? AND session_id = ? AND level_id = ?", courseID, sessionID, levelID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Unknown offerings render as the full hierarchy.
		return 5, nil
	}
	if err != nil {
		return 0, err
	}
	return row.CourseDepth, nil
}

func (r *packageSessionRepo) Create(ctx context.Context, tx *gorm.DB, row *types.PackageSession) (*types.PackageSession, error) {
	if err := r.resolveTx(tx).WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}
