package repos

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/openlms/authoring-backend/internal/logger"
	"github.com/openlms/authoring-backend/internal/types"
)

type SettingsRepo interface {
	// Get returns the decoded settings document for a course, or the default
	// document when none is stored yet.
	Get(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (*types.CourseSettings, error)
	// Save replaces the whole document. There is no patch path.
	Save(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, settings *types.CourseSettings) error
}

type settingsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSettingsRepo(db *gorm.DB, baseLog *logger.Logger) SettingsRepo {
	return &settingsRepo{db: db, log: baseLog.With("repo", "SettingsRepo")}
}

func (r *settingsRepo) resolveTx(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *settingsRepo) Get(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (*types.CourseSettings, error) {
	var doc types.CourseSettingsDoc
	err := r.resolveTx(tx).WithContext(ctx).
		Where("course_id = ?", courseID).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := types.DefaultCourseSettings()
		return &defaults, nil
	}
	if err != nil {
		return nil, err
	}

	var settings types.CourseSettings
	if err := json.Unmarshal(doc.Doc, &settings); err != nil {
		// A corrupt document degrades to defaults rather than blocking the
		// whole course view.
		r.log.Warn("settings document is corrupt, serving defaults", "course_id", courseID, "error", err)
		defaults := types.DefaultCourseSettings()
		return &defaults, nil
	}
	return &settings, nil
}

func (r *settingsRepo) Save(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, settings *types.CourseSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return r.resolveTx(tx).WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		var doc types.CourseSettingsDoc
		err := txn.Where("course_id = ?", courseID).First(&doc).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			doc = types.CourseSettingsDoc{CourseID: courseID, Doc: datatypes.JSON(raw)}
			return txn.Create(&doc).Error
		}
		if err != nil {
			return err
		}
		return txn.Model(&doc).Update("doc", datatypes.JSON(raw)).Error
	})
}
