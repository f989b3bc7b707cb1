package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openlms/authoring-backend/internal/logger"
	"github.com/openlms/authoring-backend/internal/types"
)

type SubjectRepo interface {
	// GetForOffering lists the subjects visible in the offering identified by
	// the (course, session, level) triple, in display order.
	GetForOffering(ctx context.Context, tx *gorm.DB, courseID, sessionID, levelID uuid.UUID) ([]*types.Subject, error)
	Create(ctx context.Context, tx *gorm.DB, subject *types.Subject, packageSessionIDs []uuid.UUID) (*types.Subject, error)
	Update(ctx context.Context, tx *gorm.DB, subject *types.Subject, packageSessionIDs []uuid.UUID) error
	// Delete removes the subject's mappings for the given offerings and
	// soft-deletes the subject itself once no mapping remains.
	Delete(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, packageSessionIDs []uuid.UUID) error
}

type subjectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubjectRepo(db *gorm.DB, baseLog *logger.Logger) SubjectRepo {
	return &subjectRepo{db: db, log: baseLog.With("repo", "SubjectRepo")}
}

func (r *subjectRepo) resolveTx(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *subjectRepo) GetForOffering(ctx context.Context, tx *gorm.DB, courseID, sessionID, levelID uuid.UUID) ([]*types.Subject, error) {
	var subjects []*types.Subject
	err := r.resolveTx(tx).WithContext(ctx).
		Joins(`JOIN subject_session ss ON ss.subject_id = subject.id AND ss.deleted_at IS NULL`).
		Joins(`JOIN package_session ps ON ps.id = ss.package_session_id AND ps.deleted_at IS NULL`).
		Where("ps.course_id = ? AND ps.session_id = ? AND ps.level_id = ?", courseID, sessionID, levelID).
		Order(`subject."index" ASC`).
		Find(&subjects).Error
	if err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *subjectRepo) Create(ctx context.Context, tx *gorm.DB, subject *types.Subject, packageSessionIDs []uuid.UUID) (*types.Subject, error) {
	err := r.resolveTx(tx).WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		if err := txn.Create(subject).Error; err != nil {
			return err
		}
		for _, psID := range packageSessionIDs {
			mapping := &types.SubjectSession{SubjectID: subject.ID, PackageSessionID: psID}
			if err := txn.Create(mapping).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return subject, nil
}

func (r *subjectRepo) Update(ctx context.Context, tx *gorm.DB, subject *types.Subject, packageSessionIDs []uuid.UUID) error {
	return r.resolveTx(tx).WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		err := txn.Model(&types.Subject{}).
			Where("id = ?", subject.ID).
			Updates(map[string]interface{}{
				"name":  subject.Name,
				"code":  subject.Code,
				"index": subject.Index,
			}).Error
		if err != nil {
			return err
		}
		if len(packageSessionIDs) == 0 {
			return nil
		}
		// Full replace of the visibility set when one is provided.
		if err := txn.Where("subject_id = ?", subject.ID).Delete(&types.SubjectSession{}).Error; err != nil {
			return err
		}
		for _, psID := range packageSessionIDs {
			mapping := &types.SubjectSession{SubjectID: subject.ID, PackageSessionID: psID}
			if err := txn.Create(mapping).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *subjectRepo) Delete(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, packageSessionIDs []uuid.UUID) error {
	return r.resolveTx(tx).WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		err := txn.Where("subject_id = ? AND package_session_id IN ?", subjectID, packageSessionIDs).
			Delete(&types.SubjectSession{}).Error
		if err != nil {
			return err
		}
		var remaining int64
		err = txn.Model(&types.SubjectSession{}).
			Where("subject_id = ?", subjectID).
			Count(&remaining).Error
		if err != nil {
			return err
		}
		if remaining == 0 {
			return txn.Where("id = ?", subjectID).Delete(&types.Subject{}).Error
		}
		return nil
	})
}
