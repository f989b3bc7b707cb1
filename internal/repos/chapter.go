package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openlms/authoring-backend/internal/logger"
	"github.com/openlms/authoring-backend/internal/types"
)

type ChapterRepo interface {
	// GetWithSlides lists a module's chapters visible in the offering, each
	// with its full slide detail.
	GetWithSlides(ctx context.Context, tx *gorm.DB, moduleID, packageSessionID uuid.UUID) ([]*types.ChapterWithSlides, error)
	Create(ctx context.Context, tx *gorm.DB, row *types.Chapter, packageSessionIDs []uuid.UUID) (*types.Chapter, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.Chapter, packageSessionIDs []uuid.UUID) error
	Delete(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID, packageSessionIDs []uuid.UUID) error
}

type chapterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChapterRepo(db *gorm.DB, baseLog *logger.Logger) ChapterRepo {
	return &chapterRepo{db: db, log: baseLog.With("repo", "ChapterRepo")}
}

func (r *chapterRepo) resolveTx(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *chapterRepo) GetWithSlides(ctx context.Context, tx *gorm.DB, moduleID, packageSessionID uuid.UUID) ([]*types.ChapterWithSlides, error) {
	transaction := r.resolveTx(tx)

	var chapters []*types.Chapter
	err := transaction.WithContext(ctx).
		Joins(`JOIN chapter_session cs ON cs.chapter_id = chapter.id AND cs.deleted_at IS NULL`).
		Where("chapter.module_id = ? AND cs.package_session_id = ?", moduleID, packageSessionID).
		Order(`chapter."index" ASC`).
		Find(&chapters).Error
	if err != nil {
		return nil, err
	}
	if len(chapters) == 0 {
		return []*types.ChapterWithSlides{}, nil
	}

	chapterIDs := make([]uuid.UUID, 0, len(chapters))
	for _, ch := range chapters {
		chapterIDs = append(chapterIDs, ch.ID)
	}

	var slides []*types.Slide
	err = transaction.WithContext(ctx).
		Where("chapter_id IN ?", chapterIDs).
		Order(`"index" ASC`).
		Find(&slides).Error
	if err != nil {
		return nil, err
	}

	byChapter := map[uuid.UUID][]*types.Slide{}
	for _, s := range slides {
		if s.ChapterID != nil {
			byChapter[*s.ChapterID] = append(byChapter[*s.ChapterID], s)
		}
	}

	out := make([]*types.ChapterWithSlides, 0, len(chapters))
	for _, ch := range chapters {
		out = append(out, &types.ChapterWithSlides{Chapter: ch, Slides: byChapter[ch.ID]})
	}
	return out, nil
}

func (r *chapterRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Chapter, packageSessionIDs []uuid.UUID) (*types.Chapter, error) {
	err := r.resolveTx(tx).WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		if err := txn.Create(row).Error; err != nil {
			return err
		}
		for _, psID := range packageSessionIDs {
			mapping := &types.ChapterSession{ChapterID: row.ID, PackageSessionID: psID}
			if err := txn.Create(mapping).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (r *chapterRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Chapter, packageSessionIDs []uuid.UUID) error {
	return r.resolveTx(tx).WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		err := txn.Model(&types.Chapter{}).
			Where("id = ?", row.ID).
			Updates(map[string]interface{}{
				"name":        row.Name,
				"description": row.Description,
				"index":       row.Index,
			}).Error
		if err != nil {
			return err
		}
		if len(packageSessionIDs) == 0 {
			return nil
		}
		if err := txn.Where("chapter_id = ?", row.ID).Delete(&types.ChapterSession{}).Error; err != nil {
			return err
		}
		for _, psID := range packageSessionIDs {
			mapping := &types.ChapterSession{ChapterID: row.ID, PackageSessionID: psID}
			if err := txn.Create(mapping).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *chapterRepo) Delete(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID, packageSessionIDs []uuid.UUID) error {
	return r.resolveTx(tx).WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		err := txn.Where("chapter_id = ? AND package_session_id IN ?", chapterID, packageSessionIDs).
			Delete(&types.ChapterSession{}).Error
		if err != nil {
			return err
		}
		var remaining int64
		err = txn.Model(&types.ChapterSession{}).
			Where("chapter_id = ?", chapterID).
			Count(&remaining).Error
		if err != nil {
			return err
		}
		if remaining == 0 {
			return txn.Where("id = ?", chapterID).Delete(&types.Chapter{}).Error
		}
		return nil
	})
}
