package repos

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openlms/authoring-backend/internal/logger"
	pkgerrors "github.com/openlms/authoring-backend/internal/pkg/errors"
	"github.com/openlms/authoring-backend/internal/types"
)

type StaffUserRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.StaffUser, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.StaffUser, error)
	Create(ctx context.Context, tx *gorm.DB, row *types.StaffUser) (*types.StaffUser, error)
}

type staffUserRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStaffUserRepo(db *gorm.DB, baseLog *logger.Logger) StaffUserRepo {
	return &staffUserRepo{db: db, log: baseLog.With("repo", "StaffUserRepo")}
}

func (r *staffUserRepo) resolveTx(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *staffUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.StaffUser, error) {
	var row types.StaffUser
	err := r.resolveTx(tx).WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *staffUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.StaffUser, error) {
	var row types.StaffUser
	err := r.resolveTx(tx).WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *staffUserRepo) Create(ctx context.Context, tx *gorm.DB, row *types.StaffUser) (*types.StaffUser, error) {
	row.Email = strings.ToLower(strings.TrimSpace(row.Email))
	if err := r.resolveTx(tx).WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}
