package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Chapter struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ModuleID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"module_id"`
	Module      *Module        `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModuleID;references:ID" json:"module,omitempty"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	Description string         `gorm:"column:description" json:"description,omitempty"`
	Index       int            `gorm:"column:index;not null;default:0" json:"index"`
	Status      string         `gorm:"column:status;not null;default:'active'" json:"status"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Chapter) TableName() string { return "chapter" }

// ChapterSession maps a chapter into a package session, supporting
// cross-session visibility for a single authored chapter.
type ChapterSession struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ChapterID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"chapter_id"`
	Chapter          *Chapter        `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChapterID;references:ID" json:"chapter,omitempty"`
	PackageSessionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"package_session_id"`
	PackageSession   *PackageSession `gorm:"constraint:OnDelete:CASCADE;foreignKey:PackageSessionID;references:ID" json:"package_session,omitempty"`
	CreatedAt        time.Time       `gorm:"not null;default:now()" json:"created_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

func (ChapterSession) TableName() string { return "chapter_session" }
