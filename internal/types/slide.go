package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Slide is a leaf content unit. ChapterID is nil for depth-2 courses, where
// slides attach directly to the package session instead of a chapter.
type Slide struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ChapterID        *uuid.UUID     `gorm:"type:uuid;index" json:"chapter_id,omitempty"`
	Chapter          *Chapter       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChapterID;references:ID" json:"chapter,omitempty"`
	PackageSessionID *uuid.UUID     `gorm:"type:uuid;index" json:"package_session_id,omitempty"`
	Name             string         `gorm:"column:name;not null" json:"name"`
	SourceType       string         `gorm:"column:source_type;not null;default:'document'" json:"source_type"`
	Index            int            `gorm:"column:index;not null;default:0" json:"index"`
	Status           string         `gorm:"column:status;not null;default:'draft'" json:"status"`
	CreatedAt        time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Slide) TableName() string { return "slide" }
