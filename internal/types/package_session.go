package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PackageSession is one offering instance of a course: the (course, enrollment
// session, level) triple. Almost everything in the structure tree hangs off
// its id. "Package" is the external vocabulary for a course.
type PackageSession struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;index:idx_pkg_session_triple,priority:1" json:"course_id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index:idx_pkg_session_triple,priority:2" json:"session_id"`
	LevelID   uuid.UUID `gorm:"type:uuid;not null;index:idx_pkg_session_triple,priority:3" json:"level_id"`
	// CourseDepth is the hierarchy depth this offering exposes between
	// course and slide, 2 through 5.
	CourseDepth int            `gorm:"column:course_depth;not null;default:5" json:"course_depth"`
	Status      string         `gorm:"column:status;not null;default:'active'" json:"status"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (PackageSession) TableName() string { return "package_session" }
