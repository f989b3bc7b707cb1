package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/openlms/authoring-backend/internal/drip"
)

// CourseSettingsDoc is the at-rest form of a course's settings: one JSON
// document per course, replaced wholesale on save.
type CourseSettingsDoc struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"course_id"`
	Doc       datatypes.JSON `gorm:"column:doc;type:jsonb;not null" json:"doc"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (CourseSettingsDoc) TableName() string { return "course_settings_doc" }

// CourseSettings is the decoded settings document.
type CourseSettings struct {
	DripConditions DripConditionSettings `json:"drip_conditions"`
	Outline        OutlineSettings       `json:"outline_settings"`
	CourseView     CourseViewSettings    `json:"course_view_settings"`
}

type DripConditionSettings struct {
	Enabled    bool             `json:"enabled"`
	Conditions []drip.Condition `json:"conditions"`
}

const (
	OutlineDefaultExpanded  = "expanded"
	OutlineDefaultCollapsed = "collapsed"
)

type OutlineSettings struct {
	// DefaultState is "expanded" or "collapsed"; it overrides the tree
	// manager's all-open seeding after a load.
	DefaultState string `json:"default_state,omitempty"`
}

type CourseViewSettings struct {
	// DefaultView is "outline" or "structure" (the drill-down folder view).
	DefaultView string `json:"default_view,omitempty"`
}

// DefaultCourseSettings is what a course without a stored document gets.
func DefaultCourseSettings() CourseSettings {
	return CourseSettings{
		DripConditions: DripConditionSettings{Enabled: false, Conditions: []drip.Condition{}},
		Outline:        OutlineSettings{DefaultState: OutlineDefaultExpanded},
		CourseView:     CourseViewSettings{DefaultView: "outline"},
	}
}
