package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Subject struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	Code      string         `gorm:"column:code" json:"code,omitempty"`
	Index     int            `gorm:"column:index;not null;default:0" json:"index"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Subject) TableName() string { return "subject" }

// SubjectSession maps a subject into a package session. One subject can be
// visible across several offerings at once.
type SubjectSession struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SubjectID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"subject_id"`
	Subject          *Subject        `gorm:"constraint:OnDelete:CASCADE;foreignKey:SubjectID;references:ID" json:"subject,omitempty"`
	PackageSessionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"package_session_id"`
	PackageSession   *PackageSession `gorm:"constraint:OnDelete:CASCADE;foreignKey:PackageSessionID;references:ID" json:"package_session,omitempty"`
	CreatedAt        time.Time       `gorm:"not null;default:now()" json:"created_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

func (SubjectSession) TableName() string { return "subject_session" }
