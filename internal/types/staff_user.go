package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StaffRoleAdmin  = "admin"
	StaffRoleEditor = "editor"
)

// StaffUser is an authoring-portal account. Students never hold one.
type StaffUser struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email     string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	Password  string         `gorm:"column:password;not null" json:"-"`
	Role      string         `gorm:"column:role;not null;default:'editor'" json:"role"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (StaffUser) TableName() string { return "staff_user" }
