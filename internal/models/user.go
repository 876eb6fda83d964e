package models

import (
	"time"

	"gorm.io/gorm"
)

type RoleName string

const (
	RoleUser  RoleName = "USER"
	RoleAdmin RoleName = "ADMIN"
)

// Role is persisted as its own table so the user-role join survives
// role renames.
type Role struct {
	ID   uint     `json:"id" gorm:"primaryKey"`
	Name RoleName `json:"name" gorm:"uniqueIndex;not null;size:20"`
}

type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"uniqueIndex;not null;size:50" validate:"required,min=3,max=50"`
	Email    string `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email"`
	FullName string `json:"full_name" gorm:"not null;size:100" validate:"required,max=100"`

	// Opaque bcrypt verifier, never serialized
	Password string `json:"-" gorm:"not null;size:120"`

	// Profile info
	Phone          *string `json:"phone" gorm:"size:20"`
	Bio            *string `json:"bio" gorm:"size:500"`
	Location       *string `json:"location" gorm:"size:100"`
	Organization   *string `json:"organization" gorm:"size:100"`
	ProfilePicture *string `json:"profile_picture" gorm:"size:500"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Roles []Role `json:"roles" gorm:"many2many:user_roles"`
	Forms []Form `json:"-" gorm:"foreignKey:CreatedByID"`
}

func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}

// RoleNames flattens the role relation for token claims and views.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, string(r.Name))
	}
	return names
}
