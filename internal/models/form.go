package models

import (
	"time"

	"gorm.io/gorm"
)

type Form struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"not null;size:100;index" validate:"required,min=1,max=100"`
	Description *string `json:"description" gorm:"size:500" validate:"omitempty,max=500"`

	// Unguessable capability token; possession grants submit access.
	// Minted from a CSPRNG, never derived from the row id.
	PublicURL string `json:"public_url" gorm:"uniqueIndex;not null;size:36"`

	// Metadata
	CreatedByID uint           `json:"created_by_id" gorm:"not null;index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	CreatedBy User       `json:"created_by" gorm:"foreignKey:CreatedByID"`
	Questions []Question `json:"questions" gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE"`
	Responses []Response `json:"-" gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE"`

	// Computed fields (not stored)
	ResponseCount int64 `json:"response_count" gorm:"-"`
}

func (Form) TableName() string {
	return "forms"
}
