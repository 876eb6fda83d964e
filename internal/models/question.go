package models

import (
	"time"
)

type QuestionType string

const (
	Text           QuestionType = "TEXT"
	TextWithLimit  QuestionType = "TEXT_WITH_LIMIT"
	MultipleChoice QuestionType = "MULTIPLE_CHOICE"
	SingleSelect   QuestionType = "SINGLE_SELECT"
	MultiSelect    QuestionType = "MULTI_SELECT"
	RatingScale    QuestionType = "RATING_SCALE"
	Date           QuestionType = "DATE"

	// legacyRating predates RATING_SCALE; still present in old rows
	legacyRating QuestionType = "RATING"
)

// Normalize maps legacy type values onto the current enum. Applied on
// every read path; legacy values are never written back.
func (t QuestionType) Normalize() QuestionType {
	if t == legacyRating {
		return RatingScale
	}
	return t
}

// IsValid reports whether t is a member of the current enum. Legacy
// aliases are accepted because stored rows may still carry them.
func (t QuestionType) IsValid() bool {
	switch t {
	case Text, TextWithLimit, MultipleChoice, SingleSelect, MultiSelect, RatingScale, Date, legacyRating:
		return true
	}
	return false
}

// IsChoice reports whether answers reference options.
func (t QuestionType) IsChoice() bool {
	switch t.Normalize() {
	case MultipleChoice, SingleSelect, MultiSelect:
		return true
	}
	return false
}

type Question struct {
	ID     uint         `json:"id" gorm:"primaryKey"`
	FormID uint         `json:"form_id" gorm:"not null;index"`
	Text   string       `json:"text" gorm:"type:text;not null" validate:"required,max=500"`
	Type   QuestionType `json:"type" gorm:"not null;size:30;index"`

	// Stable sort key; ties broken by id
	DisplayOrder int  `json:"display_order" gorm:"not null;default:0"`
	Required     bool `json:"required" gorm:"not null;default:false"`

	// Type-discriminated parameters
	WordLimit     *int    `json:"word_limit,omitempty"`     // TEXT_WITH_LIMIT
	MinRating     *int    `json:"min_rating,omitempty"`     // RATING_SCALE
	MaxRating     *int    `json:"max_rating,omitempty"`     // RATING_SCALE
	DefaultRating *int    `json:"default_rating,omitempty"` // RATING_SCALE
	DateFormat    *string `json:"date_format,omitempty" gorm:"size:20"` // DATE
	MinDate       *string `json:"min_date,omitempty" gorm:"size:10"`    // DATE, ISO-8601
	MaxDate       *string `json:"max_date,omitempty" gorm:"size:10"`    // DATE, ISO-8601

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Options []Option `json:"options,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

type Option struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Text       string `json:"text" gorm:"not null;size:255" validate:"required,max=255"`

	DisplayOrder int `json:"display_order" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
}

func (Question) TableName() string {
	return "questions"
}

func (Option) TableName() string {
	return "options"
}
