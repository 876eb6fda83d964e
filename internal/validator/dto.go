package validator

import (
	"github.com/SAP-F-2025/feedback-form-service/internal/models"
)

// ===== AUTH =====

// SignupRequest represents the request structure for registration
type SignupRequest struct {
	Username string   `json:"username" validate:"required,min=3,max=50"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,password_policy"`
	FullName string   `json:"full_name" validate:"required,max=100"`
	Roles    []string `json:"roles" validate:"omitempty,dive,oneof=USER ADMIN"`
}

// LoginRequest represents the request structure for sign-in
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest asks for a password reset by username
type ForgotPasswordRequest struct {
	Username string `json:"username" validate:"required"`
}

// ProfileUpdateRequest carries a partial profile update; nil fields are
// left untouched.
type ProfileUpdateRequest struct {
	Email          *string `json:"email" validate:"omitempty,email"`
	FullName       *string `json:"full_name" validate:"omitempty,min=1,max=100"`
	Phone          *string `json:"phone" validate:"omitempty,max=20"`
	Bio            *string `json:"bio" validate:"omitempty,max=500"`
	Location       *string `json:"location" validate:"omitempty,max=100"`
	Organization   *string `json:"organization" validate:"omitempty,max=100"`
	ProfilePicture *string `json:"profile_picture" validate:"omitempty,max=500"`
}

// ===== FORM AUTHORING =====

// FormCreateRequest represents the request structure for creating forms
type FormCreateRequest struct {
	Title       string                  `json:"title" validate:"required,form_title"`
	Description *string                 `json:"description" validate:"omitempty,form_description"`
	Questions   []QuestionCreateRequest `json:"questions" validate:"omitempty,dive"`
}

// QuestionCreateRequest represents one question inside a form draft.
// DisplayOrder defaults to the question's index when absent.
type QuestionCreateRequest struct {
	Text         string              `json:"text" validate:"required,question_text"`
	Type         models.QuestionType `json:"type" validate:"required,question_type"`
	DisplayOrder *int                `json:"display_order"`
	Required     bool                `json:"required"`

	WordLimit     *int    `json:"word_limit" validate:"omitempty,min=1"`
	MinRating     *int    `json:"min_rating"`
	MaxRating     *int    `json:"max_rating"`
	DefaultRating *int    `json:"default_rating"`
	DateFormat    *string `json:"date_format" validate:"omitempty,max=20"`
	MinDate       *string `json:"min_date" validate:"omitempty,iso_date"`
	MaxDate       *string `json:"max_date" validate:"omitempty,iso_date"`

	Options []OptionCreateRequest `json:"options" validate:"omitempty,dive"`
}

// OptionCreateRequest represents one choice option
type OptionCreateRequest struct {
	Text         string `json:"text" validate:"required,option_text"`
	DisplayOrder *int   `json:"display_order"`
}

// ===== SUBMISSION =====

// ResponseSubmitRequest represents an anonymous submission
type ResponseSubmitRequest struct {
	RespondentName  *string               `json:"respondent_name" validate:"omitempty,max=100"`
	RespondentEmail *string               `json:"respondent_email" validate:"omitempty,email"`
	Answers         []AnswerSubmitRequest `json:"answers" validate:"omitempty,dive"`
}

// AnswerSubmitRequest carries one answer draft; the payload field read
// depends on the target question's type.
type AnswerSubmitRequest struct {
	QuestionID uint `json:"question_id" validate:"required"`

	TextAnswer        *string `json:"text_answer"`
	RatingValue       *int    `json:"rating_value"`
	SelectedOptionID  *uint   `json:"selected_option_id"`
	SelectedOptionIDs []uint  `json:"selected_option_ids"`
	DateValue         *string `json:"date_value" validate:"omitempty,iso_date"`
}
