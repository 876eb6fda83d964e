package models

import (
	"time"
)

type Response struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	FormID uint `json:"form_id" gorm:"not null;index"`

	// Respondent metadata, both optional
	RespondentName  *string `json:"respondent_name" gorm:"size:100"`
	RespondentEmail *string `json:"respondent_email" gorm:"size:255;index" validate:"omitempty,email"`

	// Server clock, set at creation; responses are never mutated
	SubmittedAt time.Time `json:"submitted_at" gorm:"not null;index"`

	// Relations
	Form    Form     `json:"-" gorm:"foreignKey:FormID"`
	Answers []Answer `json:"answers" gorm:"foreignKey:ResponseID;constraint:OnDelete:CASCADE"`
}

// Answer is stored as a wide row with nullable payload columns plus a
// join table for multi-select options. Value materializes the typed
// payload; callers never read the columns directly.
type Answer struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	ResponseID uint `json:"response_id" gorm:"not null;uniqueIndex:idx_response_question"`
	QuestionID uint `json:"question_id" gorm:"not null;uniqueIndex:idx_response_question"`

	TextAnswer       *string `json:"text_answer,omitempty" gorm:"type:text"`
	RatingValue      *int    `json:"rating_value,omitempty"`
	SelectedOptionID *uint   `json:"selected_option_id,omitempty"`
	DateValue        *string `json:"date_value,omitempty" gorm:"size:10"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Question        Question `json:"-" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	SelectedOption  *Option  `json:"selected_option,omitempty" gorm:"foreignKey:SelectedOptionID;constraint:OnDelete:CASCADE"`
	SelectedOptions []Option `json:"selected_options,omitempty" gorm:"many2many:answer_selected_options;constraint:OnDelete:CASCADE"`
}

func (Response) TableName() string {
	return "responses"
}

func (Answer) TableName() string {
	return "answers"
}

// AnswerValue is the tagged in-memory payload of an Answer. The shape
// is selected by the question type, not by probing nullable columns.
type AnswerValue interface {
	isAnswerValue()
}

type TextValue struct {
	Text string
}

type RatingValue struct {
	Rating int
}

type SelectionValue struct {
	Option Option
}

type MultiSelectionValue struct {
	// Sorted by option display order, ties by id
	Options []Option
}

type DateValue struct {
	Date string
}

func (TextValue) isAnswerValue()           {}
func (RatingValue) isAnswerValue()         {}
func (SelectionValue) isAnswerValue()      {}
func (MultiSelectionValue) isAnswerValue() {}
func (DateValue) isAnswerValue()           {}

// Value materializes the typed payload for the given question type.
// Returns nil when the answer carries no payload of that shape.
func (a *Answer) Value(qt QuestionType) AnswerValue {
	switch qt.Normalize() {
	case Text, TextWithLimit:
		if a.TextAnswer == nil {
			return nil
		}
		return TextValue{Text: *a.TextAnswer}
	case MultipleChoice, SingleSelect:
		if a.SelectedOption == nil {
			return nil
		}
		return SelectionValue{Option: *a.SelectedOption}
	case MultiSelect:
		if len(a.SelectedOptions) == 0 {
			return nil
		}
		return MultiSelectionValue{Options: a.SelectedOptions}
	case RatingScale:
		if a.RatingValue == nil {
			return nil
		}
		return RatingValue{Rating: *a.RatingValue}
	case Date:
		if a.DateValue == nil {
			return nil
		}
		return DateValue{Date: *a.DateValue}
	}
	return nil
}
