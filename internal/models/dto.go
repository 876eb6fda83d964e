package models

import (
	"time"
)

// ===== VIEWS =====
// Views are the shapes returned to transports. They are assembled
// parent-first from the entity graph; no back-references.

type OptionView struct {
	ID           uint   `json:"id"`
	Text         string `json:"text"`
	DisplayOrder int    `json:"display_order"`
}

type QuestionView struct {
	ID           uint         `json:"id"`
	Text         string       `json:"text"`
	Type         QuestionType `json:"type"`
	DisplayOrder int          `json:"display_order"`
	Required     bool         `json:"required"`

	WordLimit     *int    `json:"word_limit,omitempty"`
	MinRating     *int    `json:"min_rating,omitempty"`
	MaxRating     *int    `json:"max_rating,omitempty"`
	DefaultRating *int    `json:"default_rating,omitempty"`
	DateFormat    *string `json:"date_format,omitempty"`
	MinDate       *string `json:"min_date,omitempty"`
	MaxDate       *string `json:"max_date,omitempty"`

	Options []OptionView `json:"options,omitempty"`
}

type FormView struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	PublicURL   string    `json:"public_url"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Questions []QuestionView `json:"questions"`

	// Redacted by the transport on public reads
	ResponseCount int64 `json:"response_count"`
}

type AnswerView struct {
	ID         uint         `json:"id"`
	QuestionID uint         `json:"question_id"`
	Type       QuestionType `json:"type"`

	TextAnswer      *string      `json:"text_answer,omitempty"`
	RatingValue     *int         `json:"rating_value,omitempty"`
	SelectedOption  *OptionView  `json:"selected_option,omitempty"`
	SelectedOptions []OptionView `json:"selected_options,omitempty"`
	DateValue       *string      `json:"date_value,omitempty"`
}

type ResponseView struct {
	ID              uint         `json:"id"`
	FormID          uint         `json:"form_id"`
	FormTitle       string       `json:"form_title,omitempty"`
	RespondentName  *string      `json:"respondent_name,omitempty"`
	RespondentEmail *string      `json:"respondent_email,omitempty"`
	SubmittedAt     time.Time    `json:"submitted_at"`
	Answers         []AnswerView `json:"answers"`
}

type UserProfile struct {
	ID             uint     `json:"id"`
	Username       string   `json:"username"`
	Email          string   `json:"email"`
	FullName       string   `json:"full_name"`
	Phone          *string  `json:"phone,omitempty"`
	Bio            *string  `json:"bio,omitempty"`
	Location       *string  `json:"location,omitempty"`
	Organization   *string  `json:"organization,omitempty"`
	ProfilePicture *string  `json:"profile_picture,omitempty"`
	Roles          []string `json:"roles"`
}

type SignInResult struct {
	Token    string   `json:"token"`
	ID       uint     `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// ===== VIEW ASSEMBLY =====

func NewOptionView(o *Option) OptionView {
	return OptionView{ID: o.ID, Text: o.Text, DisplayOrder: o.DisplayOrder}
}

func NewQuestionView(q *Question) QuestionView {
	view := QuestionView{
		ID:            q.ID,
		Text:          q.Text,
		Type:          q.Type.Normalize(),
		DisplayOrder:  q.DisplayOrder,
		Required:      q.Required,
		WordLimit:     q.WordLimit,
		MinRating:     q.MinRating,
		MaxRating:     q.MaxRating,
		DefaultRating: q.DefaultRating,
		DateFormat:    q.DateFormat,
		MinDate:       q.MinDate,
		MaxDate:       q.MaxDate,
	}
	for i := range q.Options {
		view.Options = append(view.Options, NewOptionView(&q.Options[i]))
	}
	return view
}

func NewFormView(f *Form) FormView {
	view := FormView{
		ID:            f.ID,
		Title:         f.Title,
		Description:   f.Description,
		PublicURL:     f.PublicURL,
		CreatedBy:     f.CreatedBy.Username,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
		Questions:     make([]QuestionView, 0, len(f.Questions)),
		ResponseCount: f.ResponseCount,
	}
	for i := range f.Questions {
		view.Questions = append(view.Questions, NewQuestionView(&f.Questions[i]))
	}
	return view
}

// NewAnswerView materializes the typed payload through Answer.Value so
// views never expose columns that do not match the question type.
func NewAnswerView(a *Answer, qt QuestionType) AnswerView {
	view := AnswerView{ID: a.ID, QuestionID: a.QuestionID, Type: qt.Normalize()}
	switch v := a.Value(qt).(type) {
	case TextValue:
		view.TextAnswer = &v.Text
	case RatingValue:
		view.RatingValue = &v.Rating
	case SelectionValue:
		ov := NewOptionView(&v.Option)
		view.SelectedOption = &ov
	case MultiSelectionValue:
		for i := range v.Options {
			view.SelectedOptions = append(view.SelectedOptions, NewOptionView(&v.Options[i]))
		}
	case DateValue:
		view.DateValue = &v.Date
	}
	return view
}

func NewResponseView(r *Response, questionTypes map[uint]QuestionType) ResponseView {
	view := ResponseView{
		ID:              r.ID,
		FormID:          r.FormID,
		FormTitle:       r.Form.Title,
		RespondentName:  r.RespondentName,
		RespondentEmail: r.RespondentEmail,
		SubmittedAt:     r.SubmittedAt,
		Answers:         make([]AnswerView, 0, len(r.Answers)),
	}
	for i := range r.Answers {
		a := &r.Answers[i]
		qt, ok := questionTypes[a.QuestionID]
		if !ok {
			qt = a.Question.Type
		}
		view.Answers = append(view.Answers, NewAnswerView(a, qt))
	}
	return view
}

func NewUserProfile(u *User) UserProfile {
	return UserProfile{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		FullName:       u.FullName,
		Phone:          u.Phone,
		Bio:            u.Bio,
		Location:       u.Location,
		Organization:   u.Organization,
		ProfilePicture: u.ProfilePicture,
		Roles:          u.RoleNames(),
	}
}
