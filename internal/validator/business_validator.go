package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/SAP-F-2025/feedback-form-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// passwordSpecials is the set of characters accepted as "special"
const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateSignup validates registration business rules
func (bv *BusinessValidator) ValidateSignup(req *SignupRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)
	errors = append(errors, ValidatePassword(req.Password)...)

	return errors
}

// ValidateFormCreate validates form creation business rules
func (bv *BusinessValidator) ValidateFormCreate(req *FormCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	for i := range req.Questions {
		errors = append(errors, bv.validateQuestionRules(i, &req.Questions[i])...)
	}

	return errors
}

func (bv *BusinessValidator) validateQuestionRules(idx int, q *QuestionCreateRequest) ValidationErrors {
	var errors ValidationErrors
	field := func(name string) string { return fmt.Sprintf("questions[%d].%s", idx, name) }

	if q.MinRating != nil && q.MaxRating != nil && *q.MinRating > *q.MaxRating {
		errors = append(errors, ValidationError{
			Field:   field("min_rating"),
			Message: "min rating cannot exceed max rating",
			Value:   *q.MinRating,
			Rule:    RuleOutOfRange,
		})
	}

	if q.DefaultRating != nil {
		if (q.MinRating != nil && *q.DefaultRating < *q.MinRating) ||
			(q.MaxRating != nil && *q.DefaultRating > *q.MaxRating) {
			errors = append(errors, ValidationError{
				Field:   field("default_rating"),
				Message: "default rating must be within the configured bounds",
				Value:   *q.DefaultRating,
				Rule:    RuleOutOfRange,
			})
		}
	}

	// ISO-8601 dates compare correctly as strings
	if q.MinDate != nil && q.MaxDate != nil && *q.MinDate > *q.MaxDate {
		errors = append(errors, ValidationError{
			Field:   field("min_date"),
			Message: "min date cannot be after max date",
			Value:   *q.MinDate,
			Rule:    RuleDateOutOfRange,
		})
	}

	// Options on a non-choice question are not an error; the form
	// service drops them without persisting.

	return errors
}

// ValidatePassword enforces the password policy: at least 8 characters,
// one uppercase letter and one special character.
func ValidatePassword(password string) ValidationErrors {
	var errors ValidationErrors

	if len(password) < 8 {
		errors = append(errors, ValidationError{
			Field:   "password",
			Message: "must be at least 8 characters",
			Rule:    RuleSizeExceeded,
		})
	}

	hasUpper := false
	hasSpecial := false
	for _, r := range password {
		if unicode.IsUpper(r) {
			hasUpper = true
		}
		if strings.ContainsRune(passwordSpecials, r) {
			hasSpecial = true
		}
	}

	if !hasUpper {
		errors = append(errors, ValidationError{
			Field:   "password",
			Message: "must contain at least one uppercase letter",
			Rule:    RulePatternMismatch,
		})
	}
	if !hasSpecial {
		errors = append(errors, ValidationError{
			Field:   "password",
			Message: "must contain at least one special character",
			Rule:    RulePatternMismatch,
		})
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Title validation (1-100 characters after trimming)
	bv.validate.RegisterValidation("form_title", func(fl validator.FieldLevel) bool {
		title := strings.TrimSpace(fl.Field().String())
		return len(title) >= 1 && len(title) <= 100
	})

	// Description validation (max 500 characters)
	bv.validate.RegisterValidation("form_description", func(fl validator.FieldLevel) bool {
		desc := fl.Field().String()
		return len(desc) <= 500
	})

	// Question text validation (1-500 characters after trimming)
	bv.validate.RegisterValidation("question_text", func(fl validator.FieldLevel) bool {
		text := strings.TrimSpace(fl.Field().String())
		return len(text) >= 1 && len(text) <= 500
	})

	// Option text validation (1-255 characters after trimming)
	bv.validate.RegisterValidation("option_text", func(fl validator.FieldLevel) bool {
		text := strings.TrimSpace(fl.Field().String())
		return len(text) >= 1 && len(text) <= 255
	})

	// question type validation; accepts legacy aliases still in storage
	bv.validate.RegisterValidation("question_type", func(fl validator.FieldLevel) bool {
		return models.QuestionType(fl.Field().String()).IsValid()
	})

	// ISO-8601 calendar date (YYYY-MM-DD)
	bv.validate.RegisterValidation("iso_date", func(fl validator.FieldLevel) bool {
		return isoDatePattern.MatchString(fl.Field().String())
	})

	// password policy (shape only; detailed errors via ValidatePassword)
	bv.validate.RegisterValidation("password_policy", func(fl validator.FieldLevel) bool {
		return len(ValidatePassword(fl.Field().String())) == 0
	})
}
