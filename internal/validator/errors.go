package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Rule identifiers carried on validation failures. Handlers and tests
// match on these instead of parsing messages.
const (
	RuleFieldMissing      = "field_missing"
	RuleSizeExceeded      = "size_exceeded"
	RulePatternMismatch   = "pattern_mismatch"
	RuleWordLimitExceeded = "word_limit_exceeded"
	RuleOutOfRange        = "out_of_range"
	RuleDateOutOfRange    = "date_out_of_range"
	RuleDuplicateAnswer   = "duplicate_answer"
)

// ValidationError represents a single field validation failure
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates failures for one request
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

// HasErrors reports whether any failure was recorded
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// ToValidationErrors converts go-playground validator errors into the
// domain representation.
func ToValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var result ValidationErrors
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			result = append(result, ValidationError{
				Field:   strings.ToLower(fe.Field()),
				Message: messageForTag(fe),
				Value:   fe.Value(),
				Rule:    ruleForTag(fe.Tag()),
			})
		}
		return result
	}

	return ValidationErrors{{Field: "request", Message: err.Error(), Rule: RulePatternMismatch}}
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func ruleForTag(tag string) string {
	switch tag {
	case "required":
		return RuleFieldMissing
	case "min", "max":
		return RuleSizeExceeded
	default:
		return RulePatternMismatch
	}
}
