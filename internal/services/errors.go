package services

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/feedback-form-service/internal/validator"
)

// Sentinel errors for absent entities
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrFormNotFound     = errors.New("form not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrOptionNotFound   = errors.New("option not found")
	ErrResponseNotFound = errors.New("response not found")
	ErrRoleNotFound     = errors.New("role not found")
)

// Conflict errors for uniqueness violations
var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already registered")
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrStorageUnavailable = errors.New("storage temporarily unavailable")
)

// ValidationErrors re-exports the validator aggregate so callers can
// match it with errors.As against service results.
type ValidationErrors = validator.ValidationErrors

// PermissionError reports a failed owner or respondent check
type PermissionError struct {
	Caller     string
	ResourceID uint
	Resource   string
	Action     string
	Reason     string
}

func NewPermissionError(caller string, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		Caller:     caller,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("caller %s cannot %s %s %d: %s", e.Caller, e.Action, e.Resource, e.ResourceID, e.Reason)
}

// ReferenceMismatchError reports a child entity answered against the
// wrong parent (an option from another question, a question from
// another form).
type ReferenceMismatchError struct {
	Child    string
	ChildID  uint
	Parent   string
	ParentID uint
}

func NewReferenceMismatchError(child string, childID uint, parent string, parentID uint) *ReferenceMismatchError {
	return &ReferenceMismatchError{
		Child:    child,
		ChildID:  childID,
		Parent:   parent,
		ParentID: parentID,
	}
}

func (e *ReferenceMismatchError) Error() string {
	return fmt.Sprintf("%s %d does not belong to %s %d", e.Child, e.ChildID, e.Parent, e.ParentID)
}

// IsNotFound reports whether err is any of the absent-entity sentinels
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrFormNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrOptionNotFound) ||
		errors.Is(err, ErrResponseNotFound) ||
		errors.Is(err, ErrRoleNotFound)
}

// IsConflict reports whether err is a uniqueness violation
func IsConflict(err error) bool {
	return errors.Is(err, ErrUsernameTaken) || errors.Is(err, ErrEmailTaken)
}
