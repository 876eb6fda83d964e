package services

import (
	"context"

	"github.com/SAP-F-2025/feedback-form-service/internal/models"
	"github.com/SAP-F-2025/feedback-form-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type SignupRequest = validator.SignupRequest
type LoginRequest = validator.LoginRequest
type ForgotPasswordRequest = validator.ForgotPasswordRequest
type UpdateProfileRequest = validator.ProfileUpdateRequest

// Use business validator types
type CreateFormRequest = validator.FormCreateRequest
type SubmitResponseRequest = validator.ResponseSubmitRequest

// ForgotPasswordResult reports how the new password was delivered.
// NewPassword is set only when mail is disabled and the service runs
// in development mode.
type ForgotPasswordResult struct {
	EmailSent   bool   `json:"email_sent"`
	NewPassword string `json:"new_password,omitempty"`
}

// ExportFile is a rendered download: handlers set the headers from it
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ===== SERVICE INTERFACES =====

type FormService interface {
	Create(ctx context.Context, username string, req *CreateFormRequest) (*models.FormView, error)
	ListByOwner(ctx context.Context, username string) ([]*models.FormView, error)
	GetByID(ctx context.Context, id uint, username string) (*models.FormView, error)
	// GetByPublicURL is public; the transport redacts ResponseCount
	GetByPublicURL(ctx context.Context, publicURL string) (*models.FormView, error)
	Delete(ctx context.Context, id uint, username string) error
}

type SubmissionService interface {
	// Submit validates the whole draft against the form's question
	// schema and persists it atomically.
	Submit(ctx context.Context, publicURL string, req *SubmitResponseRequest) (*models.ResponseView, error)
}

type ResponseService interface {
	ListByForm(ctx context.Context, formID uint, username string) ([]*models.ResponseView, error)
	GetByID(ctx context.Context, responseID uint, username string) (*models.ResponseView, error)
	GetByIDForRespondent(ctx context.Context, responseID uint, email string) (*models.ResponseView, error)
	ListByEmail(ctx context.Context, email string) ([]*models.ResponseView, error)
}

type ExportService interface {
	FormResponsesCSV(ctx context.Context, formID uint, username string) (*ExportFile, error)
	ResponseCSV(ctx context.Context, responseID uint, username string) (*ExportFile, error)
	RespondentResponseCSV(ctx context.Context, responseID uint, email string) (*ExportFile, error)
	FormResponsesXLSX(ctx context.Context, formID uint, username string) (*ExportFile, error)
}

type AuthService interface {
	Register(ctx context.Context, req *SignupRequest) (*models.UserProfile, error)
	SignIn(ctx context.Context, req *LoginRequest) (*models.SignInResult, error)
	ForgotPassword(ctx context.Context, username string) (*ForgotPasswordResult, error)
}

type UserService interface {
	GetProfile(ctx context.Context, username string) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, username string, req *UpdateProfileRequest) (*models.UserProfile, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	Form() FormService
	Submission() SubmissionService
	Response() ResponseService
	Export() ExportService
	Auth() AuthService
	User() UserService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
