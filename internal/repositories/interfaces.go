package repositories

import (
	"context"

	"github.com/SAP-F-2025/feedback-form-service/internal/models"
	"gorm.io/gorm"
)

// ===== SHARED FILTER STRUCTS =====

type FormFilters struct {
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`    // "created_at", "title"
	SortOrder string `json:"sort_order"` // "asc", "desc"
}

// FormRepository interface for form-specific operations
type FormRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, form *models.Form) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Form, error)
	// GetByIDWithDetails loads owner, questions and options; questions and
	// options ordered by (display_order asc, id asc)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Form, error)
	GetByPublicURL(ctx context.Context, tx *gorm.DB, publicURL string) (*models.Form, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Query operations
	GetByOwner(ctx context.Context, tx *gorm.DB, ownerID uint, filters FormFilters) ([]*models.Form, error)

	// Validation and checks
	ExistsByPublicURL(ctx context.Context, tx *gorm.DB, publicURL string) (bool, error)
	// CountResponsesBatch returns response counts keyed by form id;
	// single-form counts go through ResponseRepository.CountByForm,
	// which caches.
	CountResponsesBatch(ctx context.Context, tx *gorm.DB, formIDs []uint) (map[uint]int64, error)
}

// QuestionRepository interface for question-specific operations
type QuestionRepository interface {
	// CreateBatch inserts the questions in order and back-fills their ids
	CreateBatch(ctx context.Context, tx *gorm.DB, questions []*models.Question) error
	// GetByID returns the question with its options ordered by
	// (display_order asc, id asc)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error)
}

// OptionRepository interface for option operations
type OptionRepository interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, options []*models.Option) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Option, error)
}

// ResponseRepository interface for response operations
type ResponseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, response *models.Response) error
	// GetByID loads the form and answers with their selected options
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Response, error)
	// GetByForm returns responses ordered by (submitted_at desc, id desc)
	GetByForm(ctx context.Context, tx *gorm.DB, formID uint) ([]*models.Response, error)
	// GetByRespondentEmail matches case-sensitively across all forms,
	// ordered by (submitted_at desc, id desc)
	GetByRespondentEmail(ctx context.Context, tx *gorm.DB, email string) ([]*models.Response, error)
	CountByForm(ctx context.Context, tx *gorm.DB, formID uint) (int64, error)
}

// AnswerRepository interface for answer operations
type AnswerRepository interface {
	Create(ctx context.Context, tx *gorm.DB, answer *models.Answer) error
	// ReplaceSelectedOptions rewrites the multi-select join rows for an answer
	ReplaceSelectedOptions(ctx context.Context, tx *gorm.DB, answer *models.Answer, options []models.Option) error
}

// RoleRepository interface for role operations
type RoleRepository interface {
	GetByName(ctx context.Context, tx *gorm.DB, name models.RoleName) (*models.Role, error)
	// EnsureDefaults idempotently seeds the USER and ADMIN rows
	EnsureDefaults(ctx context.Context, tx *gorm.DB) error
}
