package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/feedback-form-service/internal/cache"
	"github.com/SAP-F-2025/feedback-form-service/internal/models"
	"github.com/SAP-F-2025/feedback-form-service/internal/repositories"
)

type ResponsePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewResponsePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ResponseRepository {
	return &ResponsePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (r *ResponsePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Create inserts a response row; answers are persisted separately so
// the submission engine can validate each one before it is written.
func (r *ResponsePostgreSQL) Create(ctx context.Context, tx *gorm.DB, response *models.Response) error {
	if err := r.getDB(tx).WithContext(ctx).Create(response).Error; err != nil {
		return fmt.Errorf("failed to create response: %w", err)
	}
	cache.SafeDelete(ctx, r.cacheManager.Response, fmt.Sprintf("count:%d", response.FormID))

	return nil
}

// GetByID retrieves a response with its form and answers
func (r *ResponsePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Response, error) {
	var response models.Response
	err := r.getDB(tx).WithContext(ctx).
		Preload("Form").
		Preload("Form.CreatedBy").
		Preload("Answers").
		Preload("Answers.Question").
		Preload("Answers.SelectedOption").
		Preload("Answers.SelectedOptions", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.display_order ASC, options.id ASC")
		}).
		First(&response, id).Error
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// GetByForm retrieves responses newest first
func (r *ResponsePostgreSQL) GetByForm(ctx context.Context, tx *gorm.DB, formID uint) ([]*models.Response, error) {
	var responses []*models.Response
	err := r.getDB(tx).WithContext(ctx).
		Preload("Answers").
		Preload("Answers.Question").
		Preload("Answers.SelectedOption").
		Preload("Answers.SelectedOptions", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.display_order ASC, options.id ASC")
		}).
		Where("form_id = ?", formID).
		Order("submitted_at DESC, id DESC").
		Find(&responses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get responses for form: %w", err)
	}
	return responses, nil
}

// GetByRespondentEmail matches the stored email exactly, across forms
func (r *ResponsePostgreSQL) GetByRespondentEmail(ctx context.Context, tx *gorm.DB, email string) ([]*models.Response, error) {
	var responses []*models.Response
	err := r.getDB(tx).WithContext(ctx).
		Preload("Form").
		Preload("Answers").
		Preload("Answers.Question").
		Preload("Answers.SelectedOption").
		Preload("Answers.SelectedOptions", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.display_order ASC, options.id ASC")
		}).
		Where("respondent_email = ?", email).
		Order("submitted_at DESC, id DESC").
		Find(&responses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get responses by email: %w", err)
	}
	return responses, nil
}

// CountByForm counts responses for a form with short-lived caching
func (r *ResponsePostgreSQL) CountByForm(ctx context.Context, tx *gorm.DB, formID uint) (int64, error) {
	cacheKey := fmt.Sprintf("count:%d", formID)
	var count int64

	err := r.cacheManager.Response.CacheOrExecute(ctx, cacheKey, &count, cache.ResponseCacheConfig.TTL, func() (interface{}, error) {
		var total int64
		err := r.getDB(tx).WithContext(ctx).
			Model(&models.Response{}).
			Where("form_id = ?", formID).
			Count(&total).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count responses: %w", err)
		}
		return total, nil
	})
	return count, err
}

type AnswerPostgreSQL struct {
	db *gorm.DB
}

func NewAnswerPostgreSQL(db *gorm.DB) repositories.AnswerRepository {
	return &AnswerPostgreSQL{db: db}
}

func (a *AnswerPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return a.db
}

// Create inserts one answer; the unique (response_id, question_id)
// index rejects a second answer for the same question.
func (a *AnswerPostgreSQL) Create(ctx context.Context, tx *gorm.DB, answer *models.Answer) error {
	if err := a.getDB(tx).WithContext(ctx).Create(answer).Error; err != nil {
		return fmt.Errorf("failed to create answer: %w", err)
	}
	return nil
}

// ReplaceSelectedOptions rewrites the multi-select join rows
func (a *AnswerPostgreSQL) ReplaceSelectedOptions(ctx context.Context, tx *gorm.DB, answer *models.Answer, options []models.Option) error {
	err := a.getDB(tx).WithContext(ctx).
		Model(answer).
		Association("SelectedOptions").
		Replace(options)
	if err != nil {
		return fmt.Errorf("failed to set selected options: %w", err)
	}
	return nil
}
