package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/feedback-form-service/internal/models"
	"github.com/SAP-F-2025/feedback-form-service/internal/repositories"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (q *QuestionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return q.db
}

// CreateBatch inserts questions in order and back-fills their ids
func (q *QuestionPostgreSQL) CreateBatch(ctx context.Context, tx *gorm.DB, questions []*models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	if err := q.getDB(tx).WithContext(ctx).Create(questions).Error; err != nil {
		return fmt.Errorf("failed to create questions: %w", err)
	}
	return nil
}

// GetByID retrieves a question with its options in display order
func (q *QuestionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error) {
	var question models.Question
	err := q.getDB(tx).WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.display_order ASC, options.id ASC")
		}).
		First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

type OptionPostgreSQL struct {
	db *gorm.DB
}

func NewOptionPostgreSQL(db *gorm.DB) repositories.OptionRepository {
	return &OptionPostgreSQL{db: db}
}

func (o *OptionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return o.db
}

// CreateBatch creates options in insertion order
func (o *OptionPostgreSQL) CreateBatch(ctx context.Context, tx *gorm.DB, options []*models.Option) error {
	if len(options) == 0 {
		return nil
	}
	if err := o.getDB(tx).WithContext(ctx).Create(options).Error; err != nil {
		return fmt.Errorf("failed to create options: %w", err)
	}
	return nil
}

// GetByID retrieves an option by ID
func (o *OptionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Option, error) {
	var option models.Option
	if err := o.getDB(tx).WithContext(ctx).First(&option, id).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

