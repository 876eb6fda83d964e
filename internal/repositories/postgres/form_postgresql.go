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

type FormPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewFormPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.FormRepository {
	return &FormPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// getDB returns the transaction DB if provided, otherwise the default DB
func (f *FormPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return f.db
}

// Create inserts the form with its questions and options in one pass
// and invalidates the owner's list cache.
func (f *FormPostgreSQL) Create(ctx context.Context, tx *gorm.DB, form *models.Form) error {
	if err := f.getDB(tx).WithContext(ctx).Create(form).Error; err != nil {
		return fmt.Errorf("failed to create form: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, f.cacheManager.Form, fmt.Sprintf("owner:%d:*", form.CreatedByID))

	return nil
}

// GetByID retrieves a form by ID without children
func (f *FormPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Form, error) {
	var form models.Form
	err := f.getDB(tx).WithContext(ctx).
		Preload("CreatedBy").
		First(&form, id).Error
	if err != nil {
		return nil, err
	}
	return &form, nil
}

// GetByIDWithDetails retrieves a form with owner, questions and options
func (f *FormPostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Form, error) {
	cacheKey := fmt.Sprintf("id:%d", id)
	var form models.Form

	err := f.cacheManager.Form.CacheOrExecute(ctx, cacheKey, &form, cache.FormCacheConfig.TTL, func() (interface{}, error) {
		dbForm, err := f.loadWithDetails(ctx, tx, "forms.id = ?", id)
		if err != nil {
			return nil, err
		}
		return dbForm, nil
	})
	if err != nil {
		return nil, err
	}

	return &form, nil
}

// GetByPublicURL resolves the public capability token to its form
func (f *FormPostgreSQL) GetByPublicURL(ctx context.Context, tx *gorm.DB, publicURL string) (*models.Form, error) {
	cacheKey := fmt.Sprintf("public:%s", publicURL)
	var form models.Form

	err := f.cacheManager.Form.CacheOrExecute(ctx, cacheKey, &form, cache.FormCacheConfig.TTL, func() (interface{}, error) {
		dbForm, err := f.loadWithDetails(ctx, tx, "forms.public_url = ?", publicURL)
		if err != nil {
			return nil, err
		}
		return dbForm, nil
	})
	if err != nil {
		return nil, err
	}

	return &form, nil
}

func (f *FormPostgreSQL) loadWithDetails(ctx context.Context, tx *gorm.DB, cond string, arg interface{}) (*models.Form, error) {
	var form models.Form
	err := f.getDB(tx).WithContext(ctx).
		Preload("CreatedBy").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.display_order ASC, questions.id ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.display_order ASC, options.id ASC")
		}).
		Where(cond, arg).
		First(&form).Error
	if err != nil {
		return nil, err
	}
	return &form, nil
}

// Delete hard deletes a form; questions, options, responses and answers
// go with it through the FK cascades.
func (f *FormPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	var form models.Form
	if err := f.getDB(tx).WithContext(ctx).Select("id, public_url, created_by_id").First(&form, id).Error; err != nil {
		return err
	}

	if err := f.getDB(tx).WithContext(ctx).Unscoped().Delete(&models.Form{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete form: %w", err)
	}

	cache.InvalidateFormCache(ctx, f.cacheManager, id, form.PublicURL, form.CreatedByID)

	return nil
}

// GetByOwner retrieves forms created by one user with questions loaded
func (f *FormPostgreSQL) GetByOwner(ctx context.Context, tx *gorm.DB, ownerID uint, filters repositories.FormFilters) ([]*models.Form, error) {
	query := f.getDB(tx).WithContext(ctx).
		Preload("CreatedBy").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.display_order ASC, questions.id ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.display_order ASC, options.id ASC")
		}).
		Where("created_by_id = ?", ownerID)

	query = f.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	var forms []*models.Form
	if err := query.Find(&forms).Error; err != nil {
		return nil, fmt.Errorf("failed to list forms by owner: %w", err)
	}
	return forms, nil
}

// ExistsByPublicURL checks the capability token for collisions
func (f *FormPostgreSQL) ExistsByPublicURL(ctx context.Context, tx *gorm.DB, publicURL string) (bool, error) {
	var count int64
	err := f.getDB(tx).WithContext(ctx).
		Model(&models.Form{}).
		Where("public_url = ?", publicURL).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check public url: %w", err)
	}
	return count > 0, nil
}

// CountResponsesBatch returns response counts keyed by form id
func (f *FormPostgreSQL) CountResponsesBatch(ctx context.Context, tx *gorm.DB, formIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(formIDs))
	if len(formIDs) == 0 {
		return counts, nil
	}

	type row struct {
		FormID uint
		Total  int64
	}
	var rows []row
	err := f.getDB(tx).WithContext(ctx).
		Model(&models.Response{}).
		Select("form_id, COUNT(*) AS total").
		Where("form_id IN ?", formIDs).
		Group("form_id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count responses: %w", err)
	}

	for _, r := range rows {
		counts[r.FormID] = r.Total
	}
	return counts, nil
}
