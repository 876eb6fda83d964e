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

type UserPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewUserPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.UserRepository {
	return &UserPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (u *UserPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return u.db
}

// Create inserts a user with its role associations
func (u *UserPostgreSQL) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	if err := u.getDB(tx).WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByUsername retrieves a user with roles by username
func (u *UserPostgreSQL) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error) {
	var user models.User
	err := u.getDB(tx).WithContext(ctx).
		Preload("Roles").
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user with roles by email
func (u *UserPostgreSQL) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := u.getDB(tx).WithContext(ctx).
		Preload("Roles").
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update writes the mutable profile columns. Roles and password are
// managed through their own operations.
func (u *UserPostgreSQL) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	err := u.getDB(tx).WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"email":           user.Email,
			"full_name":       user.FullName,
			"phone":           user.Phone,
			"bio":             user.Bio,
			"location":        user.Location,
			"organization":    user.Organization,
			"profile_picture": user.ProfilePicture,
			"updated_at":      user.UpdatedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	cache.SafeDelete(ctx, u.cacheManager.User, fmt.Sprintf("id:%d", user.ID))

	return nil
}

// UpdatePassword replaces the stored verifier
func (u *UserPostgreSQL) UpdatePassword(ctx context.Context, tx *gorm.DB, id uint, verifier string) error {
	err := u.getDB(tx).WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("password", verifier).Error
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// ExistsByUsername checks username uniqueness
func (u *UserPostgreSQL) ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error) {
	var count int64
	err := u.getDB(tx).WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return count > 0, nil
}

// ExistsByEmail checks email uniqueness
func (u *UserPostgreSQL) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	var count int64
	err := u.getDB(tx).WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

type RolePostgreSQL struct {
	db *gorm.DB
}

func NewRolePostgreSQL(db *gorm.DB) repositories.RoleRepository {
	return &RolePostgreSQL{db: db}
}

func (r *RolePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// GetByName retrieves one role row
func (r *RolePostgreSQL) GetByName(ctx context.Context, tx *gorm.DB, name models.RoleName) (*models.Role, error) {
	var role models.Role
	if err := r.getDB(tx).WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// EnsureDefaults idempotently seeds the USER and ADMIN rows
func (r *RolePostgreSQL) EnsureDefaults(ctx context.Context, tx *gorm.DB) error {
	for _, name := range []models.RoleName{models.RoleUser, models.RoleAdmin} {
		role := models.Role{Name: name}
		err := r.getDB(tx).WithContext(ctx).
			Where("name = ?", name).
			FirstOrCreate(&role).Error
		if err != nil {
			return fmt.Errorf("failed to seed role %s: %w", name, err)
		}
	}
	return nil
}
