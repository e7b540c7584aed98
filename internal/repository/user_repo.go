package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sportmatch/backend/internal/db"
)

// UserRepository provides data access methods for the User model.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// Create inserts a new user row. Unique violations on username/email surface
// as the driver's duplicate-key error.
func (r *UserRepository) Create(ctx context.Context, user *db.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID fetches a user by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*db.User, error) {
	var user db.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail fetches a user by email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*db.User, error) {
	var user db.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByUsernameOrEmail reports whether any user already holds the given
// username or email. Used for a friendly conflict before hitting the unique
// indexes.
func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

// UpdateFields applies a partial column patch to a user row.
func (r *UserRepository) UpdateFields(ctx context.Context, id uint64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// ListCandidates returns all active users the given user could be shown:
// everyone except the user themselves and anyone they already decided on
// (liked or passed). Ordered by ascending ID for a reproducible base order.
func (r *UserRepository) ListCandidates(ctx context.Context, userID uint64) ([]db.User, error) {
	var users []db.User
	err := r.db.WithContext(ctx).
		Table("users u").
		Where("u.id <> ? AND u.active = ?", userID, true).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM likes l
				WHERE l.liker_id = ?
				  AND l.liked_id = u.id
			)`, userID).
		Order("u.id ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
