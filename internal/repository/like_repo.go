package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sportmatch/backend/internal/db"
	"github.com/sportmatch/backend/internal/utils/pagination"
)

// LikeRepository provides data access methods for the Like model.
// It encapsulates all queries related to likes/passes between users.
type LikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new repository bound to the given DB connection.
func NewLikeRepository(database *gorm.DB) *LikeRepository {
	return &LikeRepository{db: database}
}

// Find returns the decision row liker → liked, or gorm.ErrRecordNotFound.
func (r *LikeRepository) Find(ctx context.Context, likerID, likedID uint64) (*db.Like, error) {
	var like db.Like
	err := r.db.WithContext(ctx).
		Where("liker_id = ? AND liked_id = ?", likerID, likedID).
		First(&like).Error
	if err != nil {
		return nil, err
	}
	return &like, nil
}

// Create inserts a decision row. The composite primary key makes a repeat
// insert for the same ordered pair fail, which callers surface as a conflict.
func (r *LikeRepository) Create(ctx context.Context, likerID, likedID uint64, liked bool) error {
	like := db.Like{
		LikerID: likerID,
		LikedID: likedID,
		Liked:   liked,
	}
	return r.db.WithContext(ctx).Create(&like).Error
}

// HasLiked checks whether liker has an actual like (not a pass) on liked.
// Used for the reciprocal check when promoting a like to a match.
func (r *LikeRepository) HasLiked(ctx context.Context, likerID, likedID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("liker_id = ? AND liked_id = ? AND liked = ?", likerID, likedID, true).
		Count(&count).Error
	return count > 0, err
}

// LikerIDsOf returns the set of users who liked the given user.
// The matching service uses it to apply the reciprocal-interest bonus.
func (r *LikeRepository) LikerIDsOf(ctx context.Context, userID uint64) (map[uint64]struct{}, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("liked_id = ? AND liked = ?", userID, true).
		Pluck("liker_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// GetLikers returns all users who liked the given user.
//
// Behavior:
//   - Only rows where liked_id = X and liked = true are returned.
//   - Excludes users that the recipient explicitly passed (liked = false).
//   - Ordered by updated_at DESC, liker_id DESC.
//   - Supports cursor-based pagination via paginationToken.
func (r *LikeRepository) GetLikers(
	ctx context.Context,
	userID uint64,
	paginationToken *string,
	limit int,
) ([]db.Like, *string, error) {
	var likes []db.Like

	// decode cursor if provided
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Table("likes l").
		Where("l.liked_id = ? AND l.liked = true", userID).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM likes l2
				WHERE l2.liker_id = ?
				  AND l2.liked_id = l.liker_id
				  AND l2.liked = false
			)`, userID).
		Order("l.updated_at DESC, l.liker_id DESC").
		Limit(limit + 1)

	// apply cursor
	if cursor.LikerID > 0 && cursor.UpdatedUnix > 0 {
		ts := time.UnixMilli(cursor.UpdatedUnix)
		query = query.Where(
			"(l.updated_at < ? OR (l.updated_at = ? AND l.liker_id < ?))",
			ts, ts, cursor.LikerID,
		)
	}

	if err := query.Find(&likes).Error; err != nil {
		return nil, nil, err
	}

	// pagination: build next cursor if needed
	var nextToken *string
	if len(likes) > limit {
		last := likes[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			LikerID:     last.LikerID,
			UpdatedUnix: last.UpdatedAt.UnixMilli(),
		})
		nextToken = &token
		likes = likes[:limit]
	}

	return likes, nextToken, nil
}

// CountLikers returns how many users liked the given user.
//
// Behavior:
//   - Counts only rows where liked_id = X and liked = true.
//   - Excludes users that the recipient explicitly passed.
//   - Used in conjunction with the Redis cache (DB is fallback).
func (r *LikeRepository) CountLikers(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("likes l").
		Where("l.liked_id = ? AND l.liked = true", userID).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM likes l2
				WHERE l2.liker_id = ?
				  AND l2.liked_id = l.liker_id
				  AND l2.liked = false
			)`, userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
