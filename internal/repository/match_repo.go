package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sportmatch/backend/internal/db"
)

// MatchRepository provides data access methods for the Match model.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// InsertIfAbsent records a match between two users, once per unordered pair.
//
// The pair is stored as (min(a,b), max(a,b)) and inserted with
// ON CONFLICT DO NOTHING against the unique pair index, inside a single
// transaction. Safe under concurrent reciprocal likes: only one insert can
// win. Returns true when this call created the row.
func (r *MatchRepository) InsertIfAbsent(ctx context.Context, a, b uint64) (bool, error) {
	match := db.Match{
		User1ID: min(a, b),
		User2ID: max(a, b),
	}

	var created bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user1_id"}, {Name: "user2_id"}},
			DoNothing: true,
		}).Create(&match)
		if res.Error != nil {
			return res.Error
		}
		created = res.RowsAffected > 0
		return nil
	})
	return created, err
}

// Find returns the match row for an unordered pair, or gorm.ErrRecordNotFound.
func (r *MatchRepository) Find(ctx context.Context, a, b uint64) (*db.Match, error) {
	var match db.Match
	err := r.db.WithContext(ctx).
		Where("user1_id = ? AND user2_id = ?", min(a, b), max(a, b)).
		First(&match).Error
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// ListFor returns all matches the user appears in, newest first.
func (r *MatchRepository) ListFor(ctx context.Context, userID uint64) ([]db.Match, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}
