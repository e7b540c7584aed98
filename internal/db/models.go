package db

import (
	"time"
)

// User table: profile, credentials, sports preferences and media references.
//
// Sports holds the canonical JSON encoding, an array of
// {"sport": "...", "level": "..."} objects. Legacy rows may still carry
// comma-separated text; matching.ParseSports reads both.
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Name         string `gorm:"size:128"`
	Age          int
	Location     string `gorm:"size:100"`
	Bio          string `gorm:"type:text"`
	Sports       string `gorm:"size:1024"`
	PhotoURL     string `gorm:"size:255"`
	VideoURL     string `gorm:"size:255"`
	Active       bool   `gorm:"default:true"`
	LastLoginAt  time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Like represents a directed decision from one user about another.
//
// Composite PK: (LikerID, LikedID)
//   - Guarantees at most one row per ordered pair.
//
// Indexes:
//   - idx_liked_liker(liked_id, liked, updated_at DESC, liker_id)
//     Optimizes "who liked me" listings with pagination.
//
// Fields:
//   - LikerID: the user making the decision.
//   - LikedID: the user being liked/passed.
//   - Liked: true for a like, false for a pass. Both values mark the target
//     as seen and exclude it from future candidate lists; only likes count
//     toward matches.
type Like struct {
	LikerID   uint64    `gorm:"primaryKey"`
	LikedID   uint64    `gorm:"primaryKey;index:idx_liked_liker,priority:1"`
	Liked     bool      `gorm:"not null;index:idx_liked_liker,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index:idx_liked_liker,priority:3,sort:desc"`
}

// Match is a mutual like, stored once per unordered pair with
// User1ID < User2ID. The unique index closes the race where both sides of a
// pair like each other concurrently: at most one row can ever exist.
type Match struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	User1ID   uint64    `gorm:"not null;uniqueIndex:idx_match_pair,priority:1"`
	User2ID   uint64    `gorm:"not null;uniqueIndex:idx_match_pair,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
