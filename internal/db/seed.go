package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var seedLocations = []string{
	"Palermo", "Belgrano", "Recoleta", "Caballito", "San Telmo",
}

var seedSports = []string{
	`[{"sport":"Football","level":"Intermediate"},{"sport":"Tennis","level":"Beginner"}]`,
	`[{"sport":"Running","level":"Advanced"},{"sport":"Football","level":"Beginner"}]`,
	`[{"sport":"Tennis","level":"Intermediate"},{"sport":"Padel","level":"Intermediate"}]`,
	`[{"sport":"Basketball","level":"Beginner"}]`,
	`[{"sport":"Swimming","level":"Advanced"},{"sport":"Running","level":"Intermediate"}]`,
}

// SeedTestData resets the database and populates it with demo users and likes.
//
// Behavior:
//  1. Clears existing data in `users`, `likes` and `matches` tables.
//  2. Creates 20 users with hashed passwords, ages, neighborhoods and sports.
//  3. Generates ~200 decisions with ~70% likes; every 3rd guarantees a
//     reciprocal like and its Match row.
//
// Compatible with both MySQL and SQLite (AUTO_INCREMENT reset skipped for SQLite).
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{"matches", "likes", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		db.Exec("ALTER TABLE matches AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE users AUTO_INCREMENT = 1")
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name = 'matches'")
		db.Exec("DELETE FROM sqlite_sequence WHERE name = 'users'")
	}

	log.Println("Cleared existing data")

	// --- Seed Users ---
	for i := 1; i <= 20; i++ {
		hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		user := User{
			Username:     fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: string(hash),
			Name:         fmt.Sprintf("User %d", i),
			Age:          20 + r.Intn(20),
			Location:     seedLocations[i%len(seedLocations)],
			Sports:       seedSports[i%len(seedSports)],
			Active:       true,
			LastLoginAt:  time.Now().Add(-time.Duration(r.Intn(500)) * time.Hour),
		}

		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
	}
	log.Println("Seeded 20 users.")

	// --- Seed Likes ---
	counter := 0
	for likerID := uint64(1); likerID <= 20; likerID++ {
		for j := 0; j < 12; j++ { // each user decides on ~12 others
			likedID := uint64(r.Intn(20) + 1)
			if likerID == likedID {
				continue
			}

			// like probability 70%
			liked := r.Intn(100) < 70

			// guarantee mutual likes every 3rd pair
			if counter%3 == 0 {
				liked = true
				recip := Like{LikerID: likedID, LikedID: likerID, Liked: true}
				db.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "liker_id"}, {Name: "liked_id"}},
					DoUpdates: clause.AssignmentColumns([]string{"liked", "updated_at"}),
				}).Create(&recip)

				match := Match{User1ID: min(likerID, likedID), User2ID: max(likerID, likedID)}
				db.Clauses(clause.OnConflict{DoNothing: true}).Create(&match)
			}

			like := Like{LikerID: likerID, LikedID: likedID, Liked: liked}
			if err := db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "liker_id"}, {Name: "liked_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"liked", "updated_at"}),
			}).Create(&like).Error; err != nil {
				return fmt.Errorf("failed to seed like: %w", err)
			}

			counter++
		}
	}

	return nil
}
