// Package scripts provides utility scripts for database and system management.
//
// This package implements database seeding functionality to populate initial data
// for local development. The seeding system works similarly to migrations,
// tracking executed seeds to ensure they only run once, making the process
// idempotent and safe to run on both new and existing databases.
package scripts

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/taskvault/taskvault-backend/internal/auth"
	"github.com/taskvault/taskvault-backend/internal/database"
)

// Seeder handles database seeding.
// It provides methods to run seeds that populate the database
// with initial development data.
type Seeder struct {
	db *database.Pool
}

// NewSeeder creates a new seeder.
//
// Parameters:
//   - db: A database connection pool to use for seeding
//
// Returns:
//   - *Seeder: A configured seeder
func NewSeeder(db *database.Pool) *Seeder {
	return &Seeder{
		db: db,
	}
}

// SeedDatabase seeds the database with initial data.
// It creates the seeds tracking table if it doesn't exist, then runs
// all seed functions that haven't been executed yet.
//
// Parameters:
//   - ctx: Context for database operations and cancellation
//
// Returns:
//   - error: Any error encountered during seeding, nil if successful
func (s *Seeder) SeedDatabase(ctx context.Context) error {
	log.Info().Msg("Seeding database")
	startTime := time.Now()

	// Create seeds table if it doesn't exist
	if err := s.createSeedsTable(ctx); err != nil {
		return fmt.Errorf("failed to create seeds table: %w", err)
	}

	// Get executed seeds
	executedSeeds, err := s.getExecutedSeeds(ctx)
	if err != nil {
		return fmt.Errorf("failed to get executed seeds: %w", err)
	}

	// Run seeds that haven't been executed yet
	seeds := []struct {
		Name     string
		SeedFunc func(ctx context.Context, tx *sql.Tx) error
	}{
		{"demo_account", s.seedDemoAccount},
		// Add more seeds here if needed
	}

	for _, seed := range seeds {
		if !executedSeeds[seed.Name] {
			log.Info().Str("seed", seed.Name).Msg("Running seed")
			if err := s.runSeed(ctx, seed.Name, seed.SeedFunc); err != nil {
				return err
			}
		} else {
			log.Debug().Str("seed", seed.Name).Msg("Seed already executed")
		}
	}

	log.Info().
		Dur("duration", time.Since(startTime)).
		Msg("Database seeding completed")

	return nil
}

// createSeedsTable creates the seeds table if it doesn't exist.
// This table tracks which seed operations have been executed.
//
// Parameters:
//   - ctx: Context for database operations and cancellation
//
// Returns:
//   - error: Any error encountered during table creation, nil if successful
func (s *Seeder) createSeedsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS seeds (
			name VARCHAR(255) PRIMARY KEY,
			executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// getExecutedSeeds returns a map of executed seeds.
// The map keys are seed names and values are always true.
//
// Parameters:
//   - ctx: Context for database operations and cancellation
//
// Returns:
//   - map[string]bool: A map containing names of executed seeds
//   - error: Any error encountered while retrieving seeds, nil if successful
func (s *Seeder) getExecutedSeeds(ctx context.Context) (map[string]bool, error) {
	query := `SELECT name FROM seeds`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	seeds := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		seeds[name] = true
	}

	return seeds, rows.Err()
}

// runSeed runs a seed function within a transaction.
// If the seed operation fails, the transaction is rolled back.
//
// Parameters:
//   - ctx: Context for database operations and cancellation
//   - name: The name of the seed operation
//   - seedFunc: The function that performs the seeding
//
// Returns:
//   - error: Any error encountered during seeding, nil if successful
func (s *Seeder) runSeed(ctx context.Context, name string, seedFunc func(ctx context.Context, tx *sql.Tx) error) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		// Run the seed
		if err := seedFunc(ctx, tx); err != nil {
			return fmt.Errorf("seed %s failed: %w", name, err)
		}

		// Record the seed
		query := `INSERT INTO seeds (name) VALUES ($1)` // PostgreSQL syntax
		_, err := tx.ExecContext(ctx, query, name)
		if err != nil {
			return fmt.Errorf("failed to record seed: %w", err)
		}

		return nil
	})
}

// seedDemoAccount seeds a demo user with a handful of example tasks and tags.
// This gives a fresh development database something to show in the UI.
// It checks for an existing demo account to avoid duplicates.
//
// Parameters:
//   - ctx: Context for database operations and cancellation
//   - tx: The SQL transaction to use for the operation
//
// Returns:
//   - error: Any error encountered during seeding, nil if successful
func (s *Seeder) seedDemoAccount(ctx context.Context, tx *sql.Tx) error {
	// First, verify whether the demo user already exists
	var userCount int
	countQuery := `SELECT COUNT(*) FROM users WHERE username = $1`
	err := tx.QueryRowContext(ctx, countQuery, "demo").Scan(&userCount)
	if err != nil {
		return fmt.Errorf("failed to count demo users: %w", err)
	}

	if userCount > 0 {
		log.Info().Msg("Demo account already exists, skipping seed")
		return nil
	}

	passwordHash, salt, err := auth.HashPassword("demo-password", auth.DefaultPasswordConfig())
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	var userID int64
	insertUserQuery := `
        INSERT INTO users (username, email, password_hash, salt, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING user_id
    `
	now := time.Now()
	if err := tx.QueryRowContext(ctx, insertUserQuery, "demo", "demo@example.com", passwordHash, salt, now, now).Scan(&userID); err != nil {
		return fmt.Errorf("failed to insert demo user: %w", err)
	}

	tasks := []struct {
		Title      string
		Category   string
		Priority   string
		Recurrence string
		DueDate    *time.Time
		Tags       []string
	}{
		{"Review weekly budget", "Finance", "High", "Weekly", timePtr(now.AddDate(0, 0, 3)), []string{"money"}},
		{"Water the plants", "Home", "Low", "Daily", timePtr(now.AddDate(0, 0, 1)), []string{"chores"}},
		{"Prepare sprint demo", "Work", "High", "None", timePtr(now.AddDate(0, 0, 5)), []string{"office", "urgent"}},
		{"Read a chapter", "Other", "Medium", "None", nil, nil},
	}

	for _, task := range tasks {
		var taskID int64
		insertTaskQuery := `
            INSERT INTO tasks (user_id, title, description, category, due_date, priority, recurrence, completed, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
            RETURNING task_id
        `
		if err := tx.QueryRowContext(ctx, insertTaskQuery, userID, task.Title, "", task.Category, task.DueDate, task.Priority, task.Recurrence, false, now).Scan(&taskID); err != nil {
			return fmt.Errorf("failed to insert demo task %s: %w", task.Title, err)
		}

		for _, tagName := range task.Tags {
			var tagID int64
			upsertTagQuery := `
                INSERT INTO tags (user_id, name)
                VALUES ($1, $2)
                ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
                RETURNING tag_id
            `
			if err := tx.QueryRowContext(ctx, upsertTagQuery, userID, tagName).Scan(&tagID); err != nil {
				return fmt.Errorf("failed to insert demo tag %s: %w", tagName, err)
			}

			linkQuery := `INSERT INTO task_tags (task_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
			if _, err := tx.ExecContext(ctx, linkQuery, taskID, tagID); err != nil {
				return fmt.Errorf("failed to link demo tag %s: %w", tagName, err)
			}
		}
	}

	log.Info().
		Int64("user_id", userID).
		Int("tasks", len(tasks)).
		Msg("Demo account seeding completed")

	return nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}
