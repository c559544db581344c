package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/taskvault/taskvault-backend/internal/constants"
	"github.com/taskvault/taskvault-backend/internal/database"
	"github.com/taskvault/taskvault-backend/internal/utils"
)

// TagRepository defines methods for reading an account's tag vocabulary.
// Tags are created implicitly when tasks reference them, so the write
// path lives with the task repository.
type TagRepository interface {
	ListNamesByUser(ctx context.Context, userID int64) ([]string, error)
}

// PostgresTagRepository is a PostgreSQL implementation of TagRepository
type PostgresTagRepository struct {
	db *database.Pool
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(db *database.Pool) TagRepository {
	return &PostgresTagRepository{
		db: db,
	}
}

// ListNamesByUser retrieves every distinct tag name known to an
// account, including tags whose last task link has been removed.
func (r *PostgresTagRepository) ListNamesByUser(ctx context.Context, userID int64) ([]string, error) {
	// Start query timer
	startTime := time.Now()

	query := `
        SELECT name
        FROM ` + constants.TableTags + `
        WHERE ` + constants.ColumnUserID + ` = $1
        ORDER BY name
    `

	rows, err := r.db.QueryContext(ctx, query, userID)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{userID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan tag row: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tag rows: %w", err)
	}

	return names, nil
}
