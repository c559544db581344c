package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/taskvault/taskvault-backend/internal/constants"
	"github.com/taskvault/taskvault-backend/internal/database"
	"github.com/taskvault/taskvault-backend/internal/models"
	"github.com/taskvault/taskvault-backend/internal/utils"
)

// TaskRepository defines methods for interacting with task data.
// Every mutation is scoped by (task_id, user_id) so one account can
// never affect another account's task.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, taskID, userID int64) (*models.Task, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Task, error)
	Update(ctx context.Context, taskID, userID int64, update *models.TaskUpdate) (bool, error)
	Delete(ctx context.Context, taskID, userID int64) (bool, error)
}

// PostgresTaskRepository is a PostgreSQL implementation of TaskRepository
type PostgresTaskRepository struct {
	db *database.Pool
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *database.Pool) TaskRepository {
	return &PostgresTaskRepository{
		db: db,
	}
}

// taskSelect aggregates each task's tag names into a text array so a
// task and its resolved tag list come back in one row.
const taskSelect = `
        SELECT t.task_id, t.user_id, t.title, COALESCE(t.description, ''), COALESCE(t.category, ''),
               t.due_date, t.priority, t.recurrence, t.completed, t.created_at,
               COALESCE(array_agg(tg.name ORDER BY tg.name) FILTER (WHERE tg.name IS NOT NULL), '{}')
        FROM ` + constants.TableTasks + ` t
        LEFT JOIN ` + constants.TableTaskTags + ` tt ON t.task_id = tt.task_id
        LEFT JOIN ` + constants.TableTags + ` tg ON tt.tag_id = tg.tag_id
    `

// scanTask scans one aggregated task row from either a *sql.Row or *sql.Rows.
func scanTask(scan func(dest ...interface{}) error) (*models.Task, error) {
	task := &models.Task{}
	var due models.Date
	var tags pq.StringArray

	err := scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Category,
		&due,
		&task.Priority,
		&task.Recurrence,
		&task.Completed,
		&task.CreatedAt,
		&tags,
	)
	if err != nil {
		return nil, err
	}

	if !due.IsZero() {
		task.DueDate = &due
	}
	task.Tags = []string(tags)
	return task, nil
}

// Create adds a new task and links its tags atomically.
// Tags that do not yet exist for the owning account are created
// transparently inside the same transaction.
func (r *PostgresTaskRepository) Create(ctx context.Context, task *models.Task) error {
	// Start query timer
	startTime := time.Now()

	err := r.db.Transaction(ctx, func(tx *sql.Tx) error {
		query := `
            INSERT INTO ` + constants.TableTasks + ` (user_id, title, description, category, due_date, priority, recurrence, completed, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
            RETURNING ` + constants.ColumnTaskID + `
        `

		var due interface{}
		if task.DueDate != nil {
			due = *task.DueDate
		}

		err := tx.QueryRowContext(
			ctx,
			query,
			task.UserID,
			task.Title,
			task.Description,
			task.Category,
			due,
			task.Priority,
			task.Recurrence,
			task.Completed,
			task.CreatedAt,
		).Scan(&task.ID)

		// Log the query execution
		utils.LogDBQuery(
			query,
			[]interface{}{task.UserID, task.Title, task.Description, task.Category, due, task.Priority, task.Recurrence, task.Completed, task.CreatedAt},
			time.Since(startTime),
			err,
		)

		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && string(pqErr.Code) == constants.PGErrForeignKeyViolation {
				return utils.NewNotFoundError("User", task.UserID)
			}
			return fmt.Errorf("failed to create task: %w", err)
		}

		return r.replaceTaskTags(ctx, tx, task.UserID, task.ID, task.Tags)
	})

	if err != nil {
		return err
	}

	log.Info().
		Int64(constants.ColumnTaskID, task.ID).
		Int64(constants.ColumnUserID, task.UserID).
		Str("title", task.Title).
		Msg("Task created")

	return nil
}

// GetByID retrieves a single task with its resolved tag list.
// The lookup is scoped by owner; a task belonging to another account is
// reported as not found.
func (r *PostgresTaskRepository) GetByID(ctx context.Context, taskID, userID int64) (*models.Task, error) {
	// Start query timer
	startTime := time.Now()

	query := taskSelect + `
        WHERE t.task_id = $1 AND t.user_id = $2
        GROUP BY t.task_id
    `

	task, err := scanTask(r.db.QueryRowContext(ctx, query, taskID, userID).Scan)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{taskID, userID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("Task", taskID)
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// ListByUser retrieves all tasks for an account ordered by creation,
// each with its resolved tag list. An account without tasks yields an
// empty slice.
func (r *PostgresTaskRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Task, error) {
	// Start query timer
	startTime := time.Now()

	query := taskSelect + `
        WHERE t.user_id = $1
        GROUP BY t.task_id
        ORDER BY t.` + constants.ColumnCreatedAt + `, t.` + constants.ColumnTaskID + `
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
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read task rows: %w", err)
	}

	return tasks, nil
}

// Update applies a partial update to a task's mutable fields.
// It returns true if a row matched (task_id, user_id), false otherwise.
// When the update carries a tag list, all prior links for the task are
// replaced by the new set within the same transaction.
func (r *PostgresTaskRepository) Update(ctx context.Context, taskID, userID int64, update *models.TaskUpdate) (bool, error) {
	// Start query timer
	startTime := time.Now()

	matched := false
	err := r.db.Transaction(ctx, func(tx *sql.Tx) error {
		setClauses := make([]string, 0, 7)
		args := make([]interface{}, 0, 9)

		appendSet := func(column string, value interface{}) {
			args = append(args, value)
			setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
		}

		if update.Title != nil {
			appendSet("title", *update.Title)
		}
		if update.Description != nil {
			appendSet("description", *update.Description)
		}
		if update.Category != nil {
			appendSet("category", *update.Category)
		}
		if update.DueDate != nil {
			appendSet("due_date", *update.DueDate)
		}
		if update.Priority != nil {
			appendSet("priority", *update.Priority)
		}
		if update.Recurrence != nil {
			appendSet("recurrence", *update.Recurrence)
		}
		if update.Completed != nil {
			appendSet("completed", *update.Completed)
		}

		if len(setClauses) > 0 {
			args = append(args, taskID, userID)
			query := fmt.Sprintf(
				"UPDATE %s SET %s WHERE %s = $%d AND %s = $%d",
				constants.TableTasks, strings.Join(setClauses, ", "),
				constants.ColumnTaskID, len(args)-1, constants.ColumnUserID, len(args),
			)

			result, err := tx.ExecContext(ctx, query, args...)

			// Log the query execution
			utils.LogDBQuery(query, args, time.Since(startTime), err)

			if err != nil {
				return fmt.Errorf("failed to update task: %w", err)
			}

			rowsAffected, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get rows affected: %w", err)
			}
			matched = rowsAffected > 0
		} else {
			// Tag-only update: verify ownership before touching links
			query := `SELECT EXISTS(SELECT 1 FROM ` + constants.TableTasks + ` WHERE task_id = $1 AND user_id = $2)`
			err := tx.QueryRowContext(ctx, query, taskID, userID).Scan(&matched)

			// Log the query execution
			utils.LogDBQuery(query, []interface{}{taskID, userID}, time.Since(startTime), err)

			if err != nil {
				return fmt.Errorf("failed to check task ownership: %w", err)
			}
		}

		if !matched {
			return nil
		}

		if update.Tags != nil {
			return r.replaceTaskTags(ctx, tx, userID, taskID, *update.Tags)
		}

		return nil
	})

	if err != nil {
		return false, err
	}

	if matched {
		log.Info().
			Int64(constants.ColumnTaskID, taskID).
			Int64(constants.ColumnUserID, userID).
			Msg("Task updated")
	}

	return matched, nil
}

// Delete removes a task. Its tag links are removed by the
// ON DELETE CASCADE constraint on task_tags; tag rows themselves are
// kept. Deleting a missing or foreign task returns false with no side
// effects, so repeated deletes are no-ops.
func (r *PostgresTaskRepository) Delete(ctx context.Context, taskID, userID int64) (bool, error) {
	// Start query timer
	startTime := time.Now()

	query := "DELETE FROM " + constants.TableTasks + " WHERE task_id = $1 AND user_id = $2"
	result, err := r.db.ExecContext(ctx, query, taskID, userID)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{taskID, userID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return false, nil
	}

	log.Info().
		Int64(constants.ColumnTaskID, taskID).
		Int64(constants.ColumnUserID, userID).
		Msg("Task deleted")

	return true, nil
}

// replaceTaskTags replaces all tag links for a task with the given set.
// Each tag name is resolved get-or-create; the upsert's DO UPDATE form
// returns the tag_id for both new and existing rows, so concurrent
// writers targeting the same name cannot produce duplicate tag rows.
func (r *PostgresTaskRepository) replaceTaskTags(ctx context.Context, tx *sql.Tx, userID, taskID int64, tags []string) error {
	deleteQuery := "DELETE FROM " + constants.TableTaskTags + " WHERE task_id = $1"
	if _, err := tx.ExecContext(ctx, deleteQuery, taskID); err != nil {
		return fmt.Errorf("failed to clear task tags: %w", err)
	}

	upsertQuery := `
        INSERT INTO ` + constants.TableTags + ` (user_id, name)
        VALUES ($1, $2)
        ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
        RETURNING ` + constants.ColumnTagID + `
    `
	linkQuery := `
        INSERT INTO ` + constants.TableTaskTags + ` (task_id, tag_id)
        VALUES ($1, $2)
        ON CONFLICT (task_id, tag_id) DO NOTHING
    `

	for _, name := range tags {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		var tagID int64
		if err := tx.QueryRowContext(ctx, upsertQuery, userID, name).Scan(&tagID); err != nil {
			return fmt.Errorf("failed to resolve tag %q: %w", name, err)
		}

		if _, err := tx.ExecContext(ctx, linkQuery, taskID, tagID); err != nil {
			return fmt.Errorf("failed to link tag %q: %w", name, err)
		}
	}

	return nil
}
