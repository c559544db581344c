package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/taskvault/taskvault-backend/internal/models"
	"github.com/taskvault/taskvault-backend/internal/repository"
	"github.com/taskvault/taskvault-backend/internal/utils"
)

// TaskService handles task and tag operations for a single account.
type TaskService struct {
	taskRepo repository.TaskRepository
	tagRepo  repository.TagRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, tagRepo repository.TagRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		tagRepo:  tagRepo,
	}
}

// CreateTask creates a task for the given account, applying defaults
// for the optional fields and creating any unknown tags on the fly.
func (s *TaskService) CreateTask(ctx context.Context, userID int64, req *models.TaskCreate) (*models.Task, error) {
	if req.Title == "" {
		return nil, utils.NewValidationError("title", "Title is required")
	}
	if req.Priority != "" && !req.Priority.Valid() {
		return nil, utils.NewValidationError("priority", "Priority must be one of High, Medium, Low")
	}
	if req.Recurrence != "" && !req.Recurrence.Valid() {
		return nil, utils.NewValidationError("recurrence", "Recurrence must be one of None, Daily, Weekly, Monthly")
	}

	task := models.NewTask(userID, req)
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

// GetTask retrieves a single task owned by the given account.
func (s *TaskService) GetTask(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	return s.taskRepo.GetByID(ctx, taskID, userID)
}

// ListTasks retrieves all tasks owned by the given account.
func (s *TaskService) ListTasks(ctx context.Context, userID int64) ([]*models.Task, error) {
	return s.taskRepo.ListByUser(ctx, userID)
}

// UpdateTask applies a partial update to a task owned by the given
// account. Completing a recurring task spawns the next instance: a new
// open task with the same fields and the due date advanced by the
// recurrence interval.
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID int64, update *models.TaskUpdate) (*models.Task, error) {
	if update.Empty() {
		return nil, utils.NewBadRequestError("No fields to update")
	}
	if update.Title != nil && *update.Title == "" {
		return nil, utils.NewValidationError("title", "Title cannot be empty")
	}
	if update.Priority != nil && !update.Priority.Valid() {
		return nil, utils.NewValidationError("priority", "Priority must be one of High, Medium, Low")
	}
	if update.Recurrence != nil && !update.Recurrence.Valid() {
		return nil, utils.NewValidationError("recurrence", "Recurrence must be one of None, Daily, Weekly, Monthly")
	}

	// The pre-update state decides whether this update completes the
	// task for the first time.
	before, err := s.taskRepo.GetByID(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}

	matched, err := s.taskRepo.Update(ctx, taskID, userID, update)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, utils.NewNotFoundError("Task", taskID)
	}

	task, err := s.taskRepo.GetByID(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}

	if !before.Completed && task.Completed {
		if err := s.regenerateRecurring(ctx, task); err != nil {
			// The completion itself stands; a failed respawn is logged
			// so the user can recreate the task by hand.
			log.Error().Err(err).
				Int64("task_id", task.ID).
				Int64("user_id", task.UserID).
				Msg("Failed to regenerate recurring task")
		}
	}

	return task, nil
}

// DeleteTask removes a task owned by the given account. It reports
// false when no row matched; repeated deletes are quiet no-ops, not
// errors.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID int64) (bool, error) {
	return s.taskRepo.Delete(ctx, taskID, userID)
}

// ListTags retrieves the account's full tag vocabulary, including tags
// no longer linked to any task.
func (s *TaskService) ListTags(ctx context.Context, userID int64) ([]string, error) {
	return s.tagRepo.ListNamesByUser(ctx, userID)
}

// regenerateRecurring creates the follow-up instance of a completed
// recurring task. Tasks without a due date have no anchor to advance
// from and are left alone.
func (s *TaskService) regenerateRecurring(ctx context.Context, completed *models.Task) error {
	if completed.DueDate == nil {
		return nil
	}

	nextDue, ok := completed.Recurrence.NextDue(completed.DueDate.Time)
	if !ok {
		return nil
	}

	due := models.Date{Time: nextDue}
	next := &models.Task{
		UserID:      completed.UserID,
		Title:       completed.Title,
		Description: completed.Description,
		Category:    completed.Category,
		DueDate:     &due,
		Priority:    completed.Priority,
		Recurrence:  completed.Recurrence,
		Completed:   false,
		CreatedAt:   time.Now(),
		Tags:        completed.Tags,
	}

	if err := s.taskRepo.Create(ctx, next); err != nil {
		return fmt.Errorf("failed to create next instance: %w", err)
	}

	log.Info().
		Int64("completed_task_id", completed.ID).
		Int64("next_task_id", next.ID).
		Str("next_due", due.Format("2006-01-02")).
		Msg("Recurring task regenerated")

	return nil
}
