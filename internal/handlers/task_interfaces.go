package handlers

import (
	"context"

	"github.com/taskvault/taskvault-backend/internal/models"
)

// TaskServiceInterface abstracts the task service so handlers can be
// tested without a database.
type TaskServiceInterface interface {
	CreateTask(ctx context.Context, userID int64, req *models.TaskCreate) (*models.Task, error)
	GetTask(ctx context.Context, userID, taskID int64) (*models.Task, error)
	ListTasks(ctx context.Context, userID int64) ([]*models.Task, error)
	UpdateTask(ctx context.Context, userID, taskID int64, update *models.TaskUpdate) (*models.Task, error)
	DeleteTask(ctx context.Context, userID, taskID int64) (bool, error)
	ListTags(ctx context.Context, userID int64) ([]string, error)
}
