package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taskvault/taskvault-backend/internal/constants"
	"github.com/taskvault/taskvault-backend/internal/middleware"
	"github.com/taskvault/taskvault-backend/internal/models"
	"github.com/taskvault/taskvault-backend/internal/utils"
)

// TaskHandler handles task and tag routes. Every route requires an
// authenticated account; the account ID always comes from the verified
// token, never from the request body.
type TaskHandler struct {
	taskService TaskServiceInterface
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService TaskServiceInterface) *TaskHandler {
	if taskService == nil {
		panic("taskService cannot be nil")
	}
	return &TaskHandler{
		taskService: taskService,
	}
}

// taskIDFromRequest extracts and parses the task ID path parameter.
func taskIDFromRequest(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, constants.ParamTaskID), 10, 64)
}

// ListTasks returns all tasks owned by the authenticated account.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, "Authentication required")
		return
	}

	tasks, err := h.taskService.ListTasks(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, tasks)
}

// CreateTask creates a task for the authenticated account.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, "Authentication required")
		return
	}

	var req models.TaskCreate
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), userID, &req)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusCreated, task)
}

// GetTask returns a single task owned by the authenticated account.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, "Authentication required")
		return
	}

	taskID, err := taskIDFromRequest(r)
	if err != nil {
		utils.BadRequest(w, "Invalid task ID", nil)
		return
	}

	task, err := h.taskService.GetTask(r.Context(), userID, taskID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, task)
}

// UpdateTask applies a partial update to a task owned by the
// authenticated account.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, "Authentication required")
		return
	}

	taskID, err := taskIDFromRequest(r)
	if err != nil {
		utils.BadRequest(w, "Invalid task ID", nil)
		return
	}

	var update models.TaskUpdate
	if err := utils.DecodeAndValidate(r, &update); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), userID, taskID, &update)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, task)
}

// DeleteTask removes a task owned by the authenticated account.
// Deleting a task that is already gone reports deleted=false rather
// than an error, so the operation can be retried safely.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, "Authentication required")
		return
	}

	taskID, err := taskIDFromRequest(r)
	if err != nil {
		utils.BadRequest(w, "Invalid task ID", nil)
		return
	}

	deleted, err := h.taskService.DeleteTask(r.Context(), userID, taskID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

// ListTags returns the authenticated account's full tag vocabulary.
func (h *TaskHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, "Authentication required")
		return
	}

	tags, err := h.taskService.ListTags(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, tags)
}
