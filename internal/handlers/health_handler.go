package handlers

import (
	"net/http"

	"github.com/taskvault/taskvault-backend/internal/database"
	"github.com/taskvault/taskvault-backend/internal/utils"
)

// HealthHandler reports service and database liveness.
type HealthHandler struct {
	db *database.Pool
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *database.Pool) *HealthHandler {
	return &HealthHandler{
		db: db,
	}
}

// Health returns 200 when the service and its database are reachable,
// 503 otherwise.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(r.Context()); err != nil {
		utils.Error(w, http.StatusServiceUnavailable, "unavailable", "Database is unreachable", nil)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
