package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"dentalave/pkg/client"
	apphttp "dentalave/pkg/http"
	"dentalave/pkg/logger"
)

type HealthHandler struct {
	manager *client.Manager
	log     *logger.Logger
}

func NewHealthHandler(manager *client.Manager, log *logger.Logger) *HealthHandler {
	return &HealthHandler{manager: manager, log: log}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/health", h.Health)
	router.GET("/api/db-check", h.DBCheck)
}

// Health reports process liveness only. It never touches the database.
func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	apphttp.WriteSuccess(w, map[string]string{"status": "ok"})
}

// DBCheck forces a connection attempt and reports the manager state. Used
// to diagnose deployments where the URI is wrong or the cluster is down.
func (h *HealthHandler) DBCheck(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := h.manager.EnsureReady(r.Context()); err != nil {
		h.log.Warn("Database check failed", "error", err, "state", h.manager.State().String())
		apphttp.WriteError(w, err)
		return
	}

	apphttp.WriteSuccess(w, map[string]string{
		"status":   "ok",
		"database": h.manager.State().String(),
	})
}
