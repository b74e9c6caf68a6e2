package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apperrors "dentalave/pkg/errors"
	apphttp "dentalave/pkg/http"
	"dentalave/pkg/logger"
	"dentalave/pkg/middleware"
	"dentalave/pkg/model"
)

type LoginService interface {
	Login(req model.LoginRequest) (*model.LoginResponse, error)
}

type AuthHandler struct {
	service LoginService
	log     *logger.Logger
}

func NewAuthHandler(service LoginService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{service: service, log: log}
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/login", h.Login)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apphttp.WriteError(w, apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}

	resp, err := h.service.Login(req)
	if err != nil {
		apphttp.WriteError(w, err)
		return
	}

	h.log.Info("Login token issued",
		"request_id", middleware.RequestID(r.Context()),
		"expires_in", resp.ExpiresIn,
	)

	apphttp.WriteSuccess(w, resp)
}
