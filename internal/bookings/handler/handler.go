package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apperrors "dentalave/pkg/errors"
	apphttp "dentalave/pkg/http"
	"dentalave/pkg/logger"
	"dentalave/pkg/middleware"
	"dentalave/pkg/model"
)

type Service interface {
	Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	List(ctx context.Context) ([]model.Booking, error)
}

type BookingHandler struct {
	service  Service
	verifier middleware.TokenVerifier
	log      *logger.Logger
}

func NewBookingHandler(service Service, verifier middleware.TokenVerifier, log *logger.Logger) *BookingHandler {
	return &BookingHandler{service: service, verifier: verifier, log: log}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/bookings", h.Create)
	router.GET("/api/bookings", middleware.RequireAdmin(h.verifier, h.log, h.List))
}

// Create handles a public booking submission.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apphttp.WriteError(w, apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}

	booking, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.log.Warn("Booking creation failed",
			"request_id", middleware.RequestID(r.Context()),
			"error", err,
		)
		apphttp.WriteError(w, err)
		return
	}

	h.log.Info("Booking created",
		"request_id", middleware.RequestID(r.Context()),
		"booking_id", booking.ID.Hex(),
	)

	apphttp.WriteCreated(w, map[string]any{
		"id":      booking.ID.Hex(),
		"message": "Booking confirmed",
	})
}

// List returns every booking, newest first. Admin only.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookings, err := h.service.List(r.Context())
	if err != nil {
		h.log.Warn("Booking list failed",
			"request_id", middleware.RequestID(r.Context()),
			"error", err,
		)
		apphttp.WriteError(w, err)
		return
	}

	apphttp.WriteSuccess(w, map[string]any{"bookings": bookings})
}
