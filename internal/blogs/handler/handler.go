package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	apperrors "dentalave/pkg/errors"
	apphttp "dentalave/pkg/http"
	"dentalave/pkg/logger"
	"dentalave/pkg/middleware"
	"dentalave/pkg/model"
)

type Service interface {
	Create(ctx context.Context, input *model.BlogInput) (*model.Blog, error)
	List(ctx context.Context) ([]model.Blog, error)
	GetByID(ctx context.Context, id int64) (*model.Blog, error)
	GetBySlug(ctx context.Context, slug string) (*model.Blog, error)
	Update(ctx context.Context, id int64, input *model.BlogInput) (*model.Blog, error)
	Delete(ctx context.Context, id int64) error
}

type BlogHandler struct {
	service  Service
	verifier middleware.TokenVerifier
	log      *logger.Logger
}

func NewBlogHandler(service Service, verifier middleware.TokenVerifier, log *logger.Logger) *BlogHandler {
	return &BlogHandler{service: service, verifier: verifier, log: log}
}

// RegisterRoutes exposes reads publicly and gates writes behind the admin
// token.
func (h *BlogHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/blogs", h.List)
	router.GET("/api/blogs/:id", h.GetOne)

	router.POST("/api/blogs", middleware.RequireAdmin(h.verifier, h.log, h.Create))
	router.PUT("/api/blogs/:id", middleware.RequireAdmin(h.verifier, h.log, h.Update))
	router.DELETE("/api/blogs/:id", middleware.RequireAdmin(h.verifier, h.log, h.Delete))
}

func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	blogs, err := h.service.List(r.Context())
	if err != nil {
		apphttp.WriteError(w, err)
		return
	}
	apphttp.WriteSuccess(w, map[string]any{"blogs": blogs})
}

// GetOne resolves numeric ids by id and everything else by slug, so both
// /api/blogs/42 and /api/blogs/teeth-whitening-guide work.
func (h *BlogHandler) GetOne(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	raw := ps.ByName("id")

	var blog *model.Blog
	var err error
	if id, parseErr := strconv.ParseInt(raw, 10, 64); parseErr == nil && id > 0 {
		blog, err = h.service.GetByID(r.Context(), id)
	} else {
		blog, err = h.service.GetBySlug(r.Context(), raw)
	}
	if err != nil {
		apphttp.WriteError(w, err)
		return
	}
	apphttp.WriteSuccess(w, blog)
}

func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input model.BlogInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apphttp.WriteError(w, apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}

	blog, err := h.service.Create(r.Context(), &input)
	if err != nil {
		apphttp.WriteError(w, err)
		return
	}
	apphttp.WriteCreated(w, blog)
}

func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := parseID(ps.ByName("id"))
	if err != nil {
		apphttp.WriteError(w, err)
		return
	}

	var input model.BlogInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apphttp.WriteError(w, apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}

	blog, err := h.service.Update(r.Context(), id, &input)
	if err != nil {
		apphttp.WriteError(w, err)
		return
	}
	apphttp.WriteSuccess(w, blog)
}

func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := parseID(ps.ByName("id"))
	if err != nil {
		apphttp.WriteError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		apphttp.WriteError(w, err)
		return
	}
	apphttp.WriteNoContent(w)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, apperrors.InvalidInput("Blog id must be a positive integer")
	}
	return id, nil
}
