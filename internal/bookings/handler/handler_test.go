package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "dentalave/pkg/errors"
	"dentalave/pkg/logger"
	"dentalave/pkg/model"
)

type mockService struct {
	createFn func(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	listFn   func(ctx context.Context) ([]model.Booking, error)
}

func (m *mockService) Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	return m.createFn(ctx, req)
}

func (m *mockService) List(ctx context.Context) ([]model.Booking, error) {
	return m.listFn(ctx)
}

type mockVerifier struct {
	admin *model.AdminToken
	err   error
}

func (m *mockVerifier) Verify(string) (*model.AdminToken, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.admin, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT})
}

func newTestRouter(service *mockService, verifier *mockVerifier) *httprouter.Router {
	router := httprouter.New()
	NewBookingHandler(service, verifier, testLogger()).RegisterRoutes(router)
	return router
}

func allowAdmin() *mockVerifier {
	return &mockVerifier{admin: &model.AdminToken{Subject: "admin@example.com", Role: "admin"}}
}

const validBody = `{
	"firstName": "Jordan",
	"lastName": "Lee",
	"email": "jordan@example.com",
	"phone": "+15550100",
	"date": "2026-10-01T09:30:00Z"
}`

func TestCreateBookingReturns201(t *testing.T) {
	id := primitive.NewObjectID()
	service := &mockService{
		createFn: func(_ context.Context, req *model.BookingRequest) (*model.Booking, error) {
			if req.FirstName != "Jordan" {
				t.Errorf("expected firstName Jordan, got %s", req.FirstName)
			}
			return &model.Booking{ID: id, FirstName: req.FirstName}, nil
		},
	}

	router := newTestRouter(service, allowAdmin())

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(validBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["id"] != id.Hex() {
		t.Errorf("expected id %s, got %s", id.Hex(), resp["id"])
	}
	if resp["message"] != "Booking confirmed" {
		t.Errorf("expected confirmation message, got %q", resp["message"])
	}
}

func TestCreateBookingInvalidJSON(t *testing.T) {
	service := &mockService{
		createFn: func(context.Context, *model.BookingRequest) (*model.Booking, error) {
			t.Fatal("service should not be called for malformed JSON")
			return nil, nil
		},
	}

	router := newTestRouter(service, allowAdmin())

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestCreateBookingErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", apperrors.Validation("Missing required fields", nil), http.StatusBadRequest},
		{"config", apperrors.Config("MONGO_URI environment variable is not set", nil), http.StatusInternalServerError},
		{"unavailable", apperrors.Unavailable("database", nil), http.StatusServiceUnavailable},
		{"persistence", apperrors.Persistence("Failed to save booking", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &mockService{
				createFn: func(context.Context, *model.BookingRequest) (*model.Booking, error) {
					return nil, tt.err
				},
			}

			router := newTestRouter(service, allowAdmin())

			req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(validBody))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}

			var resp map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if _, ok := resp["error"]; !ok {
				t.Error("expected an error field in the response body")
			}
		})
	}
}

func TestListBookingsRequiresAuth(t *testing.T) {
	service := &mockService{
		listFn: func(context.Context) ([]model.Booking, error) {
			t.Fatal("service should not be called without credentials")
			return nil, nil
		},
	}

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"empty token", "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(service, allowAdmin())

			req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected status 401, got %d", rec.Code)
			}
		})
	}
}

func TestListBookingsRejectsBadToken(t *testing.T) {
	service := &mockService{
		listFn: func(context.Context) ([]model.Booking, error) {
			t.Fatal("service should not be called with a rejected token")
			return nil, nil
		},
	}
	verifier := &mockVerifier{err: apperrors.Unauthorized("Invalid or expired token")}

	router := newTestRouter(service, verifier)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestListBookingsReturnsWrappedArray(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	service := &mockService{
		listFn: func(context.Context) ([]model.Booking, error) {
			return []model.Booking{
				{ID: primitive.NewObjectID(), FirstName: "Newest", CreatedAt: now},
				{ID: primitive.NewObjectID(), FirstName: "Oldest", CreatedAt: now.Add(-time.Hour)},
			}, nil
		},
	}

	router := newTestRouter(service, allowAdmin())

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Bookings []model.Booking `json:"bookings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Bookings) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(resp.Bookings))
	}
	if resp.Bookings[0].FirstName != "Newest" {
		t.Errorf("expected newest booking first, got %s", resp.Bookings[0].FirstName)
	}
}

func TestListBookingsEmpty(t *testing.T) {
	service := &mockService{
		listFn: func(context.Context) ([]model.Booking, error) {
			return []model.Booking{}, nil
		},
	}

	router := newTestRouter(service, allowAdmin())

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"bookings":[]`) {
		t.Errorf("expected empty bookings array, got %s", rec.Body.String())
	}
}
