package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"barberbook/internal/booking/service"
	apperrors "barberbook/pkg/errors"
	"barberbook/pkg/logger"
	"barberbook/pkg/middleware"
	"barberbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// Mock service for testing
type mockBookingService struct {
	createFunc       func(ctx context.Context, identity model.Identity, req service.CreateRequest) (*service.CreateResult, error)
	updateStatusFunc func(ctx context.Context, identity model.Identity, bookingID, targetUserID, status string) error
	listAllFunc      func(ctx context.Context, identity model.Identity) ([]model.Booking, error)
}

func (m *mockBookingService) Create(ctx context.Context, identity model.Identity, req service.CreateRequest) (*service.CreateResult, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, identity, req)
	}
	return &service.CreateResult{}, nil
}

func (m *mockBookingService) UpdateStatus(ctx context.Context, identity model.Identity, bookingID, targetUserID, status string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, identity, bookingID, targetUserID, status)
	}
	return nil
}

func (m *mockBookingService) ListAll(ctx context.Context, identity model.Identity) ([]model.Booking, error) {
	if m.listAllFunc != nil {
		return m.listAllFunc(ctx, identity)
	}
	return []model.Booking{}, nil
}

func withIdentity(r *http.Request, identity model.Identity) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.IdentityKey, identity)
	return r.WithContext(ctx)
}

func testIdentity() model.Identity {
	return model.Identity{
		ID:    "user-1",
		Email: "dana@example.com",
		Metadata: model.Metadata{
			Name:  "Dana",
			Phone: "+1 555 0100",
		},
	}
}

func TestCreate_ReturnsCreatedResult(t *testing.T) {
	var received service.CreateRequest
	mockService := &mockBookingService{
		createFunc: func(_ context.Context, identity model.Identity, req service.CreateRequest) (*service.CreateResult, error) {
			received = req
			return &service.CreateResult{
				Booking:       model.Booking{ID: "b-1", UserID: identity.ID, Status: model.StatusUpcoming},
				PointsAwarded: 45,
				TotalPoints:   45,
			}, nil
		},
	}
	handler := NewBookingHandler(mockService, logger.Discard())

	body := `{"service":"Haircut & Style","barber":"Dardan","date":"2026-09-15","time":"10:30 AM","price":"$45"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req = withIdentity(req, testIdentity())
	w := httptest.NewRecorder()

	handler.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	if received.Service != "Haircut & Style" || received.Price != "$45" {
		t.Errorf("service received %+v", received)
	}

	var response struct {
		Data service.CreateResult `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Data.Booking.ID != "b-1" || response.Data.PointsAwarded != 45 {
		t.Errorf("response = %+v", response.Data)
	}
}

func TestCreate_MalformedBody(t *testing.T) {
	handler := NewBookingHandler(&mockBookingService{}, logger.Discard())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader("{not json"))
	req = withIdentity(req, testIdentity())
	w := httptest.NewRecorder()

	handler.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreate_NoIdentityInContext(t *testing.T) {
	called := false
	mockService := &mockBookingService{
		createFunc: func(context.Context, model.Identity, service.CreateRequest) (*service.CreateResult, error) {
			called = true
			return nil, nil
		},
	}
	handler := NewBookingHandler(mockService, logger.Discard())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	handler.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if called {
		t.Error("service reached without identity")
	}
}

func TestCreate_ServiceErrorMapped(t *testing.T) {
	mockService := &mockBookingService{
		createFunc: func(context.Context, model.Identity, service.CreateRequest) (*service.CreateResult, error) {
			return nil, apperrors.Validation("Invalid booking input", nil)
		},
	}
	handler := NewBookingHandler(mockService, logger.Discard())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{}`))
	req = withIdentity(req, testIdentity())
	w := httptest.NewRecorder()

	handler.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	var response struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Code != apperrors.CodeValidation {
		t.Errorf("code = %q, want %q", response.Code, apperrors.CodeValidation)
	}
}

func TestListAll_ForbiddenForCustomer(t *testing.T) {
	mockService := &mockBookingService{
		listAllFunc: func(context.Context, model.Identity) ([]model.Booking, error) {
			return nil, apperrors.Forbidden("Employee role required")
		},
	}
	handler := NewBookingHandler(mockService, logger.Discard())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/bookings", nil)
	req = withIdentity(req, testIdentity())
	w := httptest.NewRecorder()

	handler.ListAll(w, req, httprouter.Params{})

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestListAll_ReturnsBookings(t *testing.T) {
	mockService := &mockBookingService{
		listAllFunc: func(context.Context, model.Identity) ([]model.Booking, error) {
			return []model.Booking{
				{ID: "b-1", UserID: "user-1"},
				{ID: "b-2", UserID: "user-2"},
			}, nil
		},
	}
	handler := NewBookingHandler(mockService, logger.Discard())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/bookings", nil)
	req = withIdentity(req, testIdentity())
	w := httptest.NewRecorder()

	handler.ListAll(w, req, httprouter.Params{})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var response struct {
		Data []model.Booking `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Data) != 2 {
		t.Errorf("got %d bookings, want 2", len(response.Data))
	}
}

func TestUpdateStatus_PassesRouteAndBodyParameters(t *testing.T) {
	var gotBookingID, gotUserID, gotStatus string
	mockService := &mockBookingService{
		updateStatusFunc: func(_ context.Context, _ model.Identity, bookingID, targetUserID, status string) error {
			gotBookingID = bookingID
			gotUserID = targetUserID
			gotStatus = status
			return nil
		},
	}
	handler := NewBookingHandler(mockService, logger.Discard())

	body := `{"userId":"user-9","status":"completed"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/bookings/b-7", strings.NewReader(body))
	req = withIdentity(req, testIdentity())
	w := httptest.NewRecorder()

	handler.UpdateStatus(w, req, httprouter.Params{{Key: "id", Value: "b-7"}})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotBookingID != "b-7" || gotUserID != "user-9" || gotStatus != "completed" {
		t.Errorf("got %q/%q/%q", gotBookingID, gotUserID, gotStatus)
	}
}

func TestUpdateStatus_UnknownBooking(t *testing.T) {
	mockService := &mockBookingService{
		updateStatusFunc: func(_ context.Context, _ model.Identity, bookingID, _, _ string) error {
			return apperrors.NotFoundWithID("Booking", bookingID)
		},
	}
	handler := NewBookingHandler(mockService, logger.Discard())

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/bookings/missing", strings.NewReader(`{"status":"cancelled"}`))
	req = withIdentity(req, testIdentity())
	w := httptest.NewRecorder()

	handler.UpdateStatus(w, req, httprouter.Params{{Key: "id", Value: "missing"}})

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
