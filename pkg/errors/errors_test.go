package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestConstructorsSetCodeAndStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{name: "invalid input", err: InvalidInput("bad"), wantCode: CodeInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "validation", err: Validation("bad", nil), wantCode: CodeValidation, wantStatus: http.StatusUnprocessableEntity},
		{name: "unauthenticated", err: Unauthenticated("no"), wantCode: CodeUnauthenticated, wantStatus: http.StatusUnauthorized},
		{name: "forbidden", err: Forbidden("no"), wantCode: CodeForbidden, wantStatus: http.StatusForbidden},
		{name: "not found", err: NotFound("Booking"), wantCode: CodeNotFound, wantStatus: http.StatusNotFound},
		{name: "conflict", err: Conflict("dup"), wantCode: CodeConflict, wantStatus: http.StatusConflict},
		{name: "insufficient balance", err: InsufficientBalance("low"), wantCode: CodeInsufficientBalance, wantStatus: http.StatusConflict},
		{name: "persistence", err: Persistence("db", errors.New("io")), wantCode: CodePersistence, wantStatus: http.StatusInternalServerError},
		{name: "internal", err: Internal("boom", nil), wantCode: CodeInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", tt.err.Code, tt.wantCode)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("status = %d, want %d", tt.err.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestErrorIncludesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Persistence("Failed to write", cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
	msg := err.Error()
	if msg != "PERSISTENCE_FAILURE: Failed to write (caused by: connection refused)" {
		t.Errorf("message = %q", msg)
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("Booking")

	if got := AsAppError(appErr); got.Code != CodeNotFound {
		t.Errorf("got %+v", got)
	}

	plain := AsAppError(errors.New("plain"))
	if plain.Code != CodeInternal {
		t.Errorf("plain error mapped to %q, want %q", plain.Code, CodeInternal)
	}
}

func TestHasCode(t *testing.T) {
	err := Forbidden("no")

	if !HasCode(err, CodeForbidden) {
		t.Error("HasCode missed the code")
	}
	if HasCode(err, CodeNotFound) {
		t.Error("HasCode matched wrong code")
	}
	if HasCode(nil, CodeForbidden) {
		t.Error("HasCode matched nil error")
	}
	if HasCode(errors.New("plain"), CodeForbidden) {
		t.Error("HasCode matched plain error")
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Booking", "b-7")
	if err.Details["id"] != "b-7" {
		t.Errorf("details = %+v", err.Details)
	}
}
