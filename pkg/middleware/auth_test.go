package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"barberbook/pkg/logger"
	"barberbook/pkg/model"
)

type mockVerifier struct {
	verifyFunc func(ctx context.Context, token string) (model.Identity, error)
}

func (m *mockVerifier) Verify(ctx context.Context, token string) (model.Identity, error) {
	if m.verifyFunc != nil {
		return m.verifyFunc(ctx, token)
	}
	return model.Identity{}, errors.New("not configured")
}

func TestAuthenticate_StoresIdentityInContext(t *testing.T) {
	verifier := &mockVerifier{
		verifyFunc: func(_ context.Context, token string) (model.Identity, error) {
			if token != "good-token" {
				return model.Identity{}, errors.New("bad token")
			}
			return model.Identity{ID: "user-1", Email: "dana@example.com"}, nil
		},
	}

	var got model.Identity
	handler := Authenticate(verifier, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := IdentityFrom(r.Context())
		if err != nil {
			t.Errorf("no identity in context: %v", err)
		}
		got = identity
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got.ID != "user-1" {
		t.Errorf("identity = %+v", got)
	}
}

func TestAuthenticate_RejectsMissingAndBadTokens(t *testing.T) {
	verifier := &mockVerifier{
		verifyFunc: func(context.Context, string) (model.Identity, error) {
			return model.Identity{}, errors.New("invalid")
		},
	}

	reached := false
	handler := Authenticate(verifier, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "invalid token", header: "Bearer bad-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
		})
	}

	if reached {
		t.Error("handler reached without valid token")
	}
}

func TestIdentityFrom_MissingIdentity(t *testing.T) {
	_, err := IdentityFrom(context.Background())
	if err == nil {
		t.Error("expected error for context without identity")
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "bearer prefix", header: "Bearer abc123", want: "abc123"},
		{name: "lowercase prefix", header: "bearer abc123", want: "abc123"},
		{name: "raw token", header: "abc123", want: "abc123"},
		{name: "empty", header: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if got := bearerToken(req); got != tt.want {
				t.Errorf("bearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}
