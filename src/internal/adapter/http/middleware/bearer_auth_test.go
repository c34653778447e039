package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

type stubVerifier struct {
	userID uuid.UUID
}

func (v stubVerifier) Verify(raw string) (uuid.UUID, error) {
	if raw != "valid-token" {
		return uuid.Nil, errors.New("invalid or expired token")
	}
	return v.userID, nil
}

func TestBearerAuth_AllowsValidToken(t *testing.T) {
	userID := uuid.New()
	mw := BearerAuth(stubVerifier{userID: userID})

	var seen uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := RequesterID(r.Context())
		if !ok {
			t.Fatal("requester id missing from context")
		}
		seen = id
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer valid-token")

	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if seen != userID {
		t.Fatalf("expected requester %s, got %s", userID, seen)
	}
}

func TestBearerAuth_RejectsMissingToken(t *testing.T) {
	mw := BearerAuth(stubVerifier{userID: uuid.New()})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)

	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

func TestBearerAuth_RejectsInvalidToken(t *testing.T) {
	mw := BearerAuth(stubVerifier{userID: uuid.New()})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer forged")

	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}
