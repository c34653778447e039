package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/axis-pay/ledger-service/src/internal/domain"
	"github.com/axis-pay/ledger-service/src/internal/usecase/services"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	tokens := services.NewTokenService("test-secret", "axis-pay-test", time.Hour)
	user := domain.User{ID: uuid.New()}

	raw, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	got, err := tokens.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != user.ID {
		t.Fatalf("expected subject %s, got %s", user.ID, got)
	}
}

func TestTokenServiceRejectsGarbage(t *testing.T) {
	tokens := services.NewTokenService("test-secret", "axis-pay-test", time.Hour)

	if _, err := tokens.Verify("not-a-token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenServiceRejectsExpired(t *testing.T) {
	tokens := services.NewTokenService("test-secret", "axis-pay-test", -time.Minute)

	raw, err := tokens.Issue(domain.User{ID: uuid.New()})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := tokens.Verify(raw); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenServiceRejectsWrongSecretAndIssuer(t *testing.T) {
	issuing := services.NewTokenService("secret-a", "axis-pay-test", time.Hour)
	raw, err := issuing.Issue(domain.User{ID: uuid.New()})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	otherSecret := services.NewTokenService("secret-b", "axis-pay-test", time.Hour)
	if _, err := otherSecret.Verify(raw); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	otherIssuer := services.NewTokenService("secret-a", "someone-else", time.Hour)
	if _, err := otherIssuer.Verify(raw); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong issuer, got %v", err)
	}
}
