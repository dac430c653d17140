package auth

import (
	"testing"
	"time"

	"courtsched/internal/utils"
)

func TestAuthenticateRoundTripsAGeneratedToken(t *testing.T) {
	svc := NewService(nil, "test-secret", time.Hour)

	token, err := utils.GenerateJWT("operator-1", string(RoleAdmin), "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	id, role, err := svc.Authenticate(token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if id != "operator-1" {
		t.Errorf("operatorID = %q, want %q", id, "operator-1")
	}
	if role != RoleAdmin {
		t.Errorf("role = %q, want %q", role, RoleAdmin)
	}
}

func TestAuthenticateRejectsWrongSecret(t *testing.T) {
	svc := NewService(nil, "right-secret", time.Hour)

	token, err := utils.GenerateJWT("operator-1", string(RoleOperator), "wrong-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, _, err := svc.Authenticate(token); err == nil {
		t.Fatal("expected Authenticate to reject a token signed with a different secret")
	}
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	svc := NewService(nil, "test-secret", time.Hour)

	token, err := utils.GenerateJWT("operator-1", string(RoleOperator), "test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, _, err := svc.Authenticate(token); err == nil {
		t.Fatal("expected Authenticate to reject an expired token")
	}
}
