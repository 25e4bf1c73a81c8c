package auth

import (
	"context"
	"testing"
	"time"

	"google.golang.org/grpc/metadata"

	"garageQueue/models"
)

const testSecret = "test-secret"

func TestSignAndParseFromMD(t *testing.T) {
	tok, err := Sign(testSecret, Principal{UserID: "uid-1", Email: "a@example.com", Role: models.RoleAdmin}, time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+tok))
	p, err := ParseFromMD(ctx, testSecret)
	if err != nil {
		t.Fatalf("ParseFromMD: %v", err)
	}
	if p.UserID != "uid-1" || p.Email != "a@example.com" || p.Role != models.RoleAdmin {
		t.Fatalf("principal mismatch: %+v", p)
	}
}

func TestParseFromMD_MissingHeader(t *testing.T) {
	if _, err := ParseFromMD(context.Background(), testSecret); err == nil {
		t.Fatalf("expected error for missing metadata")
	}
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Basic abc"))
	if _, err := ParseFromMD(ctx, testSecret); err == nil {
		t.Fatalf("expected error for non-bearer scheme")
	}
}

func TestParseJWT_WrongSecretAndExpiry(t *testing.T) {
	tok, err := Sign(testSecret, Principal{UserID: "uid-2"}, time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := parseJWT(tok, "wrong"); err == nil {
		t.Fatalf("expected error for wrong secret")
	}
	expired, err := Sign(testSecret, Principal{UserID: "uid-2"}, -time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := parseJWT(expired, testSecret); err == nil {
		t.Fatalf("expected error for expired token")
	}
}

func TestParseJWT_UnknownRoleIsUser(t *testing.T) {
	tok, err := Sign(testSecret, Principal{UserID: "uid-3", Role: "superuser"}, time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	p, err := parseJWT(tok, testSecret)
	if err != nil {
		t.Fatalf("parseJWT: %v", err)
	}
	if p.Role != models.RoleUser {
		t.Fatalf("unknown role should degrade to user, got %q", p.Role)
	}
}

func TestSign_RequiresSubjectAndSecret(t *testing.T) {
	if _, err := Sign("", Principal{UserID: "x"}, time.Minute); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := Sign(testSecret, Principal{}, time.Minute); err == nil {
		t.Fatalf("expected error for empty subject")
	}
}
