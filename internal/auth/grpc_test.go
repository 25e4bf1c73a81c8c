package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"garageQueue/internal/apperr"
	"garageQueue/models"
)

type stubProfiles map[string]*models.Profile

func (s stubProfiles) GetByID(_ context.Context, id string) (*models.Profile, error) {
	return s[id], nil
}

func TestRequirePrincipal(t *testing.T) {
	if _, err := RequirePrincipal(context.Background()); !apperr.IsAuthRequired(err) {
		t.Fatalf("expected AuthRequiredError, got %v", err)
	}
	ctx := WithPrincipal(context.Background(), &Principal{UserID: "u"})
	if _, err := RequirePrincipal(ctx); err != nil {
		t.Fatalf("RequirePrincipal: %v", err)
	}
}

func TestRequireAdmin_WithProfileRoleCheck(t *testing.T) {
	profiles := stubProfiles{
		"alice": &models.Profile{ID: "alice", Role: models.RoleUser},
		"root":  &models.NewAdmin("root", "Root", "root@example.com").Profile,
	}

	// Forged role claim, profile says user
	spoofed := WithPrincipal(context.Background(), &Principal{UserID: "alice", Role: models.RoleAdmin})
	if _, err := RequireAdmin(spoofed, profiles); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin profile, got %v", err)
	}

	// Plain user claim
	user := WithPrincipal(context.Background(), &Principal{UserID: "root", Role: models.RoleUser})
	if _, err := RequireAdmin(user, profiles); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for user claim, got %v", err)
	}

	// Missing profile
	ghost := WithPrincipal(context.Background(), &Principal{UserID: "ghost", Role: models.RoleAdmin})
	if _, err := RequireAdmin(ghost, profiles); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for missing profile, got %v", err)
	}

	admin := WithPrincipal(context.Background(), &Principal{UserID: "root", Role: models.RoleAdmin})
	if _, err := RequireAdmin(admin, profiles); err != nil {
		t.Fatalf("RequireAdmin real admin: %v", err)
	}
}

func TestUnaryAuthInterceptor(t *testing.T) {
	interceptor := NewUnaryAuthInterceptor(testSecret, "/health")

	// Allowlisted path: no header, handler runs without principal
	called := false
	_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/health"}, func(ctx context.Context, req any) (any, error) {
		called = true
		if _, ok := FromContext(ctx); ok {
			t.Fatalf("expected no principal on allowlisted path")
		}
		return nil, nil
	})
	if err != nil || !called {
		t.Fatalf("allowlisted handler err=%v called=%v", err, called)
	}

	// Missing token on a protected path
	_, err = interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Op"}, func(ctx context.Context, req any) (any, error) {
		t.Fatalf("handler must not run without a token")
		return nil, nil
	})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}

	// Authenticated path: principal injected
	tok, err := Sign(testSecret, Principal{UserID: "bob", Role: models.RoleUser}, time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+tok))
	_, err = interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Op"}, func(ctx context.Context, req any) (any, error) {
		p, ok := FromContext(ctx)
		if !ok || p.UserID != "bob" || p.Role != models.RoleUser {
			t.Fatalf("principal not injected: %+v ok=%v", p, ok)
		}
		return nil, nil
	})
	if err != nil {
		t.Fatalf("interceptor auth path: %v", err)
	}
}
