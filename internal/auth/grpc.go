package auth

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"garageQueue/internal/apperr"
	"garageQueue/models"
)

// ErrForbidden is returned when the caller is authenticated but lacks the admin role.
var ErrForbidden = errors.New("only admin can perform this action")

// ProfileLookup is the slice of the profile store the admin check needs.
type ProfileLookup interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
}

// NewUnaryAuthInterceptor returns a gRPC unary interceptor that extracts and validates
// a Bearer JWT from incoming metadata and injects the Principal into the context.
// Methods listed in allowUnauthenticated will bypass authentication (e.g., health checks).
func NewUnaryAuthInterceptor(secret string, allowUnauthenticated ...string) grpc.UnaryServerInterceptor {
	allow := make(map[string]struct{}, len(allowUnauthenticated))
	for _, m := range allowUnauthenticated {
		allow[strings.TrimSpace(m)] = struct{}{}
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := allow[info.FullMethod]; ok {
			return handler(ctx, req)
		}
		p, err := ParseFromMD(ctx, secret)
		if err != nil {
			return nil, status.Errorf(codes.Unauthenticated, "auth error: %v", err)
		}
		return handler(WithPrincipal(ctx, p), req)
	}
}

// RequirePrincipal ensures a principal is present in context.
func RequirePrincipal(ctx context.Context) (*Principal, error) {
	p, ok := FromContext(ctx)
	if !ok {
		return nil, &apperr.AuthRequiredError{Reason: "missing principal"}
	}
	return p, nil
}

// RequireAdmin ensures the caller is an admin principal AND that the profile
// row carries role 'admin', so a forged role claim is not enough.
func RequireAdmin(ctx context.Context, profiles ProfileLookup) (*Principal, error) {
	p, err := RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if p.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	if profiles == nil {
		return nil, errors.New("profiles repository not configured")
	}
	prof, err := profiles.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if !prof.IsAdmin() {
		return nil, ErrForbidden
	}
	return p, nil
}
