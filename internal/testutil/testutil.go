package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"google.golang.org/grpc/metadata"

	"garageQueue/internal/auth"
	"garageQueue/internal/db"
	"garageQueue/models"
)

// OpenInMemoryDB opens an in-memory SQLite database and applies migrations.
// The database is closed via t.Cleanup.
func OpenInMemoryDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	// Shared cache so every pooled connection sees the same database.
	d, err := db.Open(db.DriverSQLite, "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// SignToken returns a signed HS256 token for the given identity.
func SignToken(t *testing.T, secret, userID, email string, role models.Role) string {
	t.Helper()
	tok, err := auth.Sign(secret, auth.Principal{UserID: userID, Email: email, Role: role}, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

// CtxWithBearer returns a context containing gRPC metadata Authorization header with the given token.
func CtxWithBearer(ctx context.Context, token string) context.Context {
	md := metadata.Pairs("authorization", "Bearer "+token)
	return metadata.NewIncomingContext(ctx, md)
}

// CtxAs returns a context carrying the principal directly, skipping the interceptor.
func CtxAs(userID string, role models.Role) context.Context {
	return auth.WithPrincipal(context.Background(), &auth.Principal{UserID: userID, Email: userID + "@example.com", Role: role})
}
