package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"garageQueue/internal/auth"
	"garageQueue/models"
)

var (
	tokenUser  string
	tokenEmail string
	tokenRole  string
	tokenTTL   time.Duration
)

// garage token: sign a bearer token with the server secret. Development only;
// production tokens come from the identity provider.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign a development bearer token",
	RunE: func(cmd *cobra.Command, args []string) error {
		role := models.Role(tokenRole)
		if role != models.RoleAdmin && role != models.RoleUser {
			return fmt.Errorf("role must be %q or %q", models.RoleUser, models.RoleAdmin)
		}
		ttl := tokenTTL
		if ttl <= 0 {
			ttl = cfg.Auth.TokenTTL
		}
		tok, err := auth.Sign(cfg.Auth.JWTSecret, auth.Principal{UserID: tokenUser, Email: tokenEmail, Role: role}, ttl)
		if err != nil {
			return err
		}
		fmt.Println(tok)
		return nil
	},
}

func init() {
	f := tokenCmd.Flags()
	f.StringVar(&tokenUser, "user", "", "identity id (sub claim)")
	f.StringVar(&tokenEmail, "email", "", "email claim")
	f.StringVar(&tokenRole, "role", string(models.RoleUser), "role claim: user or admin")
	f.DurationVar(&tokenTTL, "ttl", 0, "token lifetime (default TOKEN_TTL)")
	_ = tokenCmd.MarkFlagRequired("user")
}
