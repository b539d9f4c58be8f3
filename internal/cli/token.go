package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"quiz-retake-service/internal/config"
	"quiz-retake-service/internal/identity"
)

// NewTokenCmd mints an HS256 bearer token for local development.
func NewTokenCmd(configPath *string) *cobra.Command {
	var (
		email string
		name  string
		ttl   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token <uid>",
		Short: "Mint a development bearer token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			verifier, err := identity.NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.Audience, cfg.Auth.Issuer)
			if err != nil {
				return err
			}
			token, err := verifier.Sign(identity.Identity{UserID: args[0], Email: email, Name: name}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().StringVar(&name, "name", "", "display name claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
