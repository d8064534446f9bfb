package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"supramolecular/pkg/auth"

	"github.com/spf13/cobra"
)

func tokenCmd() *cobra.Command {
	var (
		subject string
		scope   string
		issuer  string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the write endpoints",
		Long:  "Issue an HS256 bearer token signed with JWT_SECRET.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			gen, err := auth.NewJWTGenerator(auth.JWTConfig{SecretKey: secret, Issuer: issuer}, ttl)
			if err != nil {
				return err
			}
			token, err := gen.GenerateToken(subject, scope)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "bindfit-cli", "token subject")
	cmd.Flags().StringVar(&scope, "scope", "", "token scope")
	cmd.Flags().StringVar(&issuer, "issuer", "supramolecular", "token issuer")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
