package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campus-events/server/internal/auth"
)

var (
	tokenUserID string
	tokenRole   string
)

// genTokenCmd mints a bearer token for local testing against a running server.
var genTokenCmd = &cobra.Command{
	Use:   "gen-token",
	Short: "Mint a JWT for local API testing",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		if !auth.IsValidRole(tokenRole) {
			return fmt.Errorf("invalid role %q (want student, club, or admin)", tokenRole)
		}

		tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, cfg.Auth.Issuer)
		token, err := tokens.Generate(tokenUserID, string(auth.NormalizeRole(tokenRole)))
		if err != nil {
			return err
		}
		cmd.Println(token)
		return nil
	},
}

func init() {
	genTokenCmd.Flags().StringVar(&tokenUserID, "user", "", "user id for the token subject")
	genTokenCmd.Flags().StringVar(&tokenRole, "role", "student", "role claim (student, club, admin)")
	_ = genTokenCmd.MarkFlagRequired("user")
}
