package main

import (
	"context"
	"fmt"
	"registration/internal/config"
	"registration/pkg/logger"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// csrfCommand constructs the 'csrf' subcommand that issues an anti-forgery
// token together with the nonce cookie it is bound to, for manual testing.
func csrfCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csrf",
		Short: "Issues an anti-forgery token and its nonce cookie",
		Run: func(cmd *cobra.Command, args []string) {
			nonce, _ := cmd.Flags().GetString("nonce")
			if nonce == "" {
				nonce = uuid.NewString()
			}

			tokens := getAntiForgery(context.Background(), cfg)
			token, err := tokens.Sign(nonce)
			if err != nil {
				logger.Fatal(context.Background(), "could not sign anti-forgery token", zap.Error(err))
			}

			fmt.Printf("Cookie: %s=%s\n", tokens.CookieName(), nonce) //nolint: forbidigo
			fmt.Printf("X-CSRF-TOKEN: %s\n", token)                   //nolint: forbidigo
		},
	}

	cmd.Flags().String("nonce", "", "Nonce to bind the token to (random when empty)")

	return cmd
}
