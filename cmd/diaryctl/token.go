package main

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/photodiary/internal/server/auth"
	"github.com/spf13/cobra"
)

func newTokenCmd(app *cliApp) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for --user signed with the configured secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = cfg.TokenValidityDuration
			}
			tok, err := auth.GenerateToken(app.userID, []byte(cfg.SecretKey), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to the configured validity)")
	return cmd
}
