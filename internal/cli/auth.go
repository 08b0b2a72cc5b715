package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var errSeedMode = errors.New("not available with --seed")

func addAuth(topLevel *cobra.Command, a *app) {
	var token string
	login := &cobra.Command{
		Use:   "login",
		Short: "Check an API token against the server and remember it.",
		Long: `Check an API token against the server and remember it.

Tokens are issued on the server with "server -issue-token NAME". Without
--token the token is read from stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Seed != "" {
				return errSeedMode
			}
			if token == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading token: %w", err)
				}
				token = strings.TrimSpace(line)
			}
			if token == "" {
				return errors.New("no token given")
			}

			a.cfg.Token = token
			if _, err := a.openBoard(cmd.Context()); err != nil {
				return err
			}
			if err := OpenTokenJar(a.cfg.TokenDir).Save(a.cfg.Server, token); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s.\n", a.cfg.Server)
			return nil
		},
	}
	login.Flags().StringVar(&token, "token", "", "API token (bo_...).")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved token for the server.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := OpenTokenJar(a.cfg.TokenDir).Clear(a.cfg.Server); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged out of %s.\n", a.cfg.Server)
			return nil
		},
	}

	topLevel.AddCommand(login, logout)
}
