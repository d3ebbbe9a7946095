package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/kasku-app/kasku/internal/client/repositories/syncstate"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCmd(app *App) *cobra.Command {
	var companyID string

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Authenticate against the server and store the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			email := args[0]

			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}

			token, err := app.remote.Login(ctx, email, password)
			if err != nil {
				return fmt.Errorf("login error: %w", err)
			}

			if err := app.repos.SyncState.Set(ctx, syncstate.KeyToken, []byte(token)); err != nil {
				return err
			}
			if err := app.repos.SyncState.Set(ctx, syncstate.KeyCompanyID, []byte(companyID)); err != nil {
				return err
			}

			cmd.Println("logged in")
			return nil
		},
	}

	cmd.Flags().StringVar(&companyID, "company", "", "company id to sync")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session and reset the sync cursor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Clearing sync_state drops the token and every per-company
			// cursor; the next sync after login pulls from the epoch.
			if err := app.repos.SyncState.Clear(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("logged out")
			return nil
		},
	}
}

// readPassword prompts on stderr and reads without echo when stdin is a
// terminal; otherwise it reads a line (for scripting and tests).
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
