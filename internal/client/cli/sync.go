package cli

import (
	"github.com/spf13/cobra"
)

func newSyncCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one push-then-pull cycle against the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			companyID, err := app.loadSession(ctx)
			if err != nil {
				return err
			}

			if err := app.syncer.SyncNow(ctx, companyID); err != nil {
				return err
			}
			cmd.Println("sync complete")
			return nil
		},
	}
}
