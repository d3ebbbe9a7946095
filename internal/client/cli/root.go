package cli

import (
	"context"

	"github.com/kasku-app/kasku/internal/client/config"
	"github.com/spf13/cobra"
)

// Execute builds the command tree and runs it.
func Execute(ctx context.Context) error {
	cfg := config.LoadConfig()

	app, err := NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	root := &cobra.Command{
		Use:           "kasku",
		Short:         "Offline-first ledger with push/pull sync",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newSyncCmd(app),
		newMenuCmd(app),
		newTxCmd(app),
		newLegacyCmd(app),
	)

	return root.ExecuteContext(ctx)
}
