package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/kasku-app/kasku/internal/client/models"
	"github.com/spf13/cobra"
)

// The legacy command exists for the pre-unification consumers: it reads the
// mirrored incomes/expenses tables, not the unified ledger.
func newLegacyCmd(app *App) *cobra.Command {
	var table string

	cmd := &cobra.Command{
		Use:   "legacy",
		Short: "Inspect the legacy mirror tables",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List rows of a legacy table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if table != models.LegacyTableIncomes && table != models.LegacyTableExpenses {
				return fmt.Errorf("table must be incomes or expenses")
			}
			rows, err := app.repos.Legacy.ListEntries(cmd.Context(), table)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ROW\tNAME\tQTY\tUNIT\tTOTAL\tLINKED")
			for _, e := range rows {
				linked := "free-text"
				if e.MenuRef != "" {
					linked = e.MenuRef
				}
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%s\n",
					e.RowID, e.Name, e.Quantity, e.UnitPrice, e.Total, linked)
			}
			return w.Flush()
		},
	}
	list.Flags().StringVar(&table, "table", models.LegacyTableIncomes, "incomes or expenses")

	cmd.AddCommand(list)
	return cmd
}
