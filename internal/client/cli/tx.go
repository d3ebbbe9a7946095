package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/kasku-app/kasku/internal/client/ledger"
	"github.com/kasku-app/kasku/internal/syncapi"
	"github.com/spf13/cobra"
)

func newTxCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage income/expense transactions",
	}
	cmd.AddCommand(newTxAddCmd(app), newTxListCmd(app), newTxRmCmd(app))
	return cmd
}

func newTxAddCmd(app *App) *cobra.Command {
	var (
		txType    string
		amount    int64
		quantity  int64
		unitPrice int64
		menuID    string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Record a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if txType != syncapi.TransactionTypeIncome && txType != syncapi.TransactionTypeExpense {
				return fmt.Errorf("type must be income or expense")
			}
			p := ledger.CreateTransactionParams{
				Name:      args[0],
				Type:      txType,
				Amount:    amount,
				Quantity:  quantity,
				UnitPrice: unitPrice,
			}
			if menuID != "" {
				p.MenuID = &menuID
			}
			id, err := app.ledger.CreateTransaction(cmd.Context(), p)
			if err != nil {
				return err
			}
			cmd.Println(id)
			return nil
		},
	}

	cmd.Flags().StringVar(&txType, "type", "income", "income or expense")
	cmd.Flags().Int64Var(&amount, "amount", 0, "total amount in minor units")
	cmd.Flags().Int64Var(&quantity, "qty", 1, "quantity")
	cmd.Flags().Int64Var(&unitPrice, "unit-price", 0, "unit price in minor units")
	cmd.Flags().StringVar(&menuID, "menu", "", "linked menu id")
	return cmd
}

func newTxListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.ledger.ListTransactions(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tAMOUNT\tQTY\tOCCURRED")
			for _, t := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
					t.ID, t.Name, t.Type, t.Amount, t.Quantity, t.OccurredAt.Format("2006-01-02"))
			}
			return w.Flush()
		},
	}
}

func newTxRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Soft-delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.ledger.DeleteTransaction(cmd.Context(), args[0])
		},
	}
}
