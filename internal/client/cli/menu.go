package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/kasku-app/kasku/internal/client/ledger"
	"github.com/spf13/cobra"
)

func newMenuCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Manage menu items",
	}
	cmd.AddCommand(newMenuAddCmd(app), newMenuListCmd(app), newMenuRmCmd(app))
	return cmd
}

func newMenuAddCmd(app *App) *cobra.Command {
	var (
		price    int64
		category string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a menu item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.ledger.CreateMenu(cmd.Context(), ledger.CreateMenuParams{
				Name:     args[0],
				Price:    price,
				Category: category,
			})
			if err != nil {
				return err
			}
			cmd.Println(id)
			return nil
		},
	}

	cmd.Flags().Int64Var(&price, "price", 0, "price in minor units")
	cmd.Flags().StringVar(&category, "category", "", "menu category")
	return cmd
}

func newMenuListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active menu items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.ledger.ListMenus(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPRICE\tCATEGORY")
			for _, m := range items {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", m.ID, m.Name, m.Price, m.Category)
			}
			return w.Flush()
		},
	}
}

func newMenuRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Soft-delete a menu item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.ledger.DeleteMenu(cmd.Context(), args[0])
		},
	}
}
