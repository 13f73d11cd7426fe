package cmd

import (
	"context"

	"github.com/frahmantamala/asset-inventory/internal"
	"github.com/frahmantamala/asset-inventory/internal/auth"
	"github.com/frahmantamala/asset-inventory/internal/report"
	"github.com/spf13/cobra"
)

var (
	printCmd = &cobra.Command{
		Use:   "print",
		Short: "Print the asset register",
		Long:  `Log in, print every asset with its holder as a table and log out again.`,
		RunE:  runPrint,
	}

	printUsername string
	printPassword string
	printCSV      bool
)

func init() {
	printCmd.Flags().StringVarP(&printUsername, "username", "u", "", "account used to read the register")
	printCmd.Flags().StringVarP(&printPassword, "password", "p", "", "password of the account")
	printCmd.Flags().BoolVar(&printCSV, "csv", false, "write CSV instead of a table")
	_ = printCmd.MarkFlagRequired("username")
	_ = printCmd.MarkFlagRequired("password")
}

func runPrint(cmd *cobra.Command, _ []string) error {
	app, err := newApplication()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := internal.WithTimeout(context.Background(), app.Config.Server.RequestTimeout)
	defer cancel()

	session, err := app.AuthService.Login(ctx, auth.LoginDTO{Username: printUsername, Password: printPassword})
	if err != nil {
		return err
	}
	defer func() {
		if err := app.AuthService.Logout(context.Background(), session.Identity); err != nil {
			app.Logger.Warn("failed to close print session", "error", err)
		}
	}()

	rows, err := app.ReportService.Register(ctx, session.Identity)
	if err != nil {
		return err
	}

	if printCSV {
		return report.WriteCSV(cmd.OutOrStdout(), rows)
	}
	report.RenderTable(cmd.OutOrStdout(), rows)
	return nil
}
