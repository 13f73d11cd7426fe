package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/asset-inventory/internal"
	"github.com/frahmantamala/asset-inventory/internal/auth"
	"github.com/spf13/cobra"
)

var (
	userCmd = &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	userRegisterCmd = &cobra.Command{
		Use:   "register",
		Short: "Create a user account",
		Long:  `Create a user account from the command line, e.g. to bootstrap the first administrator.`,
		RunE:  runUserRegister,
	}

	registerUsername string
	registerPassword string
)

func init() {
	userRegisterCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "username of the new account")
	userRegisterCmd.Flags().StringVarP(&registerPassword, "password", "p", "", "password of the new account")
	_ = userRegisterCmd.MarkFlagRequired("username")
	_ = userRegisterCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userRegisterCmd)
}

func runUserRegister(cmd *cobra.Command, _ []string) error {
	app, err := newApplication()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := internal.WithTimeout(context.Background(), 0)
	defer cancel()

	u, err := app.AuthService.Register(ctx, auth.RegisterDTO{Username: registerUsername, Password: registerPassword})
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return fmt.Errorf("%s", appErr.GetDetailedMessage())
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Registered user %q (id %d)\n", u.Username, u.ID)
	return nil
}
