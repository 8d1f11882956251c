package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

type credentialFlags struct {
	email    string
	password string
}

func (f *credentialFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.email, "email", "", "account email")
	cmd.Flags().StringVar(&f.password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
}

func newLoginCmd(app *App) *cobra.Command {
	var creds credentialFlags
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session token for later commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}
			if err := client.Login(cmd.Context(), creds.email, creds.password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", creds.email)
			return nil
		},
	}
	creds.bind(cmd)
	return cmd
}

func newRegisterCmd(app *App) *cobra.Command {
	var creds credentialFlags
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}
			if err := client.Register(cmd.Context(), creds.email, creds.password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s\n", creds.email)
			return nil
		},
	}
	creds.bind(cmd)
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}
			if !client.App().LoggedIn() {
				return errors.New("not logged in")
			}
			if err := client.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}
