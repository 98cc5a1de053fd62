package cmd

import (
	"github.com/MrEthical07/goBlog/internal/view"
	"github.com/spf13/cobra"
)

func (a *app) loginCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Long: `Log in with a username and password.

Missing credentials are prompted for when stdin is a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (username == "" || password == "") && a.interactive() {
				if err := a.prompter.Credentials(&username, &password); err != nil {
					return err
				}
			}

			s, err := a.screens()
			if err != nil {
				return err
			}
			if !s.Login(cmd.Context(), username, password) {
				return ErrReported
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.screens()
			if err != nil {
				return err
			}
			s.Logout(cmd.Context())
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.blog()
			if err != nil {
				return err
			}
			act := view.Activate(cmd.Context(), c)
			defer act.Close()

			state, err := act.Wait(cmd.Context())
			if err != nil {
				return err
			}
			a.printer.Session(state)
			return nil
		},
	}
}
