package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NeroQue/academy-player/internal/models"
)

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <token>",
		Short: "Store a bearer token for later commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			viewer, err := a.Sessions.Login(cmd.Context(), models.LoginInput{Token: args[0]})
			if err != nil {
				return err
			}
			if outputFormat(cmd) == "json" {
				return printJSON(cmd.OutOrStdout(), viewer)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", displayName(viewer))
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Sessions.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in viewer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			viewer, ok := a.Sessions.Current()
			if !ok {
				return errors.New("not logged in, run 'academy login <token>'")
			}
			if outputFormat(cmd) == "json" {
				return printJSON(cmd.OutOrStdout(), viewer)
			}
			fmt.Fprintln(cmd.OutOrStdout(), displayName(viewer))
			return nil
		},
	}
}

func displayName(v *models.Viewer) string {
	switch {
	case v.Name != "" && v.Email != "":
		return fmt.Sprintf("%s <%s>", v.Name, v.Email)
	case v.Name != "":
		return v.Name
	default:
		return v.UserID
	}
}
