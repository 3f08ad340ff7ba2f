package cmd

import (
	"context"
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/frahmantamala/hrms-portal/internal/api"
	"github.com/frahmantamala/hrms-portal/internal/session"
)

var (
	loginAsAdmin  bool
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the HRMS backend",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		password := loginPassword
		if password == "" {
			fmt.Print("Password: ")
			raw, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("reading password: %w", err)
			}
			password = string(raw)
		}

		dto := api.LoginDTO{Username: loginUsername, Password: password}
		auth := api.NewAuth(a.client, a.store, a.logger)

		ctx := context.Background()
		var sess session.Session
		if loginAsAdmin {
			sess, err = auth.AdminLogin(ctx, dto)
		} else {
			sess, err = auth.EmployeeLogin(ctx, dto)
		}
		if err != nil {
			return err
		}

		fmt.Printf("logged in as %s (%s)\n", sess.UserName, sess.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		api.NewAuth(a.client, a.store, a.logger).Logout(context.Background())
		fmt.Println("logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if !a.store.IsAuthenticated() {
			fmt.Println("not logged in")
			return nil
		}
		return printJSON(a.store.Snapshot())
	},
}

func init() {
	loginCmd.Flags().BoolVar(&loginAsAdmin, "admin", false, "Use the admin login entry")
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Account username or employee id")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted when omitted)")
	_ = loginCmd.MarkFlagRequired("username")
}
