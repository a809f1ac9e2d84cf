package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func authCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the stored API session",
		Long: `Manage the stored API session.

Use this command group to log in, inspect, and clear the session
credential held in the OS keychain.`,
	}

	cmd.AddCommand(loginCommand())
	cmd.AddCommand(logoutCommand())
	cmd.AddCommand(statusCommand())

	return cmd
}

func loginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session credential",
		Long: `Log in against the auth endpoint and store the returned credential.

Example:
  deckctl auth login --email admin@example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			reader := bufio.NewReader(os.Stdin)
			if email == "" {
				fmt.Fprint(os.Stdout, "Email: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				email = strings.TrimSpace(line)
			}
			if email == "" {
				return fmt.Errorf("email cannot be empty")
			}

			if password == "" {
				fmt.Fprint(os.Stdout, "Password: ")
				bytes, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Fprintln(os.Stdout)
				if err != nil {
					return err
				}
				password = string(bytes)
			}
			if password == "" {
				return fmt.Errorf("password cannot be empty")
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			cred, err := a.console.Auth.Login(ctx, email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if err := a.store.Replace(cred); err != nil {
				return fmt.Errorf("failed to store credential: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", email)
			return nil
		},
	}

	cmd.Flags().String("email", "", "Account email (optional, overrides prompt)")
	cmd.Flags().String("password", "", "Account password (optional, overrides prompt)")

	return cmd
}

func logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session and clear the stored credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			if err := a.console.Auth.Logout(ctx); err != nil {
				return fmt.Errorf("logout failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a session credential is stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			cred, ok := a.store.Current()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "logged in")
			if !cred.ExpiresAt.IsZero() {
				if time.Now().After(cred.ExpiresAt) {
					fmt.Fprintf(out, "access token expired at %s (will renew on next call)\n", cred.ExpiresAt.Format(time.RFC3339))
				} else {
					fmt.Fprintf(out, "access token valid until %s\n", cred.ExpiresAt.Format(time.RFC3339))
				}
			}
			return nil
		},
	}
}
