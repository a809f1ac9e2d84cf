package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func healthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Diagnose connectivity and API health",
		Long: `Probe the backend and call the health endpoint.

Example:
  deckctl health`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "base url: %s\n", a.client.BaseURL())

			if !a.console.CheckConnectivity(ctx) {
				fmt.Fprintln(out, "connectivity: OFFLINE")
				return fmt.Errorf("backend unreachable")
			}
			fmt.Fprintln(out, "connectivity: online")

			if err := a.console.Health(ctx); err != nil {
				fmt.Fprintln(out, "health: FAILED")
				return err
			}
			fmt.Fprintln(out, "health: ok")
			return nil
		},
	}
}
