package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/promptdeck/deckhand/internal/apierr"
	"github.com/promptdeck/deckhand/internal/client"
)

func callCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <method> <path>",
		Short: "Issue a raw API request through the resilient pipeline",
		Long: `Issue a raw API request. The call goes through the full pipeline:
retries, rate-limit cooldowns, and transparent session renewal all apply.

Examples:
  deckctl call GET /prompts
  deckctl call POST /export/bulk --data '{"prompt_ids":["p1","p2"]}'
  deckctl call DELETE /prompts/p1 --skip-retry`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			method := strings.ToUpper(strings.TrimSpace(args[0]))
			path := args[1]

			data, _ := cmd.Flags().GetString("data")
			skipRetry, _ := cmd.Flags().GetBool("skip-retry")
			timeout, _ := cmd.Flags().GetDuration("timeout")
			jsonOnly, _ := cmd.Flags().GetBool("json")

			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			var opts []client.Option
			if skipRetry {
				opts = append(opts, client.WithSkipRetry())
			}
			if timeout > 0 {
				opts = append(opts, client.WithTimeout(timeout))
			}
			opts = append(opts, client.WithSkipNotify())

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			var resp *client.Response
			switch method {
			case "GET":
				resp, err = a.client.Get(ctx, path, opts...)
			case "DELETE":
				resp, err = a.client.Delete(ctx, path, opts...)
			case "POST":
				resp, err = a.client.Post(ctx, path, bodyOrNil(data), opts...)
			case "PUT":
				resp, err = a.client.Put(ctx, path, bodyOrNil(data), opts...)
			case "PATCH":
				resp, err = a.client.Patch(ctx, path, bodyOrNil(data), opts...)
			default:
				return fmt.Errorf("unsupported method %q (use GET, POST, PUT, PATCH, or DELETE)", method)
			}
			if err != nil {
				printClassified(err)
				return err
			}

			out := cmd.OutOrStdout()
			if !jsonOnly {
				fmt.Fprintf(out, "status: %d\n", resp.StatusCode)
				fmt.Fprintf(out, "request id: %s\n", resp.RequestID)
				fmt.Fprintf(out, "duration: %s\n", resp.Duration.Round(time.Millisecond))
			}
			if len(resp.Body) > 0 {
				var pretty bytes.Buffer
				if json.Indent(&pretty, resp.Body, "", "  ") == nil {
					fmt.Fprintln(out, pretty.String())
				} else {
					fmt.Fprintln(out, string(resp.Body))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringP("data", "d", "", "Request body for POST/PUT/PATCH (raw JSON)")
	cmd.Flags().Bool("skip-retry", false, "Fail after the first attempt instead of retrying")
	cmd.Flags().Duration("timeout", 0, "Per-attempt timeout override (e.g. 10s)")
	cmd.Flags().Bool("json", false, "Print only the response body")

	return cmd
}

// bodyOrNil keeps empty --data from sending an empty string body.
func bodyOrNil(data string) any {
	if data == "" {
		return nil
	}
	return data
}

// printClassified shows the classified failure detail on stderr before cobra
// prints the error itself.
func printClassified(err error) {
	var ce *apierr.Error
	if !errors.As(err, &ce) {
		return
	}
	fmt.Fprintf(os.Stderr, "kind: %s  retryable: %t", ce.Kind, ce.Retryable)
	if ce.StatusCode > 0 {
		fmt.Fprintf(os.Stderr, "  status: %d", ce.StatusCode)
	}
	if ce.RequestID != "" {
		fmt.Fprintf(os.Stderr, "  request id: %s", ce.RequestID)
	}
	fmt.Fprintln(os.Stderr)
}
