package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notifyhub/callqueue/internal/service"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Show open service requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := ctx.client().Queue(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch queue: %w", err)
			}
			switch strings.ToLower(output) {
			case "json":
				return writeJSON(cmd, v)
			case "", "table":
				fmt.Fprint(cmd.OutOrStdout(), renderQueue(v, shouldColorize(cmd.OutOrStdout())))
				return nil
			default:
				return fmt.Errorf("unknown output format %q (want table or json)", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table or json")
	return cmd
}

func renderQueue(v service.QueueView, colour bool) string {
	if !v.Configured {
		return "No API key configured. Run: callqueue settings set --api-key <key>\n"
	}
	if len(v.Rows) == 0 {
		return "Queue is empty\n"
	}

	rows := make([][]string, 0, len(v.Rows))
	for _, r := range v.Rows {
		wait := fmt.Sprintf("%d min", r.WaitMinutes)
		if colour {
			wait = colourize(r.Colour, wait)
		}
		rows = append(rows, []string{strconv.Itoa(r.ID), wait, r.Time, r.Location, r.Action})
	}
	out := renderTable(
		[]string{"ID", "Waiting", "Time", "Location", "Request"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignLeft},
	)
	if v.Alerting {
		out += "Alert is ringing. Accept a request or run: callqueue silence\n"
	}
	return out
}

func newAcceptCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "accept <id>",
		Short: "Accept a service request and silence the alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid request id %q", args[0])
			}
			if err := ctx.client().Accept(cmd.Context(), id); err != nil {
				return fmt.Errorf("accept %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Accepted request %d\n", id)
			return nil
		},
	}
}

func newSilenceCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "silence",
		Short: "Stop a ringing alert without accepting anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.client().StopAlert(cmd.Context()); err != nil {
				return fmt.Errorf("silence alert: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Alert stopped")
			return nil
		},
	}
}
