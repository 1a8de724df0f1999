package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/notifyhub/callqueue/internal/client"
)

func newTestCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Check the alert sound or vibration on this device",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "sound",
		Short: "Play the alert sound for one second",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.client().TestSound(cmd.Context()); err != nil {
				return fmt.Errorf("test sound: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sound played")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "vibration",
		Short: "Vibrate for one second",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := ctx.client().TestVibration(cmd.Context())
			if client.IsStatus(err, http.StatusNotImplemented) {
				return fmt.Errorf("vibration is not available on this device")
			}
			if err != nil {
				return fmt.Errorf("test vibration: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Vibration triggered")
			return nil
		},
	})

	return cmd
}
