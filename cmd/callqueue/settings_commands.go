package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notifyhub/callqueue/internal/api/handler"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the device settings",
	}
	cmd.AddCommand(newSettingsShowCommand(ctx))
	cmd.AddCommand(newSettingsSetCommand(ctx))
	return cmd
}

func newSettingsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.client().Settings(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch settings: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderSettings(s))
			return nil
		},
	}
}

func newSettingsSetCommand(ctx *commandContext) *cobra.Command {
	var apiKey, server string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change the API key and/or server name (an empty value clears it)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req handler.SettingsRequest
			if cmd.Flags().Changed("api-key") {
				req.APIKey = &apiKey
			}
			if cmd.Flags().Changed("server") {
				req.ServerName = &server
			}
			if req.APIKey == nil && req.ServerName == nil {
				return errors.New("nothing to change: pass --api-key and/or --server")
			}

			s, err := ctx.client().UpdateSettings(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("update settings: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderSettings(s))
			return nil
		},
	}
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Restaurant API key")
	cmd.Flags().StringVar(&server, "server", "", "Only show requests for this server (waiter) name")
	return cmd
}

func renderSettings(s handler.SettingsResponse) string {
	key := s.APIKey
	if key == "" {
		key = "(not set)"
	}
	server := s.ServerName
	if server == "" {
		server = "(all)"
	}
	return renderTable(
		[]string{"Setting", "Value"},
		[][]string{{"API key", key}, {"Server", server}},
		nil,
	)
}
