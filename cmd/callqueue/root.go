package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notifyhub/callqueue/internal/client"
)

const defaultDaemonAddr = "http://127.0.0.1:8080"

type commandContext struct {
	addrFlag *string
}

func newCommandContext(addrFlag *string) *commandContext {
	return &commandContext{addrFlag: addrFlag}
}

// daemonAddr resolves --addr, then CALLQUEUE_ADDR, then the default.
func (c *commandContext) daemonAddr() string {
	if c.addrFlag != nil && strings.TrimSpace(*c.addrFlag) != "" {
		return strings.TrimSpace(*c.addrFlag)
	}
	if v := strings.TrimSpace(os.Getenv("CALLQUEUE_ADDR")); v != "" {
		return v
	}
	return defaultDaemonAddr
}

func (c *commandContext) client() *client.Client {
	return client.New(c.daemonAddr(), nil)
}

func newRootCommand() *cobra.Command {
	var addrFlag string
	ctx := newCommandContext(&addrFlag)

	rootCmd := &cobra.Command{
		Use:           "callqueue",
		Short:         "Service request queue for floor staff",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&addrFlag, "addr", "", "Base URL of the callqueue daemon (default "+defaultDaemonAddr+")")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newQueueCommand(ctx))
	rootCmd.AddCommand(newAcceptCommand(ctx))
	rootCmd.AddCommand(newSettingsCommand(ctx))
	rootCmd.AddCommand(newTestCommand(ctx))
	rootCmd.AddCommand(newSilenceCommand(ctx))

	return rootCmd
}
