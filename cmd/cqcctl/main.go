package main

import (
	"fmt"
	"os"

	"github.com/danmuck/cqc/internal/config"
	"github.com/danmuck/cqc/internal/logging"
	"github.com/danmuck/cqc/internal/protocol/frame"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	appID      uint16
	session    config.SessionConfig
}

func (o *rootOptions) load(cmd *cobra.Command) error {
	o.session = config.DefaultSessionConfig()
	if o.configPath != "" {
		cfg, err := config.LoadSessionConfig(o.configPath)
		if err != nil {
			return err
		}
		o.session = cfg
	}
	if cmd.Flags().Changed("app-id") {
		o.session.AppID = o.appID
	}
	return nil
}

func (o *rootOptions) limits() frame.Limits {
	return frame.Limits{MaxMessageBytes: o.session.Limits.MaxMessageBytes}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "cqcctl",
		Short: "Build and inspect CQC protocol messages",
		Long: `cqcctl builds CQC requests and decodes CQC messages.

Requests are printed as hex (or written raw with --raw). Responses and
requests can be decoded from hex arguments or from a raw byte stream on
stdin.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "session config (TOML)")
	rootCmd.PersistentFlags().Uint16Var(&opts.appID, "app-id", config.DefaultAppID, "application id (overrides config)")

	rootCmd.AddCommand(
		buildCmd(opts),
		helloCmd(opts),
		getTimeCmd(opts),
		decodeCmd(opts),
		parseCmd(opts),
		instructionsCmd(),
		configCmd(),
	)
	return rootCmd
}

func main() {
	logging.ConfigureRuntime()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}
