package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"artcor/internal/config"
	"artcor/internal/logging"
)

const programName = "artcor"

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

var (
	globalFlags = struct {
		debug bool
		json  bool
	}{}
	configFile string
)

func rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Track event attendance for a roster of members",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().
		BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")
	rootCmd.PersistentFlags().
		StringVar(&configFile, "config", "", "path to config file")
	rootCmd.PersistentFlags().
		BoolVar(&globalFlags.json, "json", false, "print JSON instead of tables")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if globalFlags.debug {
			cfg.Log.Level = "debug"
		}
		if _, err := logging.Init(cfg.Log, cfg.Env); err != nil {
			return fmt.Errorf("failed to init logging: %w", err)
		}
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	}

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(membersCommand())
	rootCmd.AddCommand(eventsCommand())
	rootCmd.AddCommand(treeCommand())
	rootCmd.AddCommand(statsCommand())
	rootCmd.AddCommand(importICSCommand())
	rootCmd.AddCommand(versionCommand())
	return rootCmd
}

func main() {
	err := rootCommand().Execute()
	_ = zap.L().Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		// No config or logging needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", programName, version)
		},
	}
}
