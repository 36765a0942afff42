// Package cmd implements the dogwalker command line
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ZararB/DogWalker/environment/envconfig"
	"github.com/ZararB/DogWalker/utils/logutils"

	// Register agent types
	_ "github.com/ZararB/DogWalker/agent/linear/discrete/qlearning"
	_ "github.com/ZararB/DogWalker/agent/random"
)

var (
	logLevel    string
	development bool
	configFile  string

	logger = zap.NewNop()
)

// GetRootCommand returns the root command with all subcommands added
func GetRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dogwalker",
		Short: "Train agents to drive a robot out of an obstacle corridor",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logutils.New(logLevel, development)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level: debug, info, warn or error")
	cmd.PersistentFlags().BoolVar(&development, "dev", false,
		"Use human readable development logging")
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		fmt.Sprintf("Environment config file (YAML or JSON), overrides $%v",
			envconfig.ConfigVar))

	cmd.AddCommand(RunCommand())
	cmd.AddCommand(RenderCommand())
	cmd.AddCommand(PlotCommand())
	cmd.AddCommand(ConfigCommand())
	return cmd
}

// loadConfig returns the environment configuration selected by the
// --config flag and the process environment
func loadConfig() (envconfig.Config, error) {
	if configFile != "" {
		if err := os.Setenv(envconfig.ConfigVar, configFile); err != nil {
			return envconfig.Config{}, err
		}
	}
	return envconfig.FromEnv(envconfig.Default())
}
