package main

import (
	"fmt"
	"os"

	"github.com/harunnryd/pace/internal/config"
	"github.com/harunnryd/pace/internal/logger"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "pace",
	Short: "Pace tool-calling agent",
	Long:  `Pace is a chat agent that answers questions by calling HTTP tools declared as data.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd)
		if err != nil {
			return err
		}

		logger.Setup(cfg.Server.LogLevel)
		return nil
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pace/config.yaml)")
	rootCmd.PersistentFlags().String("server.log_level", config.DefaultServerLogLevel, "log level (debug, info, warn, error)")
}
