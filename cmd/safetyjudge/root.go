package main

import (
	"fmt"
	"os"

	"github.com/Z-Lemke/claude-auto-learn/internal/config"
	"github.com/Z-Lemke/claude-auto-learn/internal/logger"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "safetyjudge",
	Short: "Permission gate for agent tool calls",
	Long:  `Safetyjudge evaluates agent tool calls against layered permission rules and emits allow, deny, or ask decisions.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd)
		if err != nil {
			return err
		}

		logger.Setup(cfg.LogLevel)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.safetyjudge/config.yaml)")
	rootCmd.PersistentFlags().String("log_level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
}
