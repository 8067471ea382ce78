package main

import (
	"fmt"
	"os"

	"github.com/cyberblog/internal/config"
	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"
)

var logger = logging.Logger("cyberblog/cmd")

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "cyberblog",
	Short: "Personal portfolio and blog server",
	Long: `cyberblog serves a personal portfolio with a post list, a project list,
a toolbox page and an admin dashboard for publishing Markdown content.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFile, "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
}

// loadConfig 读取配置并按 log.level 设置全部日志级别。
func loadConfig() (config.AppConfig, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return cfg, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	lvl, err := logging.LevelFromString(cfg.Log.Level)
	if err != nil {
		return cfg, fmt.Errorf("invalid log.level %q: %w", cfg.Log.Level, err)
	}
	logging.SetAllLoggers(lvl)
	return cfg, nil
}
