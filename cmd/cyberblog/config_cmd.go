package main

import (
	"fmt"
	"os"

	"github.com/cyberblog/internal/config"
	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var (
	configForce       bool
	configInteractive bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgFile); err == nil && !configForce {
			return fmt.Errorf("%s already exists, use --force to overwrite", cfgFile)
		}

		cfg := config.Default()
		cfg.Session.Secret = uuid.NewString() + uuid.NewString()
		cfg.Server.ListenAddr = ":" + cfg.Server.Port

		if configInteractive {
			modePrompt := promptui.Select{
				Label: "Admin login mode",
				Items: []string{config.AdminModeAccount, config.AdminModeSecret},
			}
			_, mode, err := modePrompt.Run()
			if err != nil {
				return fmt.Errorf("admin mode: %w", err)
			}
			cfg.Admin.Mode = mode

			if mode == config.AdminModeSecret {
				secretPrompt := promptui.Prompt{Label: "Admin secret", Mask: '*'}
				if cfg.Admin.Secret, err = secretPrompt.Run(); err != nil {
					return fmt.Errorf("admin secret: %w", err)
				}
			}

			inboxPrompt := promptui.Prompt{Label: "Markdown inbox directory (empty to disable)"}
			if cfg.Content.InboxDir, err = inboxPrompt.Run(); err != nil {
				return fmt.Errorf("inbox dir: %w", err)
			}
		}

		if err := cfg.Save(cfgFile); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", cfgFile)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
	configInitCmd.Flags().BoolVarP(&configInteractive, "interactive", "i", false, "prompt for admin mode and secrets")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
