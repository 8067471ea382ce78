package main

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var accountEmail string

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage admin accounts",
}

var accountCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin account for account mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := openApp(cfg, nil)
		if err != nil {
			return err
		}
		defer a.close()
		if a.accounts == nil {
			return errors.New("accounts are only used when admin.mode is account")
		}

		email := accountEmail
		if email == "" {
			prompt := promptui.Prompt{Label: "Email"}
			if email, err = prompt.Run(); err != nil {
				return fmt.Errorf("email: %w", err)
			}
		}
		password, err := (&promptui.Prompt{Label: "Password", Mask: '*'}).Run()
		if err != nil {
			return fmt.Errorf("password: %w", err)
		}
		confirm, err := (&promptui.Prompt{Label: "Confirm password", Mask: '*'}).Run()
		if err != nil {
			return fmt.Errorf("confirm password: %w", err)
		}

		identity, err := a.accounts.Register(cmd.Context(), email, password, confirm)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created account %s\n", identity.Email)
		return nil
	},
}

func init() {
	accountCreateCmd.Flags().StringVar(&accountEmail, "email", "", "account email")
	accountCmd.AddCommand(accountCreateCmd)
	rootCmd.AddCommand(accountCmd)
}
