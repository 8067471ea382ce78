package main

import (
	"errors"
	"fmt"

	"github.com/cyberblog/internal/content"
	"github.com/cyberblog/internal/service"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var deleteConfirm string

var deleteCmd = &cobra.Command{
	Use:   "delete <category> <id>",
	Short: "Delete a post or project after typing DELETE",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, err := content.ParseCategory(args[0])
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := openApp(cfg, nil)
		if err != nil {
			return err
		}
		defer a.close()

		item, err := a.store.Get(cmd.Context(), category, args[1])
		if err != nil {
			return err
		}

		confirmation := deleteConfirm
		if confirmation == "" {
			prompt := promptui.Prompt{
				Label: fmt.Sprintf("Type %s to remove %q from %s", service.DeleteConfirmation, item.Title, category.Collection()),
			}
			confirmation, err = prompt.Run()
			if err != nil {
				return fmt.Errorf("confirmation: %w", err)
			}
		}

		if err := a.publisher.Delete(cmd.Context(), category, item.ID, confirmation); err != nil {
			if errors.Is(err, service.ErrDeleteNotConfirmed) {
				fmt.Fprintln(cmd.OutOrStdout(), "aborted, nothing was deleted")
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s %s\n", category, item.ID)
		return nil
	},
}

func init() {
	deleteCmd.Flags().StringVar(&deleteConfirm, "confirm", "", "confirmation text for non-interactive use")
	rootCmd.AddCommand(deleteCmd)
}
