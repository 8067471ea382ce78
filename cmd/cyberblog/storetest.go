package main

import (
	"fmt"

	"github.com/cyberblog/internal/content"
	"github.com/spf13/cobra"
)

var storeTestCmd = &cobra.Command{
	Use:   "store-test",
	Short: "Check that the document store is reachable",
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

		if err := a.store.Ping(cmd.Context()); err != nil {
			return fmt.Errorf("store unreachable: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "database: %s\n", cfg.Database.Path)
		for _, category := range []content.Category{content.CategoryPost, content.CategoryProject} {
			count, err := a.store.Count(cmd.Context(), category)
			if err != nil {
				return fmt.Errorf("counting %s: %w", category.Collection(), err)
			}
			fmt.Fprintf(out, "%-9s %d\n", category.Collection(), count)
		}
		fmt.Fprintln(out, "store connection ok")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(storeTestCmd)
}
