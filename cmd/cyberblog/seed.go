package main

import (
	"fmt"
	"time"

	"github.com/cyberblog/internal/seed"
	"github.com/spf13/cobra"
)

var seedForce bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo posts and projects into empty collections",
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

		result, err := seed.Demo(cmd.Context(), a.store, time.Now(), seedForce)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d posts, %d projects\n", result.Posts, result.Projects)
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "append demo content even when collections are not empty")
	rootCmd.AddCommand(seedCmd)
}
