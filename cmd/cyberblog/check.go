package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cyberblog/internal/config"
	"github.com/cyberblog/internal/seccheck"
	"github.com/spf13/cobra"
)

var (
	checkRoot    string
	checkJSON    bool
	checkExclude []string
)

var errCheckFailed = errors.New("security check failed")

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the pre-deployment security check",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		report := seccheck.Run(seccheck.Options{
			Root:             checkRoot,
			AdminMode:        cfg.Admin.Mode,
			AdminSecret:      cfg.Admin.Secret,
			SessionSecret:    cfg.Session.Secret,
			DevSessionSecret: config.DevSessionSecret,
			ConfigFile:       cfgFile,
			StoreAPIKey:      cfg.Store.APIKey,
			ExcludePatterns:  checkExclude,
		})

		out := cmd.OutOrStdout()
		if checkJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			for _, finding := range report.Findings {
				fmt.Fprintf(out, "[%-4s] %-16s %s\n", finding.Level, finding.Check, finding.Message)
			}
			fmt.Fprintf(out, "\n%d ok, %d warn, %d fail\n",
				report.Count(seccheck.LevelOK), report.Count(seccheck.LevelWarn), report.Count(seccheck.LevelFail))
		}

		if report.Failed() {
			return errCheckFailed
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkRoot, "root", ".", "project root to scan")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the report as JSON")
	checkCmd.Flags().StringSliceVar(&checkExclude, "exclude", nil, "glob patterns excluded from the source scan")
	rootCmd.AddCommand(checkCmd)
}
