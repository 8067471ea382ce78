package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cyberblog/internal/content"
	"github.com/cyberblog/internal/service"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	importCategory string
	importDryRun   bool
)

var importCmd = &cobra.Command{
	Use:   "import <glob>...",
	Short: "Publish Markdown files matching the given glob patterns",
	Long: `Publish Markdown files matching the given glob patterns, for example
"notes/**/*.md". The first level-one heading becomes the title; front matter
may set title, tags and category.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var override content.Category
		if importCategory != "" {
			parsed, err := content.ParseCategory(importCategory)
			if err != nil {
				return err
			}
			override = parsed
		}

		files, err := expandGlobs(args)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no markdown files match %v", args)
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

		bar := progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription("Importing"),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)

		var failed int
		for _, path := range files {
			bar.Describe(path)
			draft, err := readDraft(path)
			if err == nil {
				if override != "" {
					draft.Category = override
				}
				if importDryRun {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", draft.Category, draft.Title, path)
				} else {
					_, err = a.publisher.Publish(cmd.Context(), draft)
				}
			}
			if err != nil {
				failed++
				logger.Warnw("import failed", "file", path, "error", err)
			}
			_ = bar.Add(1)
		}
		_ = bar.Finish()

		fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d files\n", len(files)-failed, len(files))
		if failed > 0 {
			return fmt.Errorf("%d files failed to import", failed)
		}
		return nil
	},
}

// expandGlobs 展开 doublestar 模式，只保留 Markdown 文件并去重排序。
func expandGlobs(patterns []string) ([]string, error) {
	seen := map[string]struct{}{}
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			if !service.IsMarkdownFile(match, "") {
				continue
			}
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			files = append(files, match)
		}
	}
	sort.Strings(files)
	return files, nil
}

func readDraft(path string) (service.Draft, error) {
	f, err := os.Open(path)
	if err != nil {
		return service.Draft{}, err
	}
	defer f.Close()
	return service.ImportMarkdown(path, "", f)
}

func init() {
	importCmd.Flags().StringVar(&importCategory, "category", "", "override the category (post or project)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "parse files without publishing")
	rootCmd.AddCommand(importCmd)
}
