package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cyberblog/internal/content"
	"github.com/cyberblog/internal/db"
	"github.com/cyberblog/internal/service"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestExpandGlobsKeepsMarkdownOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "# A")
	writeFile(t, filepath.Join(dir, "nested", "deep", "b.MD"), "# B")
	writeFile(t, filepath.Join(dir, "nested", "c.txt"), "C")

	files, err := expandGlobs([]string{
		filepath.Join(dir, "**", "*"),
		filepath.Join(dir, "*.md"),
	})
	if err != nil {
		t.Fatalf("expandGlobs returned error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 markdown files, got %v", files)
	}
	if !strings.HasSuffix(files[0], "a.md") || !strings.HasSuffix(files[1], "b.MD") {
		t.Fatalf("unexpected files: %v", files)
	}
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://blog.example.com"})

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{name: "no origin", origin: "", want: true},
		{name: "same host", origin: "http://example.com", want: true},
		{name: "allowed", origin: "https://blog.example.com", want: true},
		{name: "foreign", origin: "https://evil.example.net", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "http://example.com/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if got := check(req); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestImportCommandPublishesFiles(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "blog.db")
	cfgPath := filepath.Join(dir, "cyberblog.yml")
	writeFile(t, cfgPath, "database:\n  path: "+dbPath+"\nlog:\n  level: error\n")
	writeFile(t, filepath.Join(dir, "notes", "one.md"), "# First\n\nbody one")
	writeFile(t, filepath.Join(dir, "notes", "sub", "two.md"), "---\ncategory: project\n---\n# Second\n\nbody two")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"--config", cfgPath, "import", filepath.Join(dir, "notes", "**", "*.md")})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("import failed: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "imported 2 of 2 files") {
		t.Fatalf("unexpected output: %s", out.String())
	}

	gdb, err := db.Open(dbPath, false)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	store := service.NewDocumentStore(gdb)
	posts, _ := store.Count(context.Background(), content.CategoryPost)
	projects, _ := store.Count(context.Background(), content.CategoryProject)
	if posts != 1 || projects != 1 {
		t.Fatalf("expected one post and one project, got %d and %d", posts, projects)
	}
}
