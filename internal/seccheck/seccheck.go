package seccheck

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Level 是一条检查结果的严重程度。
type Level string

const (
	LevelOK   Level = "ok"
	LevelWarn Level = "warn"
	LevelFail Level = "fail"
)

// KnownDefaultSecrets 是示例配置里出现过、不能用于生产的口令。
var KnownDefaultSecrets = []string{"chen1234", "your_secure_password_here"}

// DefaultSourcePatterns 是扫描硬编码口令时检查的文件：页面模板、脚本与配置。
var DefaultSourcePatterns = []string{"web/**/*.html", "web/**/*.js", "*.yml", "*.yaml", ".env*"}

// Finding 是一条检查结果。
type Finding struct {
	Check   string `json:"check"`
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Report 汇总所有检查结果。
type Report struct {
	Findings []Finding `json:"findings"`
}

// Failed reports whether any finding is a failure.
func (r Report) Failed() bool {
	for _, f := range r.Findings {
		if f.Level == LevelFail {
			return true
		}
	}
	return false
}

// Count returns the number of findings at level.
func (r Report) Count(level Level) int {
	n := 0
	for _, f := range r.Findings {
		if f.Level == level {
			n++
		}
	}
	return n
}

func (r *Report) add(check string, level Level, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{Check: check, Level: level, Message: fmt.Sprintf(format, args...)})
}

// Options 是一次检查的输入，Root 为项目根目录。
type Options struct {
	Root             string
	AdminMode        string
	AdminSecret      string
	SessionSecret    string
	DevSessionSecret string
	ConfigFile       string
	StoreAPIKey      string
	SourcePatterns   []string
	// ExcludePatterns 中的文件不参与源码扫描，例如测试数据。
	ExcludePatterns []string
}

// Run 执行全部检查。检查本身不会失败，读不到的文件会被记录为 warn。
func Run(opts Options) Report {
	var report Report
	if opts.Root == "" {
		opts.Root = "."
	}

	checkAdminSecret(&report, opts)
	checkSessionSecret(&report, opts)
	checkGitignore(&report, opts)
	checkSources(&report, opts)

	if opts.AdminMode == "secret" {
		report.add("admin-mode", LevelWarn, "共享口令模式只是界面开关，建议切换到 account 模式")
	} else {
		report.add("admin-mode", LevelOK, "使用账号模式登录后台")
	}

	if opts.StoreAPIKey != "" {
		report.add("store-api-key", LevelWarn, "配置中包含 store.api_key，请确认配置文件不会被提交")
	}
	return report
}

func checkAdminSecret(report *Report, opts Options) {
	secret := strings.TrimSpace(opts.AdminSecret)
	if secret == "" {
		if opts.AdminMode == "secret" {
			report.add("admin-secret", LevelFail, "缺少管理员口令配置")
			return
		}
		report.add("admin-secret", LevelOK, "未使用共享口令")
		return
	}
	for _, known := range KnownDefaultSecrets {
		if secret == known {
			report.add("admin-secret", LevelWarn, "管理员口令使用默认值，请修改")
			return
		}
	}
	report.add("admin-secret", LevelOK, "管理员口令已配置")
}

func checkSessionSecret(report *Report, opts Options) {
	secret := strings.TrimSpace(opts.SessionSecret)
	switch {
	case secret == "":
		report.add("session-secret", LevelFail, "缺少会话密钥")
	case opts.DevSessionSecret != "" && secret == opts.DevSessionSecret:
		report.add("session-secret", LevelWarn, "会话密钥使用开发默认值，请设置 SESSION_SECRET")
	case len(secret) < 16:
		report.add("session-secret", LevelWarn, "会话密钥长度不足 16 位")
	default:
		report.add("session-secret", LevelOK, "会话密钥已配置")
	}
}

func checkGitignore(report *Report, opts Options) {
	data, err := os.ReadFile(filepath.Join(opts.Root, ".gitignore"))
	if err != nil {
		report.add("gitignore", LevelFail, ".gitignore 文件不存在")
		return
	}

	var patterns []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, strings.TrimPrefix(line, "/"))
	}

	targets := []string{".env.local"}
	if opts.ConfigFile != "" {
		if rel, err := filepath.Rel(opts.Root, opts.ConfigFile); err == nil && !strings.HasPrefix(rel, "..") {
			targets = append(targets, filepath.ToSlash(rel))
		} else if !filepath.IsAbs(opts.ConfigFile) {
			targets = append(targets, filepath.ToSlash(opts.ConfigFile))
		}
	}

	for _, target := range targets {
		if !ignored(patterns, target) {
			report.add("gitignore", LevelWarn, ".gitignore 可能未覆盖 %s", target)
			return
		}
	}
	report.add("gitignore", LevelOK, ".gitignore 正确配置，环境文件不会被提交")
}

func ignored(patterns []string, target string) bool {
	base := filepath.Base(target)
	for _, pattern := range patterns {
		if strings.HasPrefix(pattern, "!") {
			continue
		}
		if ok, _ := doublestar.Match(pattern, target); ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, _ := doublestar.Match(pattern, base); ok {
				return true
			}
		}
	}
	return false
}

func checkSources(report *Report, opts Options) {
	patterns := opts.SourcePatterns
	if len(patterns) == 0 {
		patterns = DefaultSourcePatterns
	}
	fsys := os.DirFS(opts.Root)

	seen := make(map[string]struct{})
	var hits []string
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			report.add("hardcoded-secret", LevelWarn, "无法扫描 %s: %v", pattern, err)
			continue
		}
		for _, match := range matches {
			if _, ok := seen[match]; ok || excluded(opts.ExcludePatterns, match) {
				continue
			}
			seen[match] = struct{}{}
			if containsDefaultSecret(fsys, match) {
				hits = append(hits, match)
			}
		}
	}

	if len(hits) > 0 {
		report.add("hardcoded-secret", LevelFail, "源代码中仍包含硬编码口令: %s", strings.Join(hits, ", "))
		return
	}
	report.add("hardcoded-secret", LevelOK, "源代码中无硬编码口令")
}

func excluded(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

func containsDefaultSecret(fsys fs.FS, name string) bool {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return false
	}
	for _, known := range KnownDefaultSecrets {
		if bytes.Contains(data, []byte(known)) {
			return true
		}
	}
	return false
}
