package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/cyberblog/internal/content"
	"github.com/cyberblog/internal/db"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

const (
	// DefaultFile 是默认读取的配置文件。
	DefaultFile = "cyberblog.yml"
	// EnvPrefix 是覆盖配置项的环境变量前缀，例如 CYBERBLOG_ADMIN_SECRET。
	EnvPrefix = "CYBERBLOG_"
	// DevSessionSecret 只适用于本地开发，安全检查会将其视为未配置。
	DevSessionSecret = "cyberblog-dev-secret"

	AdminModeSecret  = "secret"
	AdminModeAccount = "account"
)

// 兼容旧部署使用的环境变量名。
var plainEnvKeys = map[string]string{
	"PORT":           "server.port",
	"LISTEN_ADDR":    "server.listen_addr",
	"GIN_MODE":       "server.gin_mode",
	"DATABASE_PATH":  "database.path",
	"SESSION_SECRET": "session.secret",
	"ADMIN_PASSWORD": "admin.secret",
}

// AppConfig 汇总运行服务所需的全部配置。
type AppConfig struct {
	Server   ServerConfig   `yaml:"server" koanf:"server"`
	Database DatabaseConfig `yaml:"database" koanf:"database"`
	Session  SessionConfig  `yaml:"session" koanf:"session"`
	Admin    AdminConfig    `yaml:"admin" koanf:"admin"`
	Content  ContentConfig  `yaml:"content" koanf:"content"`
	Store    StoreConfig    `yaml:"store" koanf:"store"`
	Log      LogConfig      `yaml:"log" koanf:"log"`
}

type ServerConfig struct {
	Port        string   `yaml:"port" koanf:"port"`
	ListenAddr  string   `yaml:"listen_addr" koanf:"listen_addr"`
	GinMode     string   `yaml:"gin_mode" koanf:"gin_mode"`
	CORSOrigins []string `yaml:"cors_origins" koanf:"cors_origins"`
}

type DatabaseConfig struct {
	Path    string `yaml:"path" koanf:"path"`
	Verbose bool   `yaml:"verbose" koanf:"verbose"`
}

// SessionConfig 配置会话 Cookie。Secure 在 HTTPS 部署时应开启。
type SessionConfig struct {
	Secret string `yaml:"secret" koanf:"secret"`
	Name   string `yaml:"name" koanf:"name"`
	Secure bool   `yaml:"secure" koanf:"secure"`
}

// AdminConfig 选择后台登录方式。Email/Password 仅用于 account 模式下首次启动时创建账号。
type AdminConfig struct {
	Mode     string `yaml:"mode" koanf:"mode"`
	Secret   string `yaml:"secret" koanf:"secret"`
	Email    string `yaml:"email" koanf:"email"`
	Password string `yaml:"password" koanf:"password"`
}

type ContentConfig struct {
	PageSize       int    `yaml:"page_size" koanf:"page_size"`
	InboxDir       string `yaml:"inbox_dir" koanf:"inbox_dir"`
	HighlightStyle string `yaml:"highlight_style" koanf:"highlight_style"`
}

// StoreConfig 保留托管数据库时代的连接参数。ProjectID 决定默认数据库文件名。
type StoreConfig struct {
	APIKey    string `yaml:"api_key" koanf:"api_key"`
	ProjectID string `yaml:"project_id" koanf:"project_id"`
	AppID     string `yaml:"app_id" koanf:"app_id"`
}

type LogConfig struct {
	Level string `yaml:"level" koanf:"level"`
}

// Default returns the configuration used when nothing is set.
func Default() AppConfig {
	return AppConfig{
		Server:   ServerConfig{Port: "8080", GinMode: "release"},
		Database: DatabaseConfig{},
		Session:  SessionConfig{Secret: DevSessionSecret, Name: "cyberblog_session"},
		Admin:    AdminConfig{Mode: AdminModeAccount},
		Content:  ContentConfig{PageSize: content.DefaultPageSize, HighlightStyle: "monokai"},
		Log:      LogConfig{Level: "info"},
	}
}

// Load 依次叠加默认值、YAML 文件（不存在时跳过）、旧环境变量名与 CYBERBLOG_ 前缀的环境变量。
func Load(path string) (AppConfig, error) {
	cfg := Default()
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return cfg, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", func(s string) string {
		return plainEnvKeys[s]
	}), nil); err != nil {
		return cfg, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.Replace(key, "_", ".", 1)
	}), nil); err != nil {
		return cfg, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshalling config: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

func (c *AppConfig) normalize() {
	c.Server.Port = strings.TrimSpace(c.Server.Port)
	c.Server.ListenAddr = strings.TrimSpace(c.Server.ListenAddr)
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":" + c.Server.Port
	}

	origins := make([]string, 0, len(c.Server.CORSOrigins))
	for _, entry := range c.Server.CORSOrigins {
		for _, origin := range strings.Split(entry, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}
	c.Server.CORSOrigins = origins

	c.Admin.Mode = strings.ToLower(strings.TrimSpace(c.Admin.Mode))
	c.Admin.Secret = strings.TrimSpace(c.Admin.Secret)
	c.Session.Secret = strings.TrimSpace(c.Session.Secret)

	if strings.TrimSpace(c.Database.Path) == "" {
		c.Database.Path = c.DefaultDatabasePath()
	}
}

// DefaultDatabasePath 由 store.project_id 推导数据库文件名，未设置时为 cyberblog.db。
func (c AppConfig) DefaultDatabasePath() string {
	project := strings.TrimSpace(c.Store.ProjectID)
	if project == "" {
		return db.DefaultPath
	}
	return strings.NewReplacer("/", "-", "\\", "-", " ", "-").Replace(project) + ".db"
}

// Validate checks that the configuration contains usable values.
func (c AppConfig) Validate() error {
	switch c.Admin.Mode {
	case AdminModeSecret, AdminModeAccount:
	default:
		return fmt.Errorf("invalid admin.mode %q: must be one of secret, account", c.Admin.Mode)
	}
	if !content.ValidPageSize(c.Content.PageSize) {
		return fmt.Errorf("invalid content.page_size %d: must be one of %v", c.Content.PageSize, content.PageSizes)
	}
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("session.secret is required")
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid server.gin_mode %q", c.Server.GinMode)
	}
	return nil
}

// Save writes the configuration to the given YAML file path.
func (c AppConfig) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}
