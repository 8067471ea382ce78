package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultPath 是未配置时使用的数据库文件。
const DefaultPath = "cyberblog.db"

// Open 打开数据库并迁移全部模型，verbose 为 true 时输出 SQL 日志。
func Open(databasePath string, verbose bool) (*gorm.DB, error) {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = DefaultPath
	}

	if err := ensureParentDir(path); err != nil {
		return nil, err
	}

	level := logger.Warn
	if verbose {
		level = logger.Info
	}

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

// Migrate 为两个内容集合、管理员账号、系统设置与编辑器草稿建表。
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&Post{},
		&Project{},
		&Account{},
		&SystemSetting{},
		&EditorDraft{},
	)
}

func ensureParentDir(path string) error {
	if strings.HasPrefix(path, "file:") {
		return nil
	}

	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
