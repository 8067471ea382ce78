package main

import (
	"fmt"

	"github.com/cyberblog/internal/config"
	"github.com/cyberblog/internal/db"
	"github.com/cyberblog/internal/markdown"
	"github.com/cyberblog/internal/service"
	"gorm.io/gorm"
)

// app 持有一次命令执行所需的服务。
type app struct {
	cfg       config.AppConfig
	db        *gorm.DB
	store     *service.DocumentStore
	library   *service.Library
	publisher *service.Publisher
	gate      service.Gate
	accounts  *service.AccountGate
	dashboard *service.DashboardService
	settings  *service.SystemSettingService
	drafts    *service.DraftService
	renderer  *markdown.Renderer
}

// openApp 打开数据库并按 admin.mode 组装服务。notifier 可以为空。
func openApp(cfg config.AppConfig, notifier service.Notifier) (*app, error) {
	gdb, err := db.Open(cfg.Database.Path, cfg.Database.Verbose)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", cfg.Database.Path, err)
	}

	store := service.NewDocumentStore(gdb)
	library := service.NewLibrary(store)
	a := &app{
		cfg:       cfg,
		db:        gdb,
		store:     store,
		library:   library,
		publisher: service.NewPublisher(store, library, notifier),
		settings:  service.NewSystemSettingService(gdb),
		drafts:    service.NewDraftService(gdb),
		renderer:  markdown.New(cfg.Content.HighlightStyle),
	}

	if cfg.Admin.Mode == config.AdminModeSecret {
		gate := service.NewSecretGate(cfg.Admin.Secret)
		if gate.UsesDefault() {
			logger.Warnw("后台使用默认口令，请通过 admin.secret 或 ADMIN_PASSWORD 配置", "mode", cfg.Admin.Mode)
		}
		a.gate = gate
		a.dashboard = service.NewDashboardService(store, nil)
	} else {
		accounts := service.NewAccountGate(gdb)
		a.gate = accounts
		a.accounts = accounts
		a.dashboard = service.NewDashboardService(store, accounts)
	}
	return a, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
}
