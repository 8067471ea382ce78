package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/cyberblog/internal/config"
	"github.com/cyberblog/internal/db"
	"github.com/cyberblog/internal/handler"
	"github.com/cyberblog/internal/inbox"
	"github.com/cyberblog/internal/live"
	"github.com/cyberblog/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if cfg.Session.Secret == config.DevSessionSecret {
			logger.Warnw("session.secret 仍为开发默认值，请在生产环境中修改")
		}
		gin.SetMode(cfg.Server.GinMode)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		hub := live.NewHub()
		hub.SetCheckOrigin(originChecker(cfg.Server.CORSOrigins))
		go hub.Run(ctx)

		a, err := openApp(cfg, hub)
		if err != nil {
			return err
		}
		defer a.close()

		if a.accounts != nil {
			if err := db.EnsureAccount(a.db, cfg.Admin.Email, cfg.Admin.Password); err != nil {
				return fmt.Errorf("bootstrapping admin account: %w", err)
			}
		}
		if err := a.library.LoadAll(ctx); err != nil {
			logger.Warnw("初始加载内容失败", "error", err)
		}

		if cfg.Content.InboxDir != "" {
			watcher := inbox.New(cfg.Content.InboxDir, a.publisher)
			go func() {
				if err := watcher.Run(ctx); err != nil {
					logger.Errorw("inbox watcher stopped", "dir", cfg.Content.InboxDir, "error", err)
				}
			}()
		}

		opts := handler.Options{
			Store:           a.store,
			Library:         a.library,
			Publisher:       a.publisher,
			Gate:            a.gate,
			Dashboard:       a.dashboard,
			Settings:        a.settings,
			Drafts:          a.drafts,
			Renderer:        a.renderer,
			Live:            hub,
			DefaultPageSize: cfg.Content.PageSize,
			SecureCookies:   cfg.Session.Secure,
		}
		if a.accounts != nil {
			opts.Registrar = a.accounts
		}
		api := handler.NewAPI(opts)
		engine := router.SetupRouter(api, router.Options{
			SessionSecret: cfg.Session.Secret,
			SessionName:   cfg.Session.Name,
			SecureCookies: cfg.Session.Secure,
		})

		srv := &http.Server{
			Addr:              cfg.Server.ListenAddr,
			Handler:           router.Handler(engine, cfg.Server.CORSOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Infow("server listening", "addr", cfg.Server.ListenAddr, "mode", a.gate.Mode(), "database", cfg.Database.Path)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("running server: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Infow("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

// originChecker 允许同源连接以及配置的跨域来源建立 WebSocket。
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, candidate := range allowed {
			if candidate == "*" || candidate == origin {
				return true
			}
		}
		parsed, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return parsed.Host == r.Host
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
