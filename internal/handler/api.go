package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/cyberblog/internal/content"
	"github.com/cyberblog/internal/markdown"
	"github.com/cyberblog/internal/service"
	"github.com/gin-gonic/gin"
)

// Options 汇集构造 API 所需的服务。Registrar 与 Live 可以为空。
type Options struct {
	Store           service.Store
	Library         *service.Library
	Publisher       *service.Publisher
	Gate            service.Gate
	Registrar       service.Registrar
	Dashboard       *service.DashboardService
	Settings        *service.SystemSettingService
	Drafts          *service.DraftService
	Renderer        *markdown.Renderer
	Live            http.Handler
	DefaultPageSize int
	SecureCookies   bool
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	store           service.Store
	library         *service.Library
	publisher       *service.Publisher
	gate            service.Gate
	registrar       service.Registrar
	dashboard       *service.DashboardService
	settings        *service.SystemSettingService
	drafts          *service.DraftService
	renderer        *markdown.Renderer
	live            http.Handler
	defaultPageSize int
	secureCookies   bool
}

type siteViewModel struct {
	Name       string
	AdminEmail string
}

const siteSettingsContextKey = "__site_settings"

type pinger interface {
	Ping(ctx context.Context) error
}

// NewAPI constructs a handler set with shared services.
func NewAPI(opts Options) *API {
	renderer := opts.Renderer
	if renderer == nil {
		renderer = markdown.New("")
	}
	pageSize := opts.DefaultPageSize
	if !content.ValidPageSize(pageSize) {
		pageSize = content.DefaultPageSize
	}
	return &API{
		store:           opts.Store,
		library:         opts.Library,
		publisher:       opts.Publisher,
		gate:            opts.Gate,
		registrar:       opts.Registrar,
		dashboard:       opts.Dashboard,
		settings:        opts.Settings,
		drafts:          opts.Drafts,
		renderer:        renderer,
		live:            opts.Live,
		defaultPageSize: pageSize,
		secureCookies:   opts.SecureCookies,
	}
}

// ServeLive upgrades /ws connections to the live event hub.
func (a *API) ServeLive(c *gin.Context) {
	if a.live == nil {
		c.Status(http.StatusNotFound)
		return
	}
	a.live.ServeHTTP(c.Writer, c.Request)
}

// Healthz 检查数据库连接。
func (a *API) Healthz(c *gin.Context) {
	if p, ok := a.store.(pinger); ok {
		if err := p.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": a.gate.Mode()})
}

func (a *API) siteSettings(c *gin.Context) siteViewModel {
	if cached, exists := c.Get(siteSettingsContextKey); exists {
		if view, ok := cached.(siteViewModel); ok {
			return view
		}
	}

	view := siteViewModel{Name: service.DefaultSiteName}
	if a.settings != nil {
		settings, err := a.settings.GetSettings(c.Request.Context())
		if err != nil {
			c.Error(err)
		}
		if name := strings.TrimSpace(settings.SiteName); name != "" {
			view.Name = name
		}
		view.AdminEmail = settings.AdminEmail
	}

	c.Set(siteSettingsContextKey, view)
	return view
}

// renderHTML 在向模板渲染时自动附加站点名称、语言与管理员状态。
func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	view := a.siteSettings(c)
	pref := requestLocale(c)

	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}
	if _, exists := payload["site"]; !exists {
		payload["site"] = gin.H{
			"name":       view.Name,
			"adminEmail": view.AdminEmail,
		}
	}
	if _, exists := payload["siteName"]; !exists {
		payload["siteName"] = view.Name
	}
	payload["lang"] = pref.Language
	payload["htmlLang"] = pref.HTMLLang
	payload["isAdmin"] = isAdmin(c)
	payload["gateMode"] = a.gate.Mode()

	c.HTML(status, template, payload)
}
