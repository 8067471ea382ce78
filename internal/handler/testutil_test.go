package handler_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cyberblog/internal/content"
	"github.com/cyberblog/internal/db"
	"github.com/cyberblog/internal/handler"
	"github.com/cyberblog/internal/router"
	"github.com/cyberblog/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "s3cret-pass"

var ginOnce sync.Once

type stubHTMLRender struct {
	mu   sync.Mutex
	name string
	data gin.H
}

type stubHTMLInstance struct {
	name string
}

func (r *stubHTMLRender) Instance(name string, data interface{}) render.Render {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.name = name
	r.data, _ = data.(gin.H)
	return &stubHTMLInstance{name: name}
}

func (r *stubHTMLRender) last() (string, gin.H) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.name, r.data
}

func (r *stubHTMLInstance) Render(w http.ResponseWriter) error {
	_, err := io.WriteString(w, r.name)
	return err
}

func (r *stubHTMLInstance) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

type eventRecorder struct {
	mu     sync.Mutex
	events []string
}

func (r *eventRecorder) Notify(category content.Category, action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, string(category)+":"+action)
}

func (r *eventRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type testEnv struct {
	db       *gorm.DB
	store    *service.DocumentStore
	library  *service.Library
	engine   *gin.Engine
	renderer *stubHTMLRender
	events   *eventRecorder
}

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	ginOnce.Do(func() {
		gin.SetMode(gin.TestMode)
	})

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

// newTestEnv 组装完整路由；mode 为 secret 或 account。
func newTestEnv(t *testing.T, mode string) *testEnv {
	t.Helper()
	gdb := setupHandlerTestDB(t)

	store := service.NewDocumentStore(gdb)
	library := service.NewLibrary(store)
	events := &eventRecorder{}

	opts := handler.Options{
		Store:     store,
		Library:   library,
		Publisher: service.NewPublisher(store, library, events),
		Settings:  service.NewSystemSettingService(gdb),
		Drafts:    service.NewDraftService(gdb),
	}
	if mode == service.GateModeAccount {
		gate := service.NewAccountGate(gdb)
		opts.Gate = gate
		opts.Registrar = gate
		opts.Dashboard = service.NewDashboardService(store, gate)
	} else {
		opts.Gate = service.NewSecretGate(testSecret)
		opts.Dashboard = service.NewDashboardService(store, nil)
	}

	engine := router.SetupRouter(handler.NewAPI(opts), router.Options{SessionSecret: "test-session-secret"})
	renderer := &stubHTMLRender{}
	engine.HTMLRender = renderer

	return &testEnv{
		db:       gdb,
		store:    store,
		library:  library,
		engine:   engine,
		renderer: renderer,
		events:   events,
	}
}

// seed 写入 n 条内容并刷新列表缓存，返回时第 0 条最新。
func (e *testEnv) seed(t *testing.T, category content.Category, n int) []content.Item {
	t.Helper()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	items := make([]content.Item, 0, n)
	for i := 0; i < n; i++ {
		item, err := e.store.Create(context.Background(), category, service.NewItem{
			Title:   fmt.Sprintf("%s-%d", category, i),
			Content: "# 标题\n\n正文内容",
			Tags:    "go,web",
			Date:    base.Add(-time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("failed to seed item %d: %v", i, err)
		}
		items = append(items, item)
	}
	if err := e.library.Load(context.Background(), category); err != nil {
		t.Fatalf("failed to load library: %v", err)
	}
	return items
}

// client 在请求之间保留会话 Cookie。
type client struct {
	t       *testing.T
	env     *testEnv
	cookies map[string]*http.Cookie
}

func (e *testEnv) client(t *testing.T) *client {
	return &client{t: t, env: e, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	c.env.engine.ServeHTTP(recorder, req)
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(c.cookies, cookie.Name)
			continue
		}
		c.cookies[cookie.Name] = cookie
	}
	return recorder
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) postForm(path string, form map[string]string) *httptest.ResponseRecorder {
	values := url.Values{}
	for key, value := range form {
		values.Set(key, value)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) sendJSON(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// page 请求首页并返回渲染的模板名与数据。
func (c *client) page() (string, gin.H) {
	c.t.Helper()
	recorder := c.get("/")
	if recorder.Code != http.StatusOK && recorder.Code != http.StatusInternalServerError {
		c.t.Fatalf("expected index to render, got status %d", recorder.Code)
	}
	return c.env.renderer.last()
}

func (c *client) loginSecret() {
	c.t.Helper()
	recorder := c.postForm("/admin/login", map[string]string{"secret": testSecret})
	if recorder.Code != http.StatusSeeOther {
		c.t.Fatalf("expected login redirect, got %d", recorder.Code)
	}
}

func expectRedirect(t *testing.T, recorder *httptest.ResponseRecorder, location string) {
	t.Helper()
	if recorder.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, recorder.Code)
	}
	if got := recorder.Header().Get("Location"); got != location {
		t.Fatalf("expected redirect to %q, got %q", location, got)
	}
}
