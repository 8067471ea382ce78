package router

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/cyberblog/internal/content"
	"github.com/cyberblog/internal/db"
	"github.com/cyberblog/internal/handler"
	"github.com/cyberblog/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupRouterTest(t *testing.T) (*gin.Engine, *service.DocumentStore, *service.Library) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
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

	store := service.NewDocumentStore(gdb)
	library := service.NewLibrary(store)
	api := handler.NewAPI(handler.Options{
		Store:     store,
		Library:   library,
		Publisher: service.NewPublisher(store, library, nil),
		Gate:      service.NewSecretGate("router-secret"),
		Dashboard: service.NewDashboardService(store, nil),
		Settings:  service.NewSystemSettingService(gdb),
		Drafts:    service.NewDraftService(gdb),
	})
	return SetupRouter(api, Options{SessionSecret: "test-secret"}), store, library
}

// browse 依次执行请求，并在请求之间携带会话 Cookie。
type browse struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func (b *browse) send(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for _, cookie := range b.cookies {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	b.handler.ServeHTTP(rr, req)
	if fresh := rr.Result().Cookies(); len(fresh) > 0 {
		merged := map[string]*http.Cookie{}
		for _, cookie := range b.cookies {
			merged[cookie.Name] = cookie
		}
		for _, cookie := range fresh {
			merged[cookie.Name] = cookie
		}
		b.cookies = b.cookies[:0]
		for _, cookie := range merged {
			b.cookies = append(b.cookies, cookie)
		}
	}
	return rr
}

func (b *browse) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.send(req)
}

func (b *browse) get(path string) *httptest.ResponseRecorder {
	return b.send(httptest.NewRequest(http.MethodGet, path, nil))
}

func TestTemplatesRenderEveryRoute(t *testing.T) {
	r, store, library := setupRouterTest(t)
	item, err := store.Create(context.Background(), content.CategoryPost, service.NewItem{
		Title:   "霓虹之城",
		Content: "# 标题\n\n```go\nfmt.Println(1)\n```",
		Tags:    "go,web",
		Date:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("failed to seed item: %v", err)
	}
	if err := library.LoadAll(context.Background()); err != nil {
		t.Fatalf("failed to load library: %v", err)
	}

	b := &browse{t: t, handler: r}
	steps := []struct {
		name   string
		action func()
		expect string
	}{
		{"home", func() {}, "chenling3435@163.com"},
		{"list", func() { b.post("/ui/nav/posts", nil) }, "霓虹之城"},
		{"detail", func() { b.post("/ui/select/post/"+item.ID, nil) }, `class="chroma"`},
		{"toolbox", func() { b.post("/ui/nav/toolbox", nil) }, "https://gin-gonic.com/"},
		{"login", func() { b.post("/ui/nav/settings", nil) }, `action="/admin/login"`},
		{"dashboard", func() { b.post("/admin/login", url.Values{"secret": {"router-secret"}}) }, `action="/admin/logout"`},
	}
	for _, step := range steps {
		step.action()
		rr := b.get("/")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected status %d, got %d", step.name, http.StatusOK, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), step.expect) {
			t.Fatalf("%s: expected body to contain %q", step.name, step.expect)
		}
	}

	for _, section := range []string{"posts", "editor", "settings"} {
		rr := b.get("/?section=" + section)
		if rr.Code != http.StatusOK {
			t.Fatalf("section %s: expected status %d, got %d", section, http.StatusOK, rr.Code)
		}
	}
	if rr := b.get("/?section=posts"); !strings.Contains(rr.Body.String(), `name="confirm"`) {
		t.Fatalf("expected delete confirmation field on posts section")
	}
}

func TestSetupRouterServesStaticAssets(t *testing.T) {
	r, _, _ := setupRouterTest(t)

	req := httptest.NewRequest(http.MethodGet, "/static/app.css", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "--accent") {
		t.Fatalf("unexpected stylesheet body")
	}
}

func TestHandlerAppliesCORS(t *testing.T) {
	r, _, _ := setupRouterTest(t)
	h := Handler(r, []string{"https://blog.example.com"})

	req := httptest.NewRequest(http.MethodOptions, "/api/post", nil)
	req.Header.Set("Origin", "https://blog.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://blog.example.com" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/post", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no CORS header for unknown origin, got %q", got)
	}

	if Handler(r, nil) != http.Handler(r) {
		t.Fatalf("expected engine to be returned unchanged without origins")
	}
}

func TestDictFunc(t *testing.T) {
	dict := templateFuncs()["dict"].(func(...interface{}) map[string]interface{})
	got := dict("items", 1, "confirm", "DELETE", "dangling")
	if len(got) != 2 || got["items"] != 1 || got["confirm"] != "DELETE" {
		t.Fatalf("unexpected dict result: %#v", got)
	}
}
