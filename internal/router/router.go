package router

import (
	"html/template"
	"net/http"

	"github.com/cyberblog/internal/handler"
	"github.com/cyberblog/internal/view"
	"github.com/cyberblog/web"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	golog "github.com/ipfs/go-log/v2"
)

var logger = golog.Logger("cyberblog/http")

// DefaultSessionName 是会话 Cookie 的默认名称。
const DefaultSessionName = "cyberblog_session"

const sessionMaxAge = 7 * 24 * 60 * 60

// Options 控制会话 Cookie。
type Options struct {
	SessionSecret string
	SessionName   string
	SecureCookies bool
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"icon": func(key string) template.HTML {
			return template.HTML(view.Icon(key))
		},
		// dict 把成对参数组装成 map，供子模板接收多个值。
		"dict": func(pairs ...interface{}) map[string]interface{} {
			out := make(map[string]interface{}, len(pairs)/2)
			for i := 0; i+1 < len(pairs); i += 2 {
				if key, ok := pairs[i].(string); ok {
					out[key] = pairs[i+1]
				}
			}
			return out
		},
	}
}

// errorLogger 记录处理过程中通过 c.Error 收集的错误。
func errorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		for _, err := range c.Errors {
			logger.Warnw("request error", "method", c.Request.Method, "path", c.FullPath(), "status", c.Writer.Status(), "error", err.Err)
		}
	}
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, opts Options) *gin.Engine {
	r := gin.Default()
	r.Use(errorLogger())

	// 配置会话中间件
	name := opts.SessionName
	if name == "" {
		name = DefaultSessionName
	}
	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(name, store))
	r.Use(api.LocaleMiddleware())

	// 加载模板
	r.SetHTMLTemplate(template.Must(web.Templates(templateFuncs())))

	// 静态文件服务
	r.StaticFS("/static", http.FS(web.Static()))
	r.GET("/assets/chroma.css", api.ChromaCSS)

	r.GET("/healthz", api.Healthz)
	r.GET("/ws", api.ServeLive)

	r.GET("/", api.ShowIndex)

	ui := r.Group("/ui")
	{
		ui.POST("/nav/:tab", api.Navigate)
		ui.POST("/select/:category/:id", api.SelectItem)
		ui.POST("/back", api.Back)
		ui.POST("/page/:page", api.ChangePage)
		ui.POST("/page-size/:size", api.ChangePageSize)
	}

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.POST("/login", api.Login)
		admin.POST("/register", api.Register)
		admin.POST("/logout", api.Logout)

		auth := admin.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.POST("/publish", api.Publish)
			auth.POST("/import", api.ImportMarkdown)
			auth.POST("/items/:category/:id", api.UpdateItem)
			auth.POST("/items/:category/:id/delete", api.DeleteItem)
			auth.POST("/settings", api.UpdateSettings)
		}
	}

	// JSON 接口
	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/admin/session", api.LoginJSON)
		apiGroup.DELETE("/admin/session", api.LogoutJSON)

		apiGroup.GET("/:category", api.ListItems)
		apiGroup.GET("/:category/:id", api.GetItem)

		auth := apiGroup.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/admin/overview", api.AdminOverview)
			auth.POST("/:category", api.CreateItem)
			auth.PUT("/:category/:id", api.UpdateItemJSON)
			auth.DELETE("/:category/:id", api.DeleteItemJSON)
		}
	}

	return r
}

// Handler 为引擎加上跨域策略；未配置来源时原样返回。
func Handler(engine *gin.Engine, origins []string) http.Handler {
	if len(origins) == 0 {
		return engine
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", handler.ConfirmHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})(engine)
}
