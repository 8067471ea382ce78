package handler

import (
	"net/http"
	"time"

	"github.com/cyberblog/internal/locale"
	"github.com/gin-gonic/gin"
)

const (
	localeContextKey     = "__request_locale"
	languageCookieName   = "cb_lang"
	languageCookieMaxAge = 365 * 24 * 60 * 60
)

// LocaleMiddleware 依次从 ?lang、语言 Cookie 与 Accept-Language 解析请求语言。
func (a *API) LocaleMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		language := ""
		if override := locale.NormalizeLanguage(c.Query("lang")); override != "" {
			language = override
			a.persistLanguage(c, override)
		} else if cookie, err := c.Cookie(languageCookieName); err == nil {
			language = locale.NormalizeLanguage(cookie)
		}
		if language == "" {
			language = locale.FromAcceptLanguage(c.GetHeader("Accept-Language"))
		}

		pref := locale.PreferenceFor(language)
		c.Set(localeContextKey, pref)
		c.Header("Content-Language", pref.HTMLLang)
		c.Header("Vary", "Accept-Language, Cookie")
		c.Next()
	}
}

func requestLocale(c *gin.Context) locale.Preference {
	if cached, exists := c.Get(localeContextKey); exists {
		if pref, ok := cached.(locale.Preference); ok {
			return pref
		}
	}
	return locale.PreferenceFor("")
}

// text 返回当前请求语言下的提示文案。
func text(c *gin.Context, key string) string {
	return locale.Text(requestLocale(c).Language, key)
}

func (a *API) persistLanguage(c *gin.Context, language string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     languageCookieName,
		Value:    language,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.secureCookies,
		MaxAge:   languageCookieMaxAge,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		SameSite: http.SameSiteLaxMode,
	})
}
