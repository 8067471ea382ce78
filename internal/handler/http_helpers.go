package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/cyberblog/internal/content"
	"github.com/cyberblog/internal/locale"
	"github.com/cyberblog/internal/service"
	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseCategoryParam(c *gin.Context) (content.Category, bool) {
	category, err := content.ParseCategory(c.Param("category"))
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return "", false
	}
	return category, true
}

func parsePositiveInt(value string, fallback int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

// redirectHome 使用 303，使浏览器以 GET 重新加载首页。
func redirectHome(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

// errorMessageKey 把服务层错误映射为界面文案。
func errorMessageKey(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidSecret):
		return locale.MsgAccessDenied
	case errors.Is(err, service.ErrUserNotFound):
		return locale.MsgUserNotFound
	case errors.Is(err, service.ErrWrongPassword):
		return locale.MsgWrongPassword
	case errors.Is(err, service.ErrInvalidEmail):
		return locale.MsgInvalidEmail
	case errors.Is(err, service.ErrTooManyRequests):
		return locale.MsgTooManyRequests
	case errors.Is(err, service.ErrEmailInUse):
		return locale.MsgEmailInUse
	case errors.Is(err, service.ErrWeakPassword):
		return locale.MsgPasswordTooShort
	case errors.Is(err, service.ErrPasswordMismatch):
		return locale.MsgPasswordMismatch
	case errors.Is(err, service.ErrRegisterDisabled):
		return locale.MsgRegisterDisabled
	case errors.Is(err, service.ErrRegisterClosed):
		return locale.MsgRegisterClosed
	case errors.Is(err, service.ErrTitleRequired), errors.Is(err, service.ErrContentRequired):
		return locale.MsgFieldsRequired
	case errors.Is(err, service.ErrDeleteNotConfirmed):
		return locale.MsgDeleteConfirm
	case errors.Is(err, service.ErrNotMarkdown):
		return locale.MsgImportNotMD
	case errors.Is(err, service.ErrImportRead):
		return locale.MsgImportReadFailed
	case errors.Is(err, service.ErrItemNotFound):
		return locale.MsgNotFound
	}
	return ""
}

// statusFor 返回错误对应的 HTTP 状态码。
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrTooManyRequests):
		return http.StatusTooManyRequests
	case errors.Is(err, service.ErrInvalidSecret), errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrWrongPassword):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrEmailInUse):
		return http.StatusConflict
	case errors.Is(err, service.ErrRegisterClosed):
		return http.StatusForbidden
	case errorMessageKey(err) != "":
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
