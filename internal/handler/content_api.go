package handler

import (
	"net/http"

	"github.com/cyberblog/internal/content"
	"github.com/cyberblog/internal/service"
	"github.com/cyberblog/internal/view"
	"github.com/gin-gonic/gin"
)

// ConfirmHeader 携带删除确认口令。
const ConfirmHeader = "X-Confirm"

type itemPayload struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
	Tags    string `json:"tags"`
}

type loginPayload struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password"`
	Secret   string `json:"secret"`
}

func respondServiceError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.Error(err)
	}
	respondError(c, status, err.Error())
}

// ListItems 返回分类下按日期倒序的一页内容。
func (a *API) ListItems(c *gin.Context) {
	category, ok := parseCategoryParam(c)
	if !ok {
		return
	}

	size := parsePositiveInt(c.Query("pageSize"), a.defaultPageSize)
	page := content.NewPage(size, 0)
	if page.Size != size && c.Query("pageSize") != "" {
		respondError(c, http.StatusBadRequest, "pageSize must be one of 3, 5, 10, 20")
		return
	}

	// 其他进程（命令行导入、删除）也会写库，每次列表请求都重新加载
	if err := a.library.Load(c.Request.Context(), category); err != nil {
		c.Error(err)
	}
	all := a.library.Items(category)
	page = page.WithTotal(len(all)).WithCurrent(parsePositiveInt(c.Query("page"), 1))
	items := content.Visible(all, page)

	c.JSON(http.StatusOK, gin.H{
		"items":      items,
		"page":       page.Current,
		"pageSize":   page.Size,
		"totalPages": page.TotalPages(),
		"count":      a.library.Count(category),
	})
}

// GetItem 返回单条内容及渲染后的 HTML，并累计一次浏览。
func (a *API) GetItem(c *gin.Context) {
	category, ok := parseCategoryParam(c)
	if !ok {
		return
	}
	id := c.Param("id")
	ctx := c.Request.Context()

	if err := a.store.IncrementViews(ctx, category, id); err != nil {
		respondServiceError(c, err)
		return
	}
	item, err := a.store.Get(ctx, category, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	html, err := a.renderer.Render(item.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item":    item,
		"tagList": item.TagList(),
		"html":    string(html),
	})
}

// CreateItem 发布一条新内容。
func (a *API) CreateItem(c *gin.Context) {
	category, ok := parseCategoryParam(c)
	if !ok {
		return
	}
	var payload itemPayload
	if !bindJSON(c, &payload, "invalid item payload") {
		return
	}

	item, err := a.publisher.Publish(c.Request.Context(), service.Draft{
		Title:    payload.Title,
		Content:  payload.Content,
		Tags:     payload.Tags,
		Category: category,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateItemJSON 覆盖已有内容的标题、正文与标签。
func (a *API) UpdateItemJSON(c *gin.Context) {
	category, ok := parseCategoryParam(c)
	if !ok {
		return
	}
	var payload itemPayload
	if !bindJSON(c, &payload, "invalid item payload") {
		return
	}

	item, err := a.publisher.Update(c.Request.Context(), category, c.Param("id"), service.Draft{
		Title:    payload.Title,
		Content:  payload.Content,
		Tags:     payload.Tags,
		Category: category,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteItemJSON 删除内容，需要请求头 X-Confirm: DELETE。
func (a *API) DeleteItemJSON(c *gin.Context) {
	category, ok := parseCategoryParam(c)
	if !ok {
		return
	}
	if err := a.publisher.Delete(c.Request.Context(), category, c.Param("id"), c.GetHeader(ConfirmHeader)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AdminOverview 返回控制台统计。
func (a *API) AdminOverview(c *gin.Context) {
	overview, err := a.dashboard.Overview(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"totalPosts":    overview.TotalPosts,
		"totalProjects": overview.TotalProjects,
		"totalViews":    overview.TotalViews,
		"totalAccounts": overview.TotalAccounts,
		"recent":        overview.Recent,
	})
}

// LoginJSON 供脚本客户端获取管理员会话。
func (a *API) LoginJSON(c *gin.Context) {
	var payload loginPayload
	if !bindJSON(c, &payload, "invalid login payload") {
		return
	}
	identity, err := a.gate.Login(c.Request.Context(), service.Credentials{
		Email:    payload.Email,
		Password: payload.Password,
		Secret:   payload.Secret,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := grantAdmin(c, identity); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": true, "email": identity.Email, "mode": a.gate.Mode()})
}

// LogoutJSON 撤销当前会话的管理员能力。
func (a *API) LogoutJSON(c *gin.Context) {
	if err := a.gate.Logout(c.Request.Context(), adminIdentity(c)); err != nil {
		c.Error(err)
	}
	a.clearDraft(c)
	if err := revokeAdmin(c); err != nil {
		respondServiceError(c, err)
		return
	}
	a.dispatch(c, view.LoggedOut{})
	c.Status(http.StatusNoContent)
}
