package handler

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/cyberblog/internal/content"
	"github.com/cyberblog/internal/locale"
	"github.com/cyberblog/internal/service"
	"github.com/cyberblog/internal/view"
	"github.com/gin-gonic/gin"
)

// dashboardSections 为控制台分区，顺序即导航顺序。
var dashboardSections = []string{"overview", "posts", "projects", "editor", "settings"}

// flashFailure 记录一条错误提示；未识别的错误使用 fallback 文案。
func flashFailure(c *gin.Context, err error, fallback string) {
	key := errorMessageKey(err)
	if key == "" {
		c.Error(err)
		key = fallback
	}
	addFlash(c, flashError, text(c, key))
}

// Login 校验凭据并授予管理员能力，成功后进入控制台。
func (a *API) Login(c *gin.Context) {
	creds := service.Credentials{
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
		Secret:   c.PostForm("secret"),
	}

	identity, err := a.gate.Login(c.Request.Context(), creds)
	if err != nil {
		flashFailure(c, err, locale.MsgLoginFailed)
		redirectHome(c)
		return
	}

	if err := grantAdmin(c, identity); err != nil {
		c.Error(err)
		addFlash(c, flashError, text(c, locale.MsgLoginFailed))
		redirectHome(c)
		return
	}
	a.dispatch(c, view.LoggedIn{})
	addFlash(c, flashNotice, text(c, locale.MsgLoginSuccess))
	redirectHome(c)
}

// Register 创建管理员账号，仅账号模式可用。首个账号可匿名注册，之后只有管理员能添加账号。
func (a *API) Register(c *gin.Context) {
	if a.registrar == nil {
		addFlash(c, flashError, text(c, locale.MsgRegisterDisabled))
		redirectHome(c)
		return
	}

	admin := isAdmin(c)
	if !admin {
		open, err := a.registrationOpen(c)
		if err != nil || !open {
			if err == nil {
				err = service.ErrRegisterClosed
			}
			flashFailure(c, err, locale.MsgRegisterFailed)
			redirectHome(c)
			return
		}
	}

	_, err := a.registrar.Register(c.Request.Context(), c.PostForm("email"), c.PostForm("password"), c.PostForm("confirm"))
	if err != nil {
		flashFailure(c, err, locale.MsgRegisterFailed)
	} else {
		addFlash(c, flashNotice, text(c, locale.MsgRegisterSuccess))
	}
	if admin {
		a.redirectAdmin(c, "settings")
		return
	}
	redirectHome(c)
}

// registrationOpen 报告匿名访客当前能否注册。
func (a *API) registrationOpen(c *gin.Context) (bool, error) {
	if a.registrar == nil {
		return false, nil
	}
	return a.registrar.RegistrationOpen(c.Request.Context())
}

// Logout 撤销管理员能力并回到首页。
func (a *API) Logout(c *gin.Context) {
	if err := a.gate.Logout(c.Request.Context(), adminIdentity(c)); err != nil {
		c.Error(err)
	}
	a.clearDraft(c)
	if err := revokeAdmin(c); err != nil {
		c.Error(err)
	}
	a.dispatch(c, view.LoggedOut{})
	addFlash(c, flashNotice, text(c, locale.MsgLoggedOut))
	redirectHome(c)
}

func draftFromForm(c *gin.Context) service.Draft {
	category, err := content.ParseCategory(c.DefaultPostForm("category", string(content.CategoryPost)))
	if err != nil {
		category = content.CategoryPost
	}
	return service.Draft{
		Title:    c.PostForm("title"),
		Content:  c.PostForm("content"),
		Tags:     c.PostForm("tags"),
		Category: category,
	}
}

// Publish 发布编辑器中的草稿，成功后跳转到对应分类的列表第一页。
func (a *API) Publish(c *gin.Context) {
	draft := draftFromForm(c)
	item, err := a.publisher.Publish(c.Request.Context(), draft)
	if err != nil {
		if saveErr := a.saveDraft(c, draft); saveErr != nil {
			c.Error(saveErr)
		}
		flashFailure(c, err, locale.MsgPublishFailed)
		redirectHome(c)
		return
	}

	a.clearDraft(c)
	a.dispatch(c, view.Published{Category: item.Category})
	addFlash(c, flashNotice, text(c, locale.MsgPublishSuccess))
	redirectHome(c)
}

// ImportMarkdown 读取上传的 .md 文件并填入编辑器，不会直接发布。
func (a *API) ImportMarkdown(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		addFlash(c, flashError, text(c, locale.MsgImportReadFailed))
		redirectHome(c)
		return
	}

	if !service.IsMarkdownFile(fileHeader.Filename, fileHeader.Header.Get("Content-Type")) {
		addFlash(c, flashError, text(c, locale.MsgImportNotMD))
		redirectHome(c)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		addFlash(c, flashError, text(c, locale.MsgImportReadFailed))
		redirectHome(c)
		return
	}
	defer file.Close()

	draft, err := service.ImportMarkdown(fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		flashFailure(c, err, locale.MsgImportReadFailed)
		redirectHome(c)
		return
	}

	if err := a.saveDraft(c, draft); err != nil {
		flashFailure(c, err, locale.MsgImportReadFailed)
		redirectHome(c)
		return
	}
	addFlash(c, flashNotice, text(c, locale.MsgImportSuccess)+`: "`+draft.Title+`"`)
	a.dispatch(c, view.Navigate{Tab: view.TabSettings})
	c.Redirect(http.StatusSeeOther, "/?section=editor")
}

// UpdateItem 保存控制台中对已有内容的修改。
func (a *API) UpdateItem(c *gin.Context) {
	category, ok := parseCategoryParam(c)
	if !ok {
		return
	}
	draft := draftFromForm(c)
	draft.Category = category

	if _, err := a.publisher.Update(c.Request.Context(), category, c.Param("id"), draft); err != nil {
		flashFailure(c, err, locale.MsgPublishFailed)
	} else {
		addFlash(c, flashNotice, text(c, locale.MsgUpdateSuccess))
	}
	a.redirectAdmin(c, category.Collection())
}

// DeleteItem 删除内容，表单字段 confirm 必须精确为 DELETE。
func (a *API) DeleteItem(c *gin.Context) {
	category, ok := parseCategoryParam(c)
	if !ok {
		return
	}
	err := a.publisher.Delete(c.Request.Context(), category, c.Param("id"), c.PostForm("confirm"))
	switch {
	case err == nil:
		addFlash(c, flashNotice, text(c, locale.MsgDeleteSuccess))
	case errors.Is(err, service.ErrDeleteNotConfirmed):
		addFlash(c, flashError, text(c, locale.MsgDeleteConfirm))
	default:
		flashFailure(c, err, locale.MsgDeleteFailed)
	}
	a.redirectAdmin(c, category.Collection())
}

// UpdateSettings 保存站点名称与管理员邮箱。
func (a *API) UpdateSettings(c *gin.Context) {
	_, err := a.settings.UpdateSettings(c.Request.Context(), service.SiteSettings{
		SiteName:   c.PostForm("site_name"),
		AdminEmail: c.PostForm("admin_email"),
	})
	if err != nil {
		flashFailure(c, err, locale.MsgPublishFailed)
	} else {
		addFlash(c, flashNotice, text(c, locale.MsgSettingsSaved))
	}
	a.redirectAdmin(c, "settings")
}

// redirectAdmin 在控制台内操作时回到对应分区，在列表页操作时回到列表。
func (a *API) redirectAdmin(c *gin.Context, section string) {
	if a.loadState(c).Tab != view.TabSettings {
		redirectHome(c)
		return
	}
	c.Redirect(http.StatusSeeOther, "/?section="+section)
}

// fillDashboard 填充控制台数据；统计失败时渲染错误页并返回 false。
func (a *API) fillDashboard(c *gin.Context, data gin.H) bool {
	overview, err := a.dashboard.Overview(c.Request.Context())
	if err != nil {
		c.Error(err)
		a.renderHTML(c, http.StatusInternalServerError, "error.html", gin.H{
			"message": text(c, locale.MsgLoadFailed),
		})
		return false
	}

	section := strings.ToLower(strings.TrimSpace(c.Query("section")))
	if !slices.Contains(dashboardSections, section) {
		section = dashboardSections[0]
	}

	recent := make([]CardView, 0, len(overview.Recent))
	for _, item := range overview.Recent {
		recent = append(recent, a.toCard(item))
	}

	settings := service.SiteSettings{SiteName: service.DefaultSiteName}
	if a.settings != nil {
		if loaded, err := a.settings.GetSettings(c.Request.Context()); err == nil {
			settings = loaded
		} else {
			c.Error(err)
		}
	}

	data["section"] = section
	data["sections"] = dashboardSections
	data["overview"] = overview
	data["recent"] = recent
	data["posts"] = overview.Posts
	data["projects"] = overview.Projects
	data["draft"] = a.loadDraft(c)
	data["settings"] = settings
	data["admin"] = adminIdentity(c)
	data["deleteConfirmation"] = service.DeleteConfirmation
	data["canRegister"] = a.registrar != nil
	return true
}
