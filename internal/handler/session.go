package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/cyberblog/internal/content"
	"github.com/cyberblog/internal/service"
	"github.com/cyberblog/internal/view"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	sessionStateKey      = "view_state"
	sessionAdminKey      = "is_admin"
	sessionAdminEmailKey = "admin_email"
	sessionDraftKey      = "editor_draft"

	flashNotice = "notice"
	flashError  = "error"
)

// loadState 读取会话中的界面状态，首次访问时使用配置的默认每页条数。
func (a *API) loadState(c *gin.Context) view.State {
	session := sessions.Default(c)
	raw, _ := session.Get(sessionStateKey).(string)
	if raw == "" {
		state := view.Initial()
		state.Pager = content.NewPage(a.defaultPageSize, 0)
		return state
	}
	return view.Decode(raw)
}

func (a *API) saveState(c *gin.Context, state view.State) {
	encoded, err := state.Encode()
	if err != nil {
		c.Error(err)
		return
	}
	session := sessions.Default(c)
	session.Set(sessionStateKey, encoded)
	if err := session.Save(); err != nil {
		c.Error(err)
	}
}

// dispatch 将事件作用于当前状态并写回会话。
func (a *API) dispatch(c *gin.Context, events ...view.Event) view.State {
	state := a.loadState(c)
	for _, ev := range events {
		state = view.Reduce(state, ev)
	}
	a.saveState(c, state)
	return state
}

func isAdmin(c *gin.Context) bool {
	session := sessions.Default(c)
	granted, _ := session.Get(sessionAdminKey).(bool)
	return granted
}

func adminIdentity(c *gin.Context) service.Identity {
	session := sessions.Default(c)
	email, _ := session.Get(sessionAdminEmailKey).(string)
	return service.Identity{Email: email}
}

func grantAdmin(c *gin.Context, identity service.Identity) error {
	session := sessions.Default(c)
	session.Set(sessionAdminKey, true)
	session.Set(sessionAdminEmailKey, identity.Email)
	return session.Save()
}

func revokeAdmin(c *gin.Context) error {
	session := sessions.Default(c)
	session.Delete(sessionAdminKey)
	session.Delete(sessionAdminEmailKey)
	session.Delete(sessionDraftKey)
	return session.Save()
}

func addFlash(c *gin.Context, kind, message string) {
	session := sessions.Default(c)
	session.AddFlash(message, kind)
	if err := session.Save(); err != nil {
		c.Error(err)
	}
}

func takeFlashes(c *gin.Context, kind string) []string {
	session := sessions.Default(c)
	raw := session.Flashes(kind)
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(); err != nil {
		c.Error(err)
	}
	messages := make([]string, 0, len(raw))
	for _, value := range raw {
		if text, ok := value.(string); ok {
			messages = append(messages, text)
		}
	}
	return messages
}

// draftKey 返回会话持有的草稿 key，create 为 true 时按需生成并写回会话。
func draftKey(c *gin.Context, create bool) string {
	session := sessions.Default(c)
	key, _ := session.Get(sessionDraftKey).(string)
	if key != "" || !create {
		return key
	}
	key = service.NewDraftKey()
	session.Set(sessionDraftKey, key)
	if err := session.Save(); err != nil {
		c.Error(err)
		return ""
	}
	return key
}

// saveDraft 把草稿写入数据库；会话只记录草稿 key。
func (a *API) saveDraft(c *gin.Context, draft service.Draft) error {
	key := draftKey(c, true)
	if key == "" {
		return errors.New("session unavailable for draft")
	}
	return a.drafts.Save(c.Request.Context(), key, draft)
}

func (a *API) loadDraft(c *gin.Context) service.Draft {
	draft, err := a.drafts.Load(c.Request.Context(), draftKey(c, false))
	if err != nil {
		c.Error(err)
	}
	return draft
}

func (a *API) clearDraft(c *gin.Context) {
	if err := a.drafts.Discard(c.Request.Context(), draftKey(c, false)); err != nil {
		c.Error(err)
	}
}

// AuthRequired 要求会话持有管理员能力。JSON 接口返回 401，页面请求回到首页。
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isAdmin(c) {
			c.Next()
			return
		}
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			respondError(c, http.StatusUnauthorized, "admin access required")
		} else {
			c.Redirect(http.StatusSeeOther, "/")
		}
		c.Abort()
	}
}
