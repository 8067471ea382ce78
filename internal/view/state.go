package view

import (
	"encoding/json"
	"strings"

	"github.com/cyberblog/internal/content"
)

// Tab 是导航栏上的一个入口。
type Tab string

const (
	TabHome     Tab = "home"
	TabPosts    Tab = "posts"
	TabProjects Tab = "projects"
	TabToolbox  Tab = "toolbox"
	TabSettings Tab = "settings"
)

// Tabs lists the navigation entries in display order.
var Tabs = []Tab{TabHome, TabPosts, TabProjects, TabToolbox, TabSettings}

// ParseTab 解析导航参数，兼容旧的 intro / blog 写法。
func ParseTab(raw string) (Tab, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "home", "intro", "":
		return TabHome, true
	case "posts", "post", "blog":
		return TabPosts, true
	case "projects", "project":
		return TabProjects, true
	case "toolbox", "tools":
		return TabToolbox, true
	case "settings", "admin":
		return TabSettings, true
	}
	return "", false
}

// Category returns the content category listed under the tab, if any.
func (t Tab) Category() (content.Category, bool) {
	switch t {
	case TabPosts:
		return content.CategoryPost, true
	case TabProjects:
		return content.CategoryProject, true
	}
	return "", false
}

// TabFor returns the list tab of a category.
func TabFor(category content.Category) Tab {
	if category == content.CategoryProject {
		return TabProjects
	}
	return TabPosts
}

// Selection 记录被选中的卡片以及选中时所在的分类。
type Selection struct {
	Category content.Category `json:"category"`
	ID       string           `json:"id"`
}

// State 是单个访客的界面状态，只能通过 Reduce 推进。
type State struct {
	Tab      Tab          `json:"tab"`
	Selected Selection    `json:"selected"`
	Pager    content.Page `json:"pager"`
}

// Initial returns the state of a fresh visitor.
func Initial() State {
	return State{Tab: TabHome, Pager: content.NewPage(content.DefaultPageSize, 0)}
}

// HasSelection reports whether a detail item is selected.
func (s State) HasSelection() bool {
	return s.Selected.ID != ""
}

// Event 是驱动状态变化的输入。
type Event interface {
	event()
}

type (
	// Navigate 切换导航入口。
	Navigate struct{ Tab Tab }
	// Select 打开列表中的一张卡片。
	Select struct {
		Category content.Category
		ID       string
	}
	// Back 从详情页返回选中时的列表。
	Back struct{}
	// ChangePage 跳转到指定页。
	ChangePage struct{ Page int }
	// ChangePageSize 修改每页条数。
	ChangePageSize struct{ Size int }
	// ItemsLoaded 报告当前列表重新加载后的条目数。
	ItemsLoaded struct{ Total int }
	// LoggedIn 表示管理员能力已授予。
	LoggedIn struct{}
	// LoggedOut 表示管理员能力已撤销。
	LoggedOut struct{}
	// Published 表示一条内容已写入 Category 对应的集合。
	Published struct{ Category content.Category }
)

func (Navigate) event()       {}
func (Select) event()         {}
func (Back) event()           {}
func (ChangePage) event()     {}
func (ChangePageSize) event() {}
func (ItemsLoaded) event()    {}
func (LoggedIn) event()       {}
func (LoggedOut) event()      {}
func (Published) event()      {}

// Reduce 返回 s 经过 ev 之后的新状态，s 本身不会被修改。
func Reduce(s State, ev Event) State {
	switch e := ev.(type) {
	case Navigate:
		tab, ok := ParseTab(string(e.Tab))
		if !ok || e.Tab == "" {
			return s
		}
		s.Tab = tab
		s.Selected = Selection{}
		s.Pager = s.Pager.Reset()
	case Select:
		if strings.TrimSpace(e.ID) == "" {
			return s
		}
		s.Selected = Selection{Category: e.Category, ID: e.ID}
	case Back:
		if !s.HasSelection() {
			return s
		}
		s.Tab = TabFor(s.Selected.Category)
		s.Selected = Selection{}
	case ChangePage:
		s.Pager = s.Pager.WithCurrent(e.Page)
	case ChangePageSize:
		s.Pager = s.Pager.WithSize(e.Size)
	case ItemsLoaded:
		s.Pager = s.Pager.WithTotal(e.Total)
	case LoggedIn:
		s.Tab = TabSettings
		s.Selected = Selection{}
	case LoggedOut:
		s.Tab = TabHome
		s.Selected = Selection{}
		s.Pager = s.Pager.Reset()
	case Published:
		s.Tab = TabFor(e.Category)
		s.Selected = Selection{}
		s.Pager = s.Pager.Reset()
	}
	return s
}

// RouteKind 是状态最终渲染的视图。
type RouteKind string

const (
	RouteHome           RouteKind = "home"
	RouteList           RouteKind = "list"
	RouteDetail         RouteKind = "detail"
	RouteToolbox        RouteKind = "toolbox"
	RouteAdminSettings  RouteKind = "admin-settings"
	RouteAdminDashboard RouteKind = "admin-dashboard"
)

// Route 描述要渲染的视图及其参数。
type Route struct {
	Kind     RouteKind
	Category content.Category
	ItemID   string
}

// Route 计算当前应渲染的视图。设置页在持有管理员能力时升级为控制台。
func (s State) Route(isAdmin bool) Route {
	if s.HasSelection() {
		return Route{Kind: RouteDetail, Category: s.Selected.Category, ItemID: s.Selected.ID}
	}
	switch s.Tab {
	case TabPosts, TabProjects:
		category, _ := s.Tab.Category()
		return Route{Kind: RouteList, Category: category}
	case TabToolbox:
		return Route{Kind: RouteToolbox}
	case TabSettings:
		if isAdmin {
			return Route{Kind: RouteAdminDashboard}
		}
		return Route{Kind: RouteAdminSettings}
	}
	return Route{Kind: RouteHome}
}

// Encode serializes the state for the session cookie.
func (s State) Encode() (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Decode 还原会话中的状态；无法解析或字段非法时回退到初始状态的对应部分。
func Decode(raw string) State {
	state := Initial()
	if strings.TrimSpace(raw) == "" {
		return state
	}

	var decoded State
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return state
	}

	if tab, ok := ParseTab(string(decoded.Tab)); ok {
		state.Tab = tab
	}
	if decoded.Selected.ID != "" {
		if category, err := content.ParseCategory(string(decoded.Selected.Category)); err == nil {
			state.Selected = Selection{Category: category, ID: decoded.Selected.ID}
		}
	}
	state.Pager = content.NewPage(decoded.Pager.Size, decoded.Pager.Total)
	state.Pager = state.Pager.WithCurrent(decoded.Pager.Current)
	return state
}
