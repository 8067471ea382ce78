package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cyberblog/internal/content"
	"github.com/cyberblog/internal/locale"
	"github.com/cyberblog/internal/service"
	"github.com/cyberblog/internal/view"
	"github.com/gin-gonic/gin"
)

const excerptLength = 120

// CardView 是列表与控制台中的一张内容卡片。
type CardView struct {
	ID       string
	Category string
	Title    string
	Excerpt  string
	Tags     []string
	Date     string
	Views    int64
}

// PagerView 渲染分页条。
type PagerView struct {
	Current    int
	TotalPages int
	Size       int
	Sizes      []int
	HasPrev    bool
	HasNext    bool
	Pages      []int
}

// TabView is one entry of the top navigation.
type TabView struct {
	Key    string
	Label  string
	Active bool
}

var tabLabels = map[view.Tab][2]string{
	view.TabHome:     {"简介", "Intro"},
	view.TabPosts:    {"文章", "Posts"},
	view.TabProjects: {"项目", "Projects"},
	view.TabToolbox:  {"工具箱", "Toolbox"},
	view.TabSettings: {"设置", "Settings"},
}

func (a *API) toCard(item content.Item) CardView {
	return CardView{
		ID:       item.ID,
		Category: string(item.Category),
		Title:    item.Title,
		Excerpt:  a.renderer.Excerpt(item.Content, excerptLength),
		Tags:     item.TagList(),
		Date:     item.Date.Format("2006-01-02"),
		Views:    item.Views,
	}
}

func (a *API) toCards(items []content.Item) []CardView {
	cards := make([]CardView, 0, len(items))
	for _, item := range items {
		cards = append(cards, a.toCard(item))
	}
	return cards
}

func buildPagerView(page content.Page) PagerView {
	total := page.TotalPages()
	pages := make([]int, 0, total)
	for i := 1; i <= total; i++ {
		pages = append(pages, i)
	}
	return PagerView{
		Current:    page.Current,
		TotalPages: total,
		Size:       page.Size,
		Sizes:      content.PageSizes,
		HasPrev:    page.HasPrev(),
		HasNext:    page.HasNext(),
		Pages:      pages,
	}
}

func buildTabs(c *gin.Context, state view.State) []TabView {
	english := requestLocale(c).Language == locale.LanguageEnglish
	tabs := make([]TabView, 0, len(view.Tabs))
	for _, tab := range view.Tabs {
		label := tabLabels[tab][0]
		if english {
			label = tabLabels[tab][1]
		}
		tabs = append(tabs, TabView{
			Key:    string(tab),
			Label:  label,
			Active: tab == state.Tab && !state.HasSelection(),
		})
	}
	return tabs
}

// listTotal 返回状态当前所在列表的条目数，非列表页返回 -1。
func (a *API) listTotal(state view.State) int {
	category, ok := state.Tab.Category()
	if !ok {
		return -1
	}
	return len(a.library.Items(category))
}

// syncPager 在处理分页事件前用最新的列表长度校正分页。
func (a *API) syncPager(state view.State) []view.Event {
	if total := a.listTotal(state); total >= 0 {
		return []view.Event{view.ItemsLoaded{Total: total}}
	}
	return nil
}

// ShowIndex 根据会话中的界面状态渲染当前视图。
func (a *API) ShowIndex(c *gin.Context) {
	state := a.loadState(c)
	admin := isAdmin(c)

	if total := a.listTotal(state); total >= 0 && total != state.Pager.Total {
		state = view.Reduce(state, view.ItemsLoaded{Total: total})
		a.saveState(c, state)
	}

	route := state.Route(admin)
	data := gin.H{
		"route":   string(route.Kind),
		"tabs":    buildTabs(c, state),
		"notices": takeFlashes(c, flashNotice),
		"errors":  takeFlashes(c, flashError),
	}

	switch route.Kind {
	case view.RouteHome:
		data["intro"] = view.Intro()
	case view.RouteList:
		items, page := a.library.Page(route.Category, state.Pager)
		data["category"] = string(route.Category)
		data["categoryLabel"] = route.Category.Label()
		data["items"] = a.toCards(items)
		data["count"] = a.library.Count(route.Category)
		data["pager"] = buildPagerView(page)
	case view.RouteDetail:
		item, err := a.store.Get(c.Request.Context(), route.Category, route.ItemID)
		if err != nil {
			if !errors.Is(err, service.ErrItemNotFound) {
				c.Error(err)
			}
			a.dispatch(c, view.Back{})
			addFlash(c, flashError, text(c, locale.MsgNotFound))
			redirectHome(c)
			return
		}
		body, err := a.renderer.Render(item.Content)
		if err != nil {
			c.Error(err)
		}
		data["item"] = a.toCard(item)
		data["body"] = body
		data["category"] = string(route.Category)
		data["categoryLabel"] = route.Category.Label()
	case view.RouteToolbox:
		data["tools"] = view.Tools()
	case view.RouteAdminSettings:
		open, err := a.registrationOpen(c)
		if err != nil {
			c.Error(err)
		}
		data["canRegister"] = open
	case view.RouteAdminDashboard:
		if !a.fillDashboard(c, data) {
			return
		}
	}

	a.renderHTML(c, http.StatusOK, "index.html", data)
}

// Navigate 切换导航入口，进入列表时重新拉取该分类。
func (a *API) Navigate(c *gin.Context) {
	tab, ok := view.ParseTab(c.Param("tab"))
	if !ok {
		respondError(c, http.StatusNotFound, "unknown tab")
		return
	}
	if category, isList := tab.Category(); isList && a.library != nil {
		_ = a.library.Load(c.Request.Context(), category)
	}
	a.dispatch(c, view.Navigate{Tab: tab})
	redirectHome(c)
}

// SelectItem 打开详情页并累计一次浏览。
func (a *API) SelectItem(c *gin.Context) {
	category, ok := parseCategoryParam(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := a.store.IncrementViews(c.Request.Context(), category, id); err != nil {
		if !errors.Is(err, service.ErrItemNotFound) {
			c.Error(err)
		}
		addFlash(c, flashError, text(c, locale.MsgNotFound))
		redirectHome(c)
		return
	}
	a.dispatch(c, view.Select{Category: category, ID: id})
	redirectHome(c)
}

// Back 返回选中卡片时所在的列表。
func (a *API) Back(c *gin.Context) {
	a.dispatch(c, view.Back{})
	redirectHome(c)
}

// ChangePage 跳转页码，越界的页码被忽略。
func (a *API) ChangePage(c *gin.Context) {
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid page")
		return
	}
	state := a.loadState(c)
	a.dispatch(c, append(a.syncPager(state), view.ChangePage{Page: page})...)
	redirectHome(c)
}

// ChangePageSize 修改每页条数，仅接受 3/5/10/20。
func (a *API) ChangePageSize(c *gin.Context) {
	size, err := strconv.Atoi(c.Param("size"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid page size")
		return
	}
	state := a.loadState(c)
	a.dispatch(c, append(a.syncPager(state), view.ChangePageSize{Size: size})...)
	redirectHome(c)
}

// ChromaCSS serves the stylesheet for highlighted code blocks.
func (a *API) ChromaCSS(c *gin.Context) {
	c.Header("Content-Type", "text/css; charset=utf-8")
	c.Header("Cache-Control", "public, max-age=86400")
	c.Status(http.StatusOK)
	if err := a.renderer.WriteCSS(c.Writer); err != nil {
		c.Error(err)
	}
}
