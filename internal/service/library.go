package service

import (
	"context"
	"slices"
	"sync"

	"github.com/cyberblog/internal/content"
)

// Library keeps the most recently loaded list of each category in memory.
// Pages are derived from these lists; the store is only hit on Load.
type Library struct {
	store Store

	mu     sync.RWMutex
	items  map[content.Category][]content.Item
	counts map[content.Category]int64
}

// NewLibrary creates an empty Library backed by store.
func NewLibrary(store Store) *Library {
	return &Library{
		store:  store,
		items:  make(map[content.Category][]content.Item),
		counts: make(map[content.Category]int64),
	}
}

// Load 重新拉取分类列表与总数。拉取失败时仅记录日志，保留上一次的列表。
func (l *Library) Load(ctx context.Context, category content.Category) error {
	items, err := l.store.List(ctx, category)
	if err != nil {
		logger.Errorw("数据拉取失败", "collection", category.Collection(), "error", err)
		return err
	}

	l.mu.Lock()
	l.items[category] = items
	l.mu.Unlock()

	total, err := l.store.Count(ctx, category)
	if err != nil {
		logger.Errorw("数量统计失败", "collection", category.Collection(), "error", err)
		return err
	}

	l.mu.Lock()
	l.counts[category] = total
	l.mu.Unlock()
	return nil
}

// LoadAll reloads every category and returns the first error encountered.
func (l *Library) LoadAll(ctx context.Context) error {
	var firstErr error
	for _, category := range content.Categories {
		if err := l.Load(ctx, category); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Items 返回分类的完整列表副本，按日期倒序。
func (l *Library) Items(category content.Category) []content.Item {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.items[category])
}

// Count 返回用于展示的集合总数，与分页计算无关。
func (l *Library) Count(category content.Category) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.counts[category]
}

// Find looks up an item from the loaded list.
func (l *Library) Find(category content.Category, id string) (content.Item, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, item := range l.items[category] {
		if item.ID == id {
			return item, true
		}
	}
	return content.Item{}, false
}

// Page 返回当前分页可见的条目以及按列表长度校正后的分页。
func (l *Library) Page(category content.Category, page content.Page) ([]content.Item, content.Page) {
	items := l.Items(category)
	page = page.WithTotal(len(items))
	return content.Visible(items, page), page
}
