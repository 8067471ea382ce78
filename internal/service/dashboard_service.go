package service

import (
	"context"
	"sort"

	"github.com/cyberblog/internal/content"
)

const recentActivityLimit = 5

// AccountCounter reports how many admin accounts exist.
type AccountCounter interface {
	CountAccounts(ctx context.Context) (int64, error)
}

// Overview 汇总后台数据概览卡片与最近活动。
type Overview struct {
	TotalPosts    int64
	TotalProjects int64
	TotalViews    int64
	TotalAccounts int64
	Recent        []content.Item
	Posts         []content.Item
	Projects      []content.Item
}

// DashboardService 直接读取存储生成后台统计，不依赖前台缓存的列表。
type DashboardService struct {
	store    Store
	accounts AccountCounter
}

// NewDashboardService creates a DashboardService. accounts may be nil in secret mode.
func NewDashboardService(store Store, accounts AccountCounter) *DashboardService {
	return &DashboardService{store: store, accounts: accounts}
}

// Overview 返回统计数据、最近 5 条活动以及两个集合的管理列表。
func (s *DashboardService) Overview(ctx context.Context) (Overview, error) {
	var overview Overview

	posts, err := s.store.List(ctx, content.CategoryPost)
	if err != nil {
		return overview, err
	}
	projects, err := s.store.List(ctx, content.CategoryProject)
	if err != nil {
		return overview, err
	}

	if overview.TotalPosts, err = s.store.Count(ctx, content.CategoryPost); err != nil {
		return overview, err
	}
	if overview.TotalProjects, err = s.store.Count(ctx, content.CategoryProject); err != nil {
		return overview, err
	}

	for _, item := range posts {
		overview.TotalViews += item.Views
	}
	for _, item := range projects {
		overview.TotalViews += item.Views
	}

	if s.accounts != nil {
		if overview.TotalAccounts, err = s.accounts.CountAccounts(ctx); err != nil {
			return overview, err
		}
	}

	merged := make([]content.Item, 0, len(posts)+len(projects))
	merged = append(merged, posts...)
	merged = append(merged, projects...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date.After(merged[j].Date)
	})
	if len(merged) > recentActivityLimit {
		merged = merged[:recentActivityLimit]
	}

	overview.Recent = merged
	overview.Posts = posts
	overview.Projects = projects
	return overview, nil
}
