package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cyberblog/internal/content"
	"github.com/cyberblog/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

// seedItems 以递减的日期写入 n 条内容，返回时第 0 条最新。
func seedItems(t *testing.T, store *DocumentStore, category content.Category, n int) []content.Item {
	t.Helper()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	items := make([]content.Item, 0, n)
	for i := 0; i < n; i++ {
		item, err := store.Create(context.Background(), category, NewItem{
			Title:   fmt.Sprintf("%s-%d", category, i),
			Content: "正文",
			Tags:    "go,web",
			Date:    base.Add(-time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("seed item %d: %v", i, err)
		}
		items = append(items, item)
	}
	return items
}

// failingStore 包装真实存储，并可按需让 List/Count/Create 返回错误。
type failingStore struct {
	Store
	mu        sync.Mutex
	listErr   error
	countErr  error
	createErr error
	creates   int
}

func (s *failingStore) List(ctx context.Context, category content.Category) ([]content.Item, error) {
	s.mu.Lock()
	err := s.listErr
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.Store.List(ctx, category)
}

func (s *failingStore) Count(ctx context.Context, category content.Category) (int64, error) {
	s.mu.Lock()
	err := s.countErr
	s.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return s.Store.Count(ctx, category)
}

func (s *failingStore) Create(ctx context.Context, category content.Category, input NewItem) (content.Item, error) {
	s.mu.Lock()
	s.creates++
	err := s.createErr
	s.mu.Unlock()
	if err != nil {
		return content.Item{}, err
	}
	return s.Store.Create(ctx, category, input)
}

type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) Notify(category content.Category, action string) {
	n.events = append(n.events, string(category)+":"+action)
}
