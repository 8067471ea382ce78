package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cyberblog/internal/content"
	"github.com/cyberblog/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrItemNotFound 表示集合中不存在指定 id 的内容。
var ErrItemNotFound = errors.New("content item not found")

// Store is the collection-scoped document store consumed by the rest of the app.
type Store interface {
	Create(ctx context.Context, category content.Category, input NewItem) (content.Item, error)
	List(ctx context.Context, category content.Category) ([]content.Item, error)
	Count(ctx context.Context, category content.Category) (int64, error)
	Get(ctx context.Context, category content.Category, id string) (content.Item, error)
	Update(ctx context.Context, category content.Category, id string, patch ItemPatch) (content.Item, error)
	Delete(ctx context.Context, category content.Category, id string) error
	IncrementViews(ctx context.Context, category content.Category, id string) error
}

// NewItem 描述写入集合的新文档，Date 为空时使用当前时间。
type NewItem struct {
	Title   string
	Content string
	Tags    string
	Date    time.Time
}

// ItemPatch 仅更新非 nil 字段。
type ItemPatch struct {
	Title   *string
	Content *string
	Tags    *string
}

// DocumentStore implements Store on top of gorm, one table per collection.
type DocumentStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDocumentStore creates a DocumentStore instance.
func NewDocumentStore(gdb *gorm.DB) *DocumentStore {
	return &DocumentStore{db: gdb, now: time.Now}
}

func (s *DocumentStore) table(ctx context.Context, category content.Category) *gorm.DB {
	return s.db.WithContext(ctx).Table(category.Collection())
}

// Create 写入新文档并由存储分配 id，浏览量从 0 开始。
func (s *DocumentStore) Create(ctx context.Context, category content.Category, input NewItem) (content.Item, error) {
	now := s.now()
	date := input.Date
	if date.IsZero() {
		date = now
	}

	doc := db.Document{
		ID:        uuid.NewString(),
		Title:     input.Title,
		Content:   input.Content,
		Tags:      input.Tags,
		Date:      date,
		Views:     0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.table(ctx, category).Create(&doc).Error; err != nil {
		return content.Item{}, err
	}
	return toItem(category, doc), nil
}

// List returns every document of the collection ordered by date descending.
func (s *DocumentStore) List(ctx context.Context, category content.Category) ([]content.Item, error) {
	var docs []db.Document
	if err := s.table(ctx, category).Order("date desc, id desc").Find(&docs).Error; err != nil {
		return nil, err
	}

	items := make([]content.Item, 0, len(docs))
	for _, doc := range docs {
		items = append(items, toItem(category, doc))
	}
	return items, nil
}

// Count 返回集合中的文档数量。
func (s *DocumentStore) Count(ctx context.Context, category content.Category) (int64, error) {
	var total int64
	if err := s.table(ctx, category).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Get fetches a single document by id.
func (s *DocumentStore) Get(ctx context.Context, category content.Category, id string) (content.Item, error) {
	var doc db.Document
	if err := s.table(ctx, category).Where("id = ?", strings.TrimSpace(id)).Take(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return content.Item{}, ErrItemNotFound
		}
		return content.Item{}, err
	}
	return toItem(category, doc), nil
}

// Update 应用补丁字段并返回更新后的文档。
func (s *DocumentStore) Update(ctx context.Context, category content.Category, id string, patch ItemPatch) (content.Item, error) {
	updates := map[string]interface{}{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Content != nil {
		updates["content"] = *patch.Content
	}
	if patch.Tags != nil {
		updates["tags"] = *patch.Tags
	}
	if len(updates) == 0 {
		return s.Get(ctx, category, id)
	}
	updates["updated_at"] = s.now()

	result := s.table(ctx, category).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return content.Item{}, result.Error
	}
	if result.RowsAffected == 0 {
		return content.Item{}, ErrItemNotFound
	}
	return s.Get(ctx, category, id)
}

// Delete removes a document by id.
func (s *DocumentStore) Delete(ctx context.Context, category content.Category, id string) error {
	result := s.table(ctx, category).Where("id = ?", id).Delete(&db.Document{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// IncrementViews 为详情页浏览计数加一。
func (s *DocumentStore) IncrementViews(ctx context.Context, category content.Category, id string) error {
	result := s.table(ctx, category).Where("id = ?", id).UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// Ping 检查数据库连接是否可用。
func (s *DocumentStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func toItem(category content.Category, doc db.Document) content.Item {
	return content.Item{
		ID:       doc.ID,
		Category: category,
		Title:    doc.Title,
		Content:  doc.Content,
		Tags:     doc.Tags,
		Date:     doc.Date,
		Views:    doc.Views,
	}
}
