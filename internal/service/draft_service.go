package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cyberblog/internal/content"
	"github.com/cyberblog/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DraftService 在数据库中保存编辑器草稿，会话中只保留草稿的 key。
type DraftService struct {
	db *gorm.DB
}

// NewDraftService 构造 DraftService。
func NewDraftService(gdb *gorm.DB) *DraftService {
	return &DraftService{db: gdb}
}

// NewDraftKey 生成新的草稿 key。
func NewDraftKey() string {
	return uuid.NewString()
}

// Save 写入或覆盖 key 对应的草稿。
func (s *DraftService) Save(ctx context.Context, key string, draft Draft) error {
	if key == "" {
		return errors.New("draft key is required")
	}
	record := db.EditorDraft{
		Key:       key,
		Title:     draft.Title,
		Content:   draft.Content,
		Tags:      draft.Tags,
		Category:  string(draft.Category),
		UpdatedAt: time.Now(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "content", "tags", "category", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Load 读取草稿；不存在时返回空的文章草稿。
func (s *DraftService) Load(ctx context.Context, key string) (Draft, error) {
	draft := Draft{Category: content.CategoryPost}
	if key == "" {
		return draft, nil
	}

	var record db.EditorDraft
	err := s.db.WithContext(ctx).Where("key = ?", key).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return draft, nil
	}
	if err != nil {
		return draft, fmt.Errorf("load draft: %w", err)
	}

	draft.Title = record.Title
	draft.Content = record.Content
	draft.Tags = record.Tags
	if category, err := content.ParseCategory(record.Category); err == nil {
		draft.Category = category
	}
	return draft, nil
}

// Discard 删除草稿，草稿不存在时不报错。
func (s *DraftService) Discard(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&db.EditorDraft{}).Error; err != nil {
		return fmt.Errorf("discard draft: %w", err)
	}
	return nil
}
