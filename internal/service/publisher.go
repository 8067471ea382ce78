package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cyberblog/internal/content"
)

var (
	ErrTitleRequired      = errors.New("title is required")
	ErrContentRequired    = errors.New("content is required")
	ErrDeleteNotConfirmed = errors.New("delete was not confirmed")
)

// DeleteConfirmation 是删除操作需要输入的确认口令。
const DeleteConfirmation = "DELETE"

// Draft 是编辑器表单中的待发布内容。
type Draft struct {
	Title    string
	Content  string
	Tags     string
	Category content.Category
}

// Validate 检查标题与正文是否为空。
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(d.Content) == "" {
		return ErrContentRequired
	}
	return nil
}

// Empty reports whether every form field is blank.
func (d Draft) Empty() bool {
	return strings.TrimSpace(d.Title) == "" && strings.TrimSpace(d.Content) == "" && strings.TrimSpace(d.Tags) == ""
}

func (d Draft) category() content.Category {
	if d.Category == "" {
		return content.CategoryPost
	}
	return d.Category
}

// Notifier 接收内容变更通知，例如推送给在线的浏览器。
type Notifier interface {
	Notify(category content.Category, action string)
}

// Publisher writes drafts into the store and keeps the Library in sync.
type Publisher struct {
	store    Store
	library  *Library
	notifier Notifier
	now      func() time.Time
}

// NewPublisher creates a Publisher. notifier may be nil.
func NewPublisher(store Store, library *Library, notifier Notifier) *Publisher {
	return &Publisher{store: store, library: library, notifier: notifier, now: time.Now}
}

// Publish 校验草稿并写入对应集合，date 取调用时间。校验失败时不会访问存储。
func (p *Publisher) Publish(ctx context.Context, draft Draft) (content.Item, error) {
	if err := draft.Validate(); err != nil {
		logger.Warnw("标题和内容不能为空", "error", err)
		return content.Item{}, err
	}

	category := draft.category()
	item, err := p.store.Create(ctx, category, NewItem{
		Title:   strings.TrimSpace(draft.Title),
		Content: draft.Content,
		Tags:    content.NormalizeTags(draft.Tags),
		Date:    p.now(),
	})
	if err != nil {
		logger.Errorw("发布失败", "collection", category.Collection(), "error", err)
		return content.Item{}, err
	}

	logger.Infow("数据已同步至云端核心 // UPLOAD COMPLETE", "collection", category.Collection(), "id", item.ID)
	p.changed(ctx, category, "published")
	return item, nil
}

// Update 覆盖已有内容的标题、正文与标签。
func (p *Publisher) Update(ctx context.Context, category content.Category, id string, draft Draft) (content.Item, error) {
	if err := draft.Validate(); err != nil {
		return content.Item{}, err
	}

	title := strings.TrimSpace(draft.Title)
	tags := content.NormalizeTags(draft.Tags)
	item, err := p.store.Update(ctx, category, id, ItemPatch{
		Title:   &title,
		Content: &draft.Content,
		Tags:    &tags,
	})
	if err != nil {
		logger.Errorw("更新失败", "collection", category.Collection(), "id", id, "error", err)
		return content.Item{}, err
	}

	p.changed(ctx, category, "updated")
	return item, nil
}

// Delete 仅在 confirmation 精确等于 DELETE 时删除文档，否则不做任何改动。
func (p *Publisher) Delete(ctx context.Context, category content.Category, id, confirmation string) error {
	if confirmation != DeleteConfirmation {
		return ErrDeleteNotConfirmed
	}

	if err := p.store.Delete(ctx, category, id); err != nil {
		logger.Errorw("删除失败", "collection", category.Collection(), "id", id, "error", err)
		return err
	}

	logger.Infow("文档已删除", "collection", category.Collection(), "id", id)
	p.changed(ctx, category, "deleted")
	return nil
}

func (p *Publisher) changed(ctx context.Context, category content.Category, action string) {
	if p.library != nil {
		_ = p.library.Load(ctx, category)
	}
	if p.notifier != nil {
		p.notifier.Notify(category, action)
	}
}
