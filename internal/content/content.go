// Package content 定义文章与项目共享的内容模型以及列表分页规则。
package content

import (
	"errors"
	"strings"
	"time"
)

// Category 区分内容所属的集合。
type Category string

const (
	CategoryPost    Category = "post"
	CategoryProject Category = "project"
)

// ErrUnknownCategory 表示无法识别的内容分类。
var ErrUnknownCategory = errors.New("unknown content category")

// Categories 按导航顺序列出全部分类。
var Categories = []Category{CategoryPost, CategoryProject}

// ParseCategory 解析路由或表单中的分类名称，兼容集合名与旧版 "blog" 写法。
func ParseCategory(raw string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "post", "posts", "blog":
		return CategoryPost, nil
	case "project", "projects":
		return CategoryProject, nil
	default:
		return "", ErrUnknownCategory
	}
}

// Collection returns the document store collection backing the category.
func (c Category) Collection() string {
	if c == CategoryProject {
		return "projects"
	}
	return "posts"
}

// Label 返回用于页面展示的分类名称。
func (c Category) Label() string {
	if c == CategoryProject {
		return "项目列表 // PROJECTS LIST"
	}
	return "文章列表 // ARTICLE LIST"
}

func (c Category) String() string {
	return string(c)
}

// Item 是一篇文章或一个项目。两种分类形状完全一致，仅所在集合不同。
type Item struct {
	ID       string    `json:"id"`
	Category Category  `json:"category"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Tags     string    `json:"tags"`
	Date     time.Time `json:"date"`
	Views    int64     `json:"views"`
}

// TagList 将逗号分隔的标签拆分为去重后的标签列表，保留首次出现的顺序。
func (i Item) TagList() []string {
	return ParseTags(i.Tags)
}

// ParseTags splits a comma separated tag string into trimmed, unique labels.
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// JoinTags 将标签列表规范化为存储使用的逗号分隔字符串。
func JoinTags(tags []string) string {
	return strings.Join(ParseTags(strings.Join(tags, ",")), ",")
}

// NormalizeTags 清理用户输入的标签字符串。
func NormalizeTags(raw string) string {
	return strings.Join(ParseTags(raw), ",")
}
