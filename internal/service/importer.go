package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/cyberblog/internal/content"
)

var (
	ErrNotMarkdown = errors.New("file must be a .md markdown document")
	ErrImportRead  = errors.New("failed to read markdown file")
)

var markdownHeadingPattern = regexp.MustCompile(`(?m)^#[ \t]+(.+?)[ \t]*$`)

var markdownContentTypes = map[string]struct{}{
	"text/markdown":   {},
	"text/x-markdown": {},
}

// tagField 兼容 front matter 中列表与逗号字符串两种写法。
type tagField []string

func (t *tagField) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var list []string
	if err := unmarshal(&list); err == nil {
		*t = list
		return nil
	}
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	*t = content.ParseTags(raw)
	return nil
}

type markdownFrontMatter struct {
	Title    string   `yaml:"title" toml:"title" json:"title"`
	Tags     tagField `yaml:"tags" toml:"tags" json:"tags"`
	Category string   `yaml:"category" toml:"category" json:"category"`
}

// IsMarkdownFile reports whether name or contentType identifies a Markdown document.
func IsMarkdownFile(name, contentType string) bool {
	if strings.EqualFold(filepath.Ext(name), ".md") {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	_, ok := markdownContentTypes[strings.ToLower(mediaType)]
	return ok
}

// ImportMarkdown 将 Markdown 文件解析为编辑器草稿。
// 首个一级标题作为标题并从正文移除；没有标题时依次回退到 front matter 与文件名。
func ImportMarkdown(name, contentType string, r io.Reader) (Draft, error) {
	if !IsMarkdownFile(name, contentType) {
		return Draft{}, ErrNotMarkdown
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return Draft{}, fmt.Errorf("%w: %v", ErrImportRead, err)
	}

	var meta markdownFrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &meta)
	if err != nil {
		logger.Warnw("front matter 解析失败，按纯 Markdown 导入", "file", name, "error", err)
		meta = markdownFrontMatter{}
		body = raw
	}

	text := strings.ReplaceAll(string(body), "\r\n", "\n")

	title := ""
	if loc := markdownHeadingPattern.FindStringSubmatchIndex(text); loc != nil {
		title = strings.TrimSpace(text[loc[2]:loc[3]])
		end := loc[1]
		if end < len(text) && text[end] == '\n' {
			end++
		}
		text = text[:loc[0]] + text[end:]
	}
	if title == "" {
		title = strings.TrimSpace(meta.Title)
	}
	if title == "" {
		base := filepath.Base(name)
		if ext := filepath.Ext(base); strings.EqualFold(ext, ".md") {
			base = base[:len(base)-len(ext)]
		}
		title = strings.TrimSpace(base)
	}

	category := content.CategoryPost
	if meta.Category != "" {
		if parsed, err := content.ParseCategory(meta.Category); err == nil {
			category = parsed
		}
	}

	return Draft{
		Title:    title,
		Content:  strings.TrimSpace(text),
		Tags:     content.JoinTags(meta.Tags),
		Category: category,
	}, nil
}
