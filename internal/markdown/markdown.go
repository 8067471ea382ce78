package markdown

import (
	"bytes"
	"html/template"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/microcosm-cc/bluemonday"
	"github.com/tdewolff/minify/v2"
	minhtml "github.com/tdewolff/minify/v2/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// DefaultStyle 是代码高亮使用的 chroma 主题。
const DefaultStyle = "monokai"

var classPattern = regexp.MustCompile(`^[\w\- ]+$`)

// Renderer 把 Markdown 转为经过清洗和压缩的 HTML。
// 同一个 Renderer 可以被多个 goroutine 并发使用。
type Renderer struct {
	md       goldmark.Markdown
	policy   *bluemonday.Policy
	minifier *minify.M
	style    string
}

// New creates a Renderer whose code blocks carry chroma CSS classes for style.
func New(style string) *Renderer {
	if _, ok := styles.Registry[style]; !ok {
		style = DefaultStyle
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
			extension.Table,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(gmhtml.WithHardWraps(), gmhtml.WithXHTML()),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(classPattern).OnElements("code", "pre", "span", "div")
	policy.AllowAttrs("id").Matching(bluemonday.Paragraph).OnElements("h1", "h2", "h3", "h4", "h5", "h6")

	m := minify.New()
	m.Add("text/html", &minhtml.Minifier{KeepEndTags: true, KeepQuotes: true})

	return &Renderer{md: md, policy: policy, minifier: m, style: style}
}

// Style returns the chroma style used for highlighting.
func (r *Renderer) Style() string { return r.style }

// Render 转换并清洗 Markdown。压缩失败时返回未压缩但已清洗的结果。
func (r *Renderer) Render(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	safe := r.policy.SanitizeBytes(buf.Bytes())

	compact, err := r.minifier.Bytes("text/html", safe)
	if err != nil {
		return template.HTML(safe), nil
	}
	return template.HTML(compact), nil
}

// WriteCSS writes the stylesheet for highlighted code blocks.
func (r *Renderer) WriteCSS(w io.Writer) error {
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	return formatter.WriteCSS(w, styles.Get(r.style))
}

// Excerpt 提取 Markdown 的纯文本摘要，超过 limit 个字符时截断并追加省略号。
// 代码块与图片不计入摘要。
func (r *Renderer) Excerpt(src string, limit int) string {
	source := []byte(src)
	doc := r.md.Parser().Parse(text.NewReader(source))

	var sb strings.Builder
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if node.Type() == ast.TypeBlock {
			sb.WriteByte(' ')
		}
		switch n := node.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.Image, *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			sb.Write(n.Segment.Value(source))
			if n.SoftLineBreak() || n.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(n.Value)
		case *ast.AutoLink:
			sb.Write(n.Label(source))
		}
		return ast.WalkContinue, nil
	})

	plain := strings.Join(strings.Fields(sb.String()), " ")
	if limit <= 0 || utf8.RuneCountInString(plain) <= limit {
		return plain
	}
	runes := []rune(plain)
	return strings.TrimSpace(string(runes[:limit])) + "..."
}
