package markdown

import (
	"bytes"
	"strings"
	"testing"
)

func TestRender_BasicMarkdown(t *testing.T) {
	r := New("")
	out, err := r.Render("# Title\n\nhello **world**\n\n- one\n- two")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	for _, want := range []string{`<h1 id="title">Title</h1>`, "<strong>world</strong>", "<li>one</li>"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in %s", want, html)
		}
	}
}

func TestRender_StripsUnsafeMarkup(t *testing.T) {
	r := New("")
	tests := []struct {
		name   string
		src    string
		banned string
	}{
		{name: "script block", src: "<script>alert(1)</script>", banned: "<script"},
		{name: "javascript link", src: "[x](javascript:alert(1))", banned: "javascript:"},
		{name: "event handler", src: `hi <img src="x" onerror="alert(1)">`, banned: "onerror"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Render(tt.src)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if strings.Contains(strings.ToLower(string(out)), tt.banned) {
				t.Fatalf("expected %q to be removed, got %s", tt.banned, out)
			}
		})
	}
}

func TestRender_HighlightsCodeWithClasses(t *testing.T) {
	r := New("github")
	out, err := r.Render("```go\nfunc main() {}\n```")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `class="chroma"`) {
		t.Fatalf("expected chroma class, got %s", html)
	}
	if strings.Contains(html, "style=") {
		t.Fatalf("expected no inline styles, got %s", html)
	}
}

func TestNew_UnknownStyleFallsBack(t *testing.T) {
	if got := New("no-such-style").Style(); got != DefaultStyle {
		t.Fatalf("expected %s, got %s", DefaultStyle, got)
	}
	if got := New("github").Style(); got != "github" {
		t.Fatalf("expected github, got %s", got)
	}
}

func TestWriteCSS(t *testing.T) {
	var buf bytes.Buffer
	if err := New("").WriteCSS(&buf); err != nil {
		t.Fatalf("write css: %v", err)
	}
	if !strings.Contains(buf.String(), ".chroma") {
		t.Fatalf("expected chroma selectors, got %q", buf.String())
	}
}

func TestExcerpt(t *testing.T) {
	r := New("")

	src := "# 标题\n\n这是 **重点** 内容\n\n```go\nfunc main() {}\n```\n\n![cover](cover.png)"
	if got := r.Excerpt(src, 0); got != "标题 这是 重点 内容" {
		t.Fatalf("unexpected excerpt %q", got)
	}

	if got := r.Excerpt("abcdefghij", 4); got != "abcd..." {
		t.Fatalf("unexpected truncated excerpt %q", got)
	}

	if got := r.Excerpt("short", 10); got != "short" {
		t.Fatalf("unexpected excerpt %q", got)
	}
}
