// Package seed 写入演示用的文章与项目，便于本地预览列表与分页。
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/cyberblog/internal/content"
	"github.com/cyberblog/internal/service"
	logging "github.com/ipfs/go-log/v2"
)

var logger = logging.Logger("cyberblog/seed")

type sample struct {
	title   string
	content string
	tags    string
}

var posts = []sample{
	{
		title:   "使用Go语言构建高性能Web服务",
		content: "## 为什么是 Go\n\nGo语言因其出色的并发性能和简洁的语法，成为构建高性能Web服务的理想选择。\n\n```go\nr := gin.Default()\nr.GET(\"/ping\", func(c *gin.Context) { c.String(200, \"pong\") })\n```\n\n通过合理的架构设计，系统能够轻松处理数千并发请求。",
		tags:    "Go,Web开发",
	},
	{
		title:   "SQLite数据库优化实践",
		content: "SQLite作为轻量级数据库，在很多场景下都有出色表现。\n\n- 索引优化\n- 查询优化\n- 事务批量写入",
		tags:    "数据库,技术",
	},
	{
		title:   "GORM使用技巧与最佳实践",
		content: "GORM是Go语言中最流行的ORM库之一。本文总结了GORM的常用用法以及在实际项目中的经验。",
		tags:    "Go,数据库",
	},
	{
		title:   "Gin框架中间件开发实战",
		content: "中间件是 Gin 的核心扩展点。\n\n> 会话、鉴权与日志都可以写成中间件。",
		tags:    "Go,Gin",
	},
	{
		title:   "个人知识管理系统的设计与实现",
		content: "在信息爆炸的时代，如何有效管理个人知识成为一个重要课题。本文分享设计理念与技术选型。",
		tags:    "思考",
	},
	{
		title:   "现代Web开发技术栈选择思考",
		content: "选择技术栈时，需要综合考虑项目需求、团队能力与维护成本。",
		tags:    "技术,思考",
	},
}

var projects = []sample{
	{
		title:   "CyberBlog",
		content: "## 赛博朋克风格的个人主页\n\n文章、项目与工具箱三个分区，后台支持 Markdown 导入。",
		tags:    "Go,Gin,SQLite",
	},
	{
		title:   "Neon Runner",
		content: "基于 WebSocket 的多人跑酷小游戏原型。",
		tags:    "WebSocket,Game",
	},
	{
		title:   "Terminal Notes",
		content: "命令行里的 Markdown 笔记工具，支持标签检索。",
		tags:    "CLI,Markdown",
	},
}

// Result 记录每个分类写入的条数。
type Result struct {
	Posts    int
	Projects int
}

// Demo 为空集合写入演示内容；force 为 true 时即使已有内容也追加写入。
// 日期从 base 开始每条递减一天。
func Demo(ctx context.Context, store service.Store, base time.Time, force bool) (Result, error) {
	var result Result
	var err error
	if result.Posts, err = fill(ctx, store, content.CategoryPost, posts, base, force); err != nil {
		return result, err
	}
	if result.Projects, err = fill(ctx, store, content.CategoryProject, projects, base, force); err != nil {
		return result, err
	}
	return result, nil
}

func fill(ctx context.Context, store service.Store, category content.Category, samples []sample, base time.Time, force bool) (int, error) {
	existing, err := store.Count(ctx, category)
	if err != nil {
		return 0, err
	}
	if existing > 0 && !force {
		logger.Infow("集合已有内容，跳过", "collection", category.Collection(), "count", existing)
		return 0, nil
	}

	for i, s := range samples {
		if _, err := store.Create(ctx, category, service.NewItem{
			Title:   s.title,
			Content: s.content,
			Tags:    s.tags,
			Date:    base.AddDate(0, 0, -i),
		}); err != nil {
			return i, fmt.Errorf("seed %s %q: %w", category.Collection(), s.title, err)
		}
	}
	return len(samples), nil
}
