package view

// Tool 是工具箱中的一个外部链接。
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Icon        string `json:"icon"`
}

// Contact 是简介页上的一个联系方式，URL 为空时只展示文本。
type Contact struct {
	Icon  string `json:"icon"`
	Label string `json:"label"`
	URL   string `json:"url,omitempty"`
}

// IntroProfile 是首页简介卡片的内容。
type IntroProfile struct {
	Headline  string    `json:"headline"`
	Taglines  []string  `json:"taglines"`
	Identity  string    `json:"identity"`
	Contacts  []Contact `json:"contacts"`
	TechStack []string  `json:"techStack"`
}

var tools = []Tool{
	{Name: "Tailwind CSS", Description: "极速构建界面的实用 CSS 框架。", URL: "https://tailwindcss.com/", Icon: "⚡"},
	{Name: "Go 官方文档", Description: "标准库与语言规范。", URL: "https://go.dev/doc/", Icon: "🐹"},
	{Name: "Gin", Description: "轻量的 Go HTTP Web 框架。", URL: "https://gin-gonic.com/", Icon: "🍸"},
	{Name: "GORM", Description: "Go 语言 ORM，数据持久化。", URL: "https://gorm.io/", Icon: "🗄️"},
	{Name: "Lucide Icons", Description: "简单、一致的开源图标库。", URL: "https://lucide.dev/", Icon: "✨"},
	{Name: "MDN Web Docs", Description: "Web 开发的权威文档（HTML/CSS/JS）。", URL: "https://developer.mozilla.org/zh-CN/", Icon: "🌐"},
}

var intro = IntroProfile{
	Headline: "系统 已就绪",
	Taglines: []string{
		"我是小趴菜，很高兴为您服务。",
		"全栈开发 / 赛博朋克 / 极客。",
		"正在渲染数字世界...",
		"正在建立神经连接...",
		"正在建立城市路网...",
		"成功建立数字世界。",
	},
	Identity: "陈凌，一名热爱生活的大学生牛马。",
	Contacts: []Contact{
		{Icon: "email", Label: "chenling3435@163.com", URL: "mailto:chenling3435@163.com"},
		{Icon: "phone", Label: "188-8888-8888"},
		{Icon: "wechat", Label: "cl16101314-520"},
		{Icon: "github", Label: "GitHub", URL: "https://github.com/LingChen1314520"},
		{Icon: "csdn", Label: "CSDN", URL: "https://blog.csdn.net/m0_74876592"},
	},
	TechStack: []string{"Go", "Gin", "GORM", "SQLite", "Tailwind CSS", "WebSocket"},
}

// Tools returns a copy of the toolbox links.
func Tools() []Tool {
	out := make([]Tool, len(tools))
	copy(out, tools)
	return out
}

// Intro returns the home page profile.
func Intro() IntroProfile {
	profile := intro
	profile.Taglines = append([]string(nil), intro.Taglines...)
	profile.Contacts = append([]Contact(nil), intro.Contacts...)
	profile.TechStack = append([]string(nil), intro.TechStack...)
	return profile
}
