package locale

import "strings"

const (
	LanguageChinese = "zh"
	LanguageEnglish = "en"
)

// Preference 是一次请求最终使用的语言设置。
type Preference struct {
	Language string
	HTMLLang string
}

// NormalizeLanguage 将 zh-CN、en_US 等写法归一为 zh / en，无法识别时返回空串。
func NormalizeLanguage(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case trimmed == "":
		return ""
	case strings.HasPrefix(trimmed, "zh"), trimmed == "cn":
		return LanguageChinese
	case strings.HasPrefix(trimmed, "en"):
		return LanguageEnglish
	}
	return ""
}

// FromAcceptLanguage picks the first supported language listed in an Accept-Language header.
func FromAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag, _, _ := strings.Cut(part, ";")
		if language := NormalizeLanguage(tag); language != "" {
			return language
		}
	}
	return ""
}

// PreferenceFor 返回语言对应的设置，默认中文。
func PreferenceFor(language string) Preference {
	if NormalizeLanguage(language) == LanguageEnglish {
		return Preference{Language: LanguageEnglish, HTMLLang: "en-US"}
	}
	return Preference{Language: LanguageChinese, HTMLLang: "zh-CN"}
}
