package model

import "fmt"

// Language 是受支持语言的封闭枚举。
// 可直接作为 map key 使用；序列化时输出展示名称（例如 "Rust"）。
type Language int

const (
	LanguageRust Language = iota + 1
	LanguageGo
	LanguagePython
	LanguageJavaScript
	LanguageTypeScript
	LanguageJava
)

var languageNames = map[Language]string{
	LanguageRust:       "Rust",
	LanguageGo:         "Go",
	LanguagePython:     "Python",
	LanguageJavaScript: "JavaScript",
	LanguageTypeScript: "TypeScript",
	LanguageJava:       "Java",
}

// AllLanguages 返回全部受支持语言，顺序固定。
func AllLanguages() []Language {
	return []Language{
		LanguageRust,
		LanguageGo,
		LanguagePython,
		LanguageJavaScript,
		LanguageTypeScript,
		LanguageJava,
	}
}

// String 返回语言展示名称。
func (l Language) String() string {
	if name, ok := languageNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Language(%d)", int(l))
}

// Valid 判断取值是否属于封闭集合。
func (l Language) Valid() bool {
	_, ok := languageNames[l]
	return ok
}

// MarshalText 让 JSON 等编码器把语言输出为展示名称，map key 同样适用。
func (l Language) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid language: %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText 从展示名称还原语言。
func (l *Language) UnmarshalText(text []byte) error {
	parsed, ok := ParseLanguage(string(text))
	if !ok {
		return fmt.Errorf("unknown language: %q", string(text))
	}
	*l = parsed
	return nil
}

// ParseLanguage 按展示名称查找语言。
func ParseLanguage(name string) (Language, bool) {
	for language, display := range languageNames {
		if display == name {
			return language, true
		}
	}
	return 0, false
}
