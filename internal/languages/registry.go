// Package languages 维护受支持语言的后缀表、tree-sitter 语法绑定与节点分类规则。
package languages

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"codestats/internal/model"
)

// LanguageDescriptor 用于对外展示语言及后缀信息。
type LanguageDescriptor struct {
	Language   model.Language
	Name       string
	Extensions []string
}

// definition 描述一个内置语言：后缀列表与语法绑定。
type definition struct {
	language   model.Language
	extensions []string
	grammar    func() *sitter.Language
}

// Registry 管理语言后缀映射与 tree-sitter 语法绑定。
// Registry 创建后只读，可以在多个 goroutine 间共享。
type Registry struct {
	definitions   []definition
	languageByExt map[string]model.Language
}

// NewRegistry 创建并注册所有内置语言。
func NewRegistry() *Registry {
	definitions := []definition{
		{language: model.LanguageRust, extensions: []string{"rs"}, grammar: rust.GetLanguage},
		{language: model.LanguageGo, extensions: []string{"go"}, grammar: golang.GetLanguage},
		{language: model.LanguagePython, extensions: []string{"py"}, grammar: python.GetLanguage},
		{language: model.LanguageJavaScript, extensions: []string{"js"}, grammar: javascript.GetLanguage},
		{language: model.LanguageTypeScript, extensions: []string{"ts"}, grammar: typescript.GetLanguage},
		{language: model.LanguageJava, extensions: []string{"java"}, grammar: java.GetLanguage},
	}

	registry := &Registry{
		definitions:   definitions,
		languageByExt: make(map[string]model.Language),
	}

	for _, item := range definitions {
		for _, ext := range item.extensions {
			registry.languageByExt[strings.ToLower(ext)] = item.language
		}
	}

	return registry
}

// Resolve 根据文件名最后一段后缀（不区分大小写）查找语言。
// 没有后缀或后缀不受支持时返回 false，调用方应静默跳过。
func (r *Registry) Resolve(path string) (model.Language, bool) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	// ".rs" 这类隐藏文件没有后缀。
	if ext == "" || ext == base {
		return 0, false
	}

	language, ok := r.languageByExt[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return language, ok
}

// Grammar 返回语言对应的 tree-sitter 语法句柄。
func (r *Registry) Grammar(language model.Language) (*sitter.Language, error) {
	for _, item := range r.definitions {
		if item.language != language {
			continue
		}
		grammar := item.grammar()
		if grammar == nil {
			return nil, fmt.Errorf("grammar for %s is not available", language)
		}
		return grammar, nil
	}
	return nil, fmt.Errorf("unsupported language: %s", language)
}

// Languages 返回已注册语言清单，按名称排序。
func (r *Registry) Languages() []LanguageDescriptor {
	result := make([]LanguageDescriptor, 0, len(r.definitions))
	for _, item := range r.definitions {
		extensions := make([]string, 0, len(item.extensions))
		for _, ext := range item.extensions {
			extensions = append(extensions, "."+ext)
		}
		sort.Strings(extensions)
		result = append(result, LanguageDescriptor{
			Language:   item.language,
			Name:       item.language.String(),
			Extensions: extensions,
		})
	}

	sort.Slice(result, func(i int, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}
