package analyzer

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"codestats/internal/model"
)

// GrammarFunc 返回某个语言的语法句柄，通常是 (*languages.Registry).Grammar。
type GrammarFunc func(model.Language) (*sitter.Language, error)

// ParserCache 为每个语言最多持有一个解析器实例，首次使用时创建。
//
// 缓存属于单次分析过程，不做并发保护；并发扫描时每个 worker 各自持有一份。
type ParserCache struct {
	grammar GrammarFunc
	parsers map[model.Language]*sitter.Parser
}

// NewParserCache 创建空缓存。
func NewParserCache(grammar GrammarFunc) *ParserCache {
	return &ParserCache{
		grammar: grammar,
		parsers: make(map[model.Language]*sitter.Parser),
	}
}

// Get 返回语言对应的解析器，不存在时按语法创建并缓存。
// 绑定失败时返回 ErrLanguageSetup，且不会写入缓存，下次调用会重新尝试。
func (c *ParserCache) Get(language model.Language) (*sitter.Parser, error) {
	if parser, ok := c.parsers[language]; ok {
		return parser, nil
	}

	grammar, err := c.grammar(language)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLanguageSetup, language, err)
	}
	if grammar == nil {
		return nil, fmt.Errorf("%w: %s", ErrLanguageSetup, language)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(grammar)
	c.parsers[language] = parser
	return parser, nil
}

// Len 返回已创建的解析器数量。
func (c *ParserCache) Len() int {
	return len(c.parsers)
}

// Close 释放全部解析器。
func (c *ParserCache) Close() {
	for language, parser := range c.parsers {
		parser.Close()
		delete(c.parsers, language)
	}
}
