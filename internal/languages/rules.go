package languages

import (
	sitter "github.com/smacker/go-tree-sitter"

	"codestats/internal/model"
)

// Category 表示语法节点归属的统计桶。
type Category int

const (
	// CategoryNone 表示节点不计入任何统计。
	CategoryNone Category = iota
	// CategoryFunction 计入函数数量。
	CategoryFunction
	// CategoryClassStruct 计入类/结构体数量。
	CategoryClassStruct
)

// Categorize 按语言规则判断单个节点的统计桶。
//
// 规则表：
//
//	Rust        function_item | struct_item, enum_item
//	Go          function_declaration, method_declaration | type_spec 且 type 字段为 struct_type
//	Python      function_definition | class_definition
//	JS/TS       function_declaration, function_expression, arrow_function, method_definition | class_declaration
//	Java        method_declaration, constructor_declaration | class_declaration, interface_declaration
//
// 注释、字符串以及 ERROR 等恢复节点都不在表中，天然返回 CategoryNone。
func Categorize(language model.Language, node *sitter.Node) Category {
	kind := node.Type()

	switch language {
	case model.LanguageRust:
		switch kind {
		case "function_item":
			return CategoryFunction
		case "struct_item", "enum_item":
			return CategoryClassStruct
		}
	case model.LanguageGo:
		switch kind {
		case "function_declaration", "method_declaration":
			return CategoryFunction
		case "type_spec":
			// type_spec 同时覆盖 struct、interface 与命名标量类型，只有 struct 计数。
			if declared := node.ChildByFieldName("type"); declared != nil && declared.Type() == "struct_type" {
				return CategoryClassStruct
			}
		}
	case model.LanguagePython:
		switch kind {
		case "function_definition":
			return CategoryFunction
		case "class_definition":
			return CategoryClassStruct
		}
	case model.LanguageJavaScript, model.LanguageTypeScript:
		switch kind {
		case "function_declaration", "function_expression", "arrow_function", "method_definition":
			return CategoryFunction
		case "function":
			// 旧版语法把函数表达式命名为 function，同名的关键字 token 是匿名节点。
			if node.IsNamed() {
				return CategoryFunction
			}
		case "class_declaration":
			return CategoryClassStruct
		}
	case model.LanguageJava:
		switch kind {
		case "method_declaration", "constructor_declaration":
			return CategoryFunction
		case "class_declaration", "interface_declaration":
			return CategoryClassStruct
		}
	}

	return CategoryNone
}
