package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"

	"codestats/internal/languages"
	"codestats/internal/model"
)

// Classify 对语法树做前序深度优先遍历，并按语言规则累计统计值。
//
// 遍历使用显式栈而不是递归，超大文件也不会撑爆 goroutine 栈。
// 任何节点（包括已命中的函数或类）都会继续访问子节点，嵌套定义全部计数。
func Classify(root *sitter.Node, language model.Language) model.CodeStats {
	var stats model.CodeStats
	if root == nil {
		return stats
	}

	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch languages.Categorize(language, node) {
		case languages.CategoryFunction:
			stats.FunctionCount++
		case languages.CategoryClassStruct:
			stats.ClassStructCount++
		}

		// 逆序入栈，出栈时保持源码顺序。
		for i := int(node.ChildCount()) - 1; i >= 0; i-- {
			if child := node.Child(i); child != nil {
				stack = append(stack, child)
			}
		}
	}

	return stats
}
