package analyzer

import "errors"

// 单文件分析可能返回的错误类别，调用方使用 errors.Is 判断。
var (
	// ErrNotRegularFile 表示路径不是普通文件（目录、设备等）。
	ErrNotRegularFile = errors.New("not a regular file")
	// ErrUnsupportedFileType 表示无法根据后缀识别语言。
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrIO 表示文件无法读取为 UTF-8 文本，会同时包装底层错误。
	ErrIO = errors.New("IO error")
	// ErrParse 表示语法解析没有产出语法树。
	ErrParse = errors.New("failed to parse file")
	// ErrLanguageSetup 表示语言语法无法绑定到解析器。
	ErrLanguageSetup = errors.New("failed to set language grammar")
)

// errInvalidUTF8 在文件内容不是合法 UTF-8 时作为读取失败的原因。
var errInvalidUTF8 = errors.New("stream did not contain valid UTF-8")
