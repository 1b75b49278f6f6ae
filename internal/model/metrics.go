// Package model 定义 codestats 的核心数据模型。
// 这些结构会被分析器、扫描器、输出层和命令层共同使用。
package model

// CodeStats 表示一组结构级统计值。
//
// 注意：
// - FunctionCount 统计函数、方法、构造器、箭头函数等
// - ClassStructCount 统计类、结构体、枚举、接口（按语言规则）
// - 零值 {0, 0} 即累加的单位元
type CodeStats struct {
	FunctionCount    int64 `json:"function_count"`
	ClassStructCount int64 `json:"class_struct_count"`
}

// Add 将另一个统计结果叠加到当前对象。
func (s *CodeStats) Add(other CodeStats) {
	s.FunctionCount += other.FunctionCount
	s.ClassStructCount += other.ClassStructCount
}

// Plus 返回两组统计值逐项相加的结果，不修改接收者。
func (s CodeStats) Plus(other CodeStats) CodeStats {
	s.Add(other)
	return s
}

// FileStats 表示单文件分析结果。
// 创建后不再修改，只会被聚合。
type FileStats struct {
	Path     string    `json:"path"`
	Language Language  `json:"language"`
	Stats    CodeStats `json:"stats"`
}

// LanguageStats 表示某个语言的聚合结果。
type LanguageStats struct {
	FileCount int64 `json:"file_count"`
	CodeStats
}

// DirectoryStats 是目录分析的完整聚合模型。
// 包含文件级明细（按发现顺序）、语言级汇总和全局总计。
//
// 只能通过 Add 修改，保证 TotalStats 始终等于全部文件统计之和。
type DirectoryStats struct {
	Files           []FileStats                `json:"files"`
	TotalByLanguage map[Language]LanguageStats `json:"total_by_language"`
	TotalStats      CodeStats                  `json:"total_stats"`
}

// NewDirectoryStats 创建一个空的目录统计对象。
func NewDirectoryStats() *DirectoryStats {
	return &DirectoryStats{
		Files:           make([]FileStats, 0),
		TotalByLanguage: make(map[Language]LanguageStats),
	}
}

// Add 累加一个文件的统计值到总计与语言汇总中，并追加到文件列表。
func (d *DirectoryStats) Add(file FileStats) {
	if d.TotalByLanguage == nil {
		d.TotalByLanguage = make(map[Language]LanguageStats)
	}

	d.TotalStats.Add(file.Stats)

	summary := d.TotalByLanguage[file.Language]
	summary.FileCount++
	summary.CodeStats.Add(file.Stats)
	d.TotalByLanguage[file.Language] = summary

	d.Files = append(d.Files, file)
}

// TotalFiles 返回成功分析的文件数量。
func (d *DirectoryStats) TotalFiles() int {
	return len(d.Files)
}
