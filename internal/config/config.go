// Package config 提供 codestats 的配置加载功能。
// 优先级从低到高：默认值 -> 配置文件 -> CODESTATS_* 环境变量 -> 显式设置的命令行参数。
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config 是一次分析运行的完整配置。
type Config struct {
	Format      string    `mapstructure:"format"`       // 输出格式: summary, detail, json, yaml, toml
	Detail      bool      `mapstructure:"detail"`       // 为 true 时 summary 切换为 detail
	Ignore      []string  `mapstructure:"ignore"`       // 路径子串忽略列表
	MaxDepth    int       `mapstructure:"max_depth"`    // 最大遍历深度
	FollowLinks bool      `mapstructure:"follow_links"` // 是否进入符号链接目录
	Workers     int       `mapstructure:"workers"`      // 并发 worker 数量
	Output      string    `mapstructure:"output"`       // 额外导出报告的文件路径，空表示不导出
	Log         LogConfig `mapstructure:"log"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`       // 日志级别: trace, debug, info, warn, error, fatal, panic
	JSON       bool   `mapstructure:"json"`        // 是否使用 JSON 格式输出
	Mode       string `mapstructure:"mode"`        // 输出模式: console, file, both
	FilePath   string `mapstructure:"file_path"`   // 文件路径（当 mode 为 file 或 both 时使用）
	MaxSize    int    `mapstructure:"max_size"`    // 日志文件最大大小（MB）
	MaxBackups int    `mapstructure:"max_backups"` // 保留的备份文件数量
	MaxAge     int    `mapstructure:"max_age"`     // 文件保留天数
}

// flagKeys 把命令行参数名映射到配置键。
var flagKeys = map[string]string{
	"format":       "format",
	"detail":       "detail",
	"ignore":       "ignore",
	"max-depth":    "max_depth",
	"follow-links": "follow_links",
	"workers":      "workers",
	"output":       "output",
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	v.SetDefault("format", "summary")
	v.SetDefault("detail", false)
	v.SetDefault("ignore", []string{})
	v.SetDefault("max_depth", 100)
	v.SetDefault("follow_links", false)
	v.SetDefault("workers", 1)
	v.SetDefault("output", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.mode", "console")
	v.SetDefault("log.file_path", ".codestats/codestats.log")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
}

// Load 加载配置。
// configPath 非空时只读取该文件（不存在即报错）；否则在常见目录中查找 .codestats.{yaml,yml,json,toml}。
// flags 可以为 nil；非 nil 时只有用户显式设置过的参数会覆盖其他来源。
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(".codestats")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		v.AddConfigPath("$HOME/.config/codestats")
	}

	v.SetEnvPrefix("CODESTATS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 检查配置取值是否合法。
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Format)) {
	case "summary", "detail", "json", "yaml", "yml", "toml":
	default:
		return fmt.Errorf("unsupported format %q, allowed values: summary, detail, json, yaml, toml", c.Format)
	}

	if c.Workers < 1 {
		return errors.New("workers must be greater than 0")
	}
	if c.MaxDepth < 0 {
		return errors.New("max-depth must not be negative")
	}

	switch strings.ToLower(c.Log.Mode) {
	case "", "console", "file", "both":
	default:
		return fmt.Errorf("unsupported log mode %q, allowed values: console, file, both", c.Log.Mode)
	}
	return nil
}
