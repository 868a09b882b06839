package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration 提供更灵活的反序列化能力，同时兼容纯秒整数与 Go Duration 字符串。
type Duration time.Duration

// UnmarshalText 使 Viper 可以识别诸如 "30s"、"5m" 或纯数字秒值等配置写法。
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if seconds, err := time.ParseDuration(raw); err == nil {
		*d = Duration(seconds)
		return nil
	}

	if intVal, err := parseInt(raw); err == nil {
		*d = Duration(time.Duration(intVal) * time.Second)
		return nil
	}

	return fmt.Errorf("invalid duration value: %s", raw)
}

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// parseInt 支持十进制或 0x 前缀的十六进制字符串解析。
func parseInt(value string) (int64, error) {
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		return strconv.ParseInt(value, 0, 64)
	}
	return strconv.ParseInt(value, 10, 64)
}

const (
	// SiteTypeDirectory 表示以目录为根解析任意请求路径。
	SiteTypeDirectory = "directory"
	// SiteTypeFile 表示只在挂载路径上返回单个文件。
	SiteTypeFile = "file"
)

// GlobalConfig 描述全局运行时行为，所有站点共享同一份参数。
type GlobalConfig struct {
	ListenPort      int               `mapstructure:"ListenPort"`
	LogLevel        string            `mapstructure:"LogLevel"`
	LogFilePath     string            `mapstructure:"LogFilePath"`
	LogMaxSize      int               `mapstructure:"LogMaxSize"`
	LogMaxBackups   int               `mapstructure:"LogMaxBackups"`
	LogCompress     bool              `mapstructure:"LogCompress"`
	Gzip            bool              `mapstructure:"Gzip"`
	GzipLevel       int               `mapstructure:"GzipLevel"`
	ShutdownTimeout Duration          `mapstructure:"ShutdownTimeout"`
	MimeTypes       map[string]string `mapstructure:"MimeTypes"`
}

// SiteConfig 决定单个静态站点从哪里读取文件、挂载在哪个 Host/路径下。
type SiteConfig struct {
	Name   string `mapstructure:"Name"`
	Domain string `mapstructure:"Domain"`
	Mount  string `mapstructure:"Mount"`
	Type   string `mapstructure:"Type"`
	Path   string `mapstructure:"Path"`
	// Gzip 为空时继承 Global.Gzip。
	Gzip *bool `mapstructure:"Gzip"`
}

// Config 是 TOML 文件映射的整体结构。
type Config struct {
	Global GlobalConfig `mapstructure:",squash"`
	Sites  []SiteConfig `mapstructure:"Site"`
}

// IsFile 表示站点是否为单文件模式。
func (s SiteConfig) IsFile() bool {
	return s.Type == SiteTypeFile
}

// EffectiveGzip 返回站点生效的 gzip 开关，未覆盖时回退至全局值。
func (c *Config) EffectiveGzip(s SiteConfig) bool {
	if s.Gzip != nil {
		return *s.Gzip
	}
	return c.Global.Gzip
}

// SiteSummaries 返回所有站点的摘要，例如 docs:directory:/，供启动日志使用。
func SiteSummaries(sites []SiteConfig) []string {
	if len(sites) == 0 {
		return nil
	}
	result := make([]string, len(sites))
	for i, site := range sites {
		result[i] = fmt.Sprintf("%s:%s:%s", site.Name, site.Type, site.Mount)
	}
	return result
}
