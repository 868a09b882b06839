package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/sirupsen/logrus"
)

var supportedSiteTypes = map[string]struct{}{
	SiteTypeDirectory: {},
	SiteTypeFile:      {},
}

const supportedSiteTypeList = "directory|file"

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	g := c.Global
	if g.ListenPort <= 0 || g.ListenPort > 65535 {
		return newFieldError("Global.ListenPort", "必须在 1-65535")
	}
	if _, err := logrus.ParseLevel(g.LogLevel); err != nil {
		return newFieldError("Global.LogLevel", fmt.Sprintf("无法识别: %s", g.LogLevel))
	}
	if g.LogMaxSize < 0 || g.LogMaxBackups < 0 {
		return newFieldError("Global.LogMaxSize/LogMaxBackups", "不能为负数")
	}
	if g.GzipLevel < gzip.HuffmanOnly || g.GzipLevel > gzip.BestCompression {
		return newFieldError("Global.GzipLevel", fmt.Sprintf("必须在 %d-%d", gzip.HuffmanOnly, gzip.BestCompression))
	}
	if g.ShutdownTimeout.DurationValue() <= 0 {
		return newFieldError("Global.ShutdownTimeout", "必须大于 0")
	}
	for ext, mimeType := range g.MimeTypes {
		if strings.TrimSpace(ext) == "" || strings.TrimSpace(mimeType) == "" {
			return newFieldError("Global.MimeTypes", "扩展名与类型均不能为空")
		}
	}

	if len(c.Sites) == 0 {
		return errors.New("至少需要配置一个 Site")
	}

	seenNames := map[string]struct{}{}
	seenMounts := map[string]string{}
	for i := range c.Sites {
		site := &c.Sites[i]
		if site.Name == "" {
			return newFieldError("Site[].Name", "不能为空")
		}
		if _, exists := seenNames[site.Name]; exists {
			return newFieldError(siteField(site.Name, "Name"), "重复")
		}
		seenNames[site.Name] = struct{}{}

		if err := validateDomain(site.Domain); err != nil {
			return fmt.Errorf("%s: %w", siteField(site.Name, "Domain"), err)
		}
		if !strings.HasPrefix(site.Mount, "/") {
			return newFieldError(siteField(site.Name, "Mount"), "必须以 / 开头")
		}

		normalizedType := strings.ToLower(strings.TrimSpace(site.Type))
		if normalizedType == "" {
			return newFieldError(siteField(site.Name, "Type"), "不能为空")
		}
		if _, ok := supportedSiteTypes[normalizedType]; !ok {
			return newFieldError(siteField(site.Name, "Type"), "仅支持 "+supportedSiteTypeList)
		}
		site.Type = normalizedType

		if strings.TrimSpace(site.Path) == "" {
			return newFieldError(siteField(site.Name, "Path"), "不能为空")
		}

		key := strings.ToLower(strings.TrimSuffix(site.Domain, ".")) + site.Mount
		if other, exists := seenMounts[key]; exists {
			return newFieldError(siteField(site.Name, "Mount"), fmt.Sprintf("与 %s 挂载冲突", other))
		}
		seenMounts[key] = site.Name
	}

	return nil
}

func validateDomain(domain string) error {
	if domain == "" {
		return errors.New("Domain 不能为空")
	}
	if strings.Contains(domain, "/") {
		return errors.New("Domain 不允许包含路径")
	}
	if strings.Contains(domain, " ") {
		return errors.New("Domain 不允许包含空格")
	}
	if strings.HasPrefix(domain, "http") {
		return errors.New("Domain 不应包含协议头")
	}
	return nil
}
