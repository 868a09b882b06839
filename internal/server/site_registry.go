package server

import (
	"errors"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"

	"github.com/any-hub/static-hub/internal/config"
)

// SiteRoute 将站点配置与派生属性（规范化 Host、生效的 gzip 开关）聚合在一起，
// 供路由/静态处理层直接复用，避免重复解析配置。
type SiteRoute struct {
	// Config 是用户在 config.toml 中声明的站点字段副本。
	Config config.SiteConfig
	// ListenPort 记录当前 CLI 监听端口，方便日志输出。
	ListenPort int
	// Host 为规范化后的域名（小写、无端口、无末尾点）。
	Host string
	// Gzip 是站点覆盖与全局默认合并后的结果。
	Gzip bool
}

// matches 判断请求路径是否落在该站点挂载点下，并返回相对挂载点的路径。
func (r *SiteRoute) matches(requestPath string) (string, bool) {
	mount := r.Config.Mount
	if r.Config.IsFile() {
		if requestPath == mount || requestPath == mount+"/" {
			return "/", true
		}
		return "", false
	}
	if mount == "/" {
		return requestPath, true
	}
	if requestPath == mount {
		return "/", true
	}
	if strings.HasPrefix(requestPath, mount+"/") {
		return strings.TrimPrefix(requestPath, mount), true
	}
	return "", false
}

// SiteRegistry 提供 Host + 路径到 SiteRoute 的查询能力，所有站点共享同一个监听端口。
type SiteRegistry struct {
	hosts   map[string][]*SiteRoute
	ordered []*SiteRoute
}

// NewSiteRegistry 根据配置构建 Host/挂载映射。调用方应在启动阶段创建一次并复用。
func NewSiteRegistry(cfg *config.Config) (*SiteRegistry, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	registry := &SiteRegistry{
		hosts: make(map[string][]*SiteRoute),
	}

	for _, site := range cfg.Sites {
		host := normalizeDomain(site.Domain)
		if host == "" {
			return nil, fmt.Errorf("invalid domain for site %s", site.Name)
		}
		mount := site.Mount
		if mount == "" {
			mount = "/"
		}
		for _, existing := range registry.hosts[host] {
			if existing.Config.Mount == mount {
				return nil, fmt.Errorf("duplicate mount %s%s for site %s", host, mount, site.Name)
			}
		}

		site.Mount = mount
		route := &SiteRoute{
			Config:     site,
			ListenPort: cfg.Global.ListenPort,
			Host:       host,
			Gzip:       cfg.EffectiveGzip(site),
		}
		registry.hosts[host] = append(registry.hosts[host], route)
		registry.ordered = append(registry.ordered, route)
	}

	// 最长挂载优先，保证 /docs/api 先于 /docs 匹配。
	for _, routes := range registry.hosts {
		sort.SliceStable(routes, func(i, j int) bool {
			return len(routes[i].Config.Mount) > len(routes[j].Config.Mount)
		})
	}

	return registry, nil
}

// Lookup 根据 Host（可带端口）与请求路径查找站点，返回站点与相对挂载点的路径。
func (r *SiteRegistry) Lookup(host, requestPath string) (*SiteRoute, string, bool) {
	if r == nil {
		return nil, "", false
	}

	normalizedHost, _ := normalizeHost(host)
	if normalizedHost == "" {
		return nil, "", false
	}
	if requestPath == "" {
		requestPath = "/"
	}

	for _, route := range r.hosts[normalizedHost] {
		if rel, ok := route.matches(requestPath); ok {
			return route, rel, true
		}
	}
	return nil, "", false
}

// List 返回当前注册的站点列表（按配置定义的顺序），用于诊断输出。
func (r *SiteRegistry) List() []SiteRoute {
	if r == nil || len(r.ordered) == 0 {
		return nil
	}

	result := make([]SiteRoute, len(r.ordered))
	for i, route := range r.ordered {
		result[i] = *route
	}
	return result
}

func normalizeDomain(domain string) string {
	host, _ := normalizeHost(domain)
	return host
}

func normalizeHost(raw string) (string, int) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", 0
	}

	host := raw
	port := 0

	if strings.Contains(raw, ":") {
		if h, p, err := net.SplitHostPort(raw); err == nil {
			host = h
			if parsedPort, err := strconv.Atoi(p); err == nil {
				port = parsedPort
			}
		} else if idx := strings.LastIndex(raw, ":"); idx > -1 && strings.Count(raw[idx+1:], ":") == 0 {
			if parsedPort, err := strconv.Atoi(raw[idx+1:]); err == nil {
				host = raw[:idx]
				port = parsedPort
			}
		}
	}

	host = strings.TrimSuffix(host, ".")
	host = strings.ToLower(host)
	return host, port
}
