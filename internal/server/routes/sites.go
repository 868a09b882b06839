package routes

import (
	"sort"

	"github.com/gofiber/fiber/v3"

	"github.com/any-hub/static-hub/internal/cache"
	"github.com/any-hub/static-hub/internal/server"
)

// StatsProvider 按站点名返回缓存计数器，由 static.Handler 实现。
type StatsProvider interface {
	SiteStats(name string) (cache.Stats, bool)
}

// RegisterSiteRoutes 暴露 /-/sites 诊断接口，供运维查询站点绑定与缓存命中情况。
func RegisterSiteRoutes(app *fiber.App, registry *server.SiteRegistry, stats StatsProvider) {
	if app == nil || registry == nil {
		return
	}

	app.Get(server.DiagnosticsPath, func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"sites": encodeSites(registry.List(), stats),
		})
	})

	app.Get(server.DiagnosticsPath+"/:name", func(c fiber.Ctx) error {
		name := c.Params("name")
		for _, route := range registry.List() {
			if route.Config.Name == name {
				return c.JSON(encodeSite(route, stats))
			}
		}
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "site_not_found"})
	})
}

type sitePayload struct {
	Name   string       `json:"name"`
	Domain string       `json:"domain"`
	Mount  string       `json:"mount"`
	Type   string       `json:"type"`
	Path   string       `json:"path"`
	Port   int          `json:"port"`
	Gzip   bool         `json:"gzip"`
	Stats  *cache.Stats `json:"stats,omitempty"`
}

func encodeSites(routes []server.SiteRoute, stats StatsProvider) []sitePayload {
	if len(routes) == 0 {
		return nil
	}
	sort.Slice(routes, func(i, j int) bool {
		return routes[i].Config.Name < routes[j].Config.Name
	})
	result := make([]sitePayload, 0, len(routes))
	for _, route := range routes {
		result = append(result, encodeSite(route, stats))
	}
	return result
}

func encodeSite(route server.SiteRoute, stats StatsProvider) sitePayload {
	payload := sitePayload{
		Name:   route.Config.Name,
		Domain: route.Host,
		Mount:  route.Config.Mount,
		Type:   route.Config.Type,
		Path:   route.Config.Path,
		Port:   route.ListenPort,
		Gzip:   route.Gzip,
	}
	if stats != nil {
		if s, ok := stats.SiteStats(route.Config.Name); ok {
			payload.Stats = &s
		}
	}
	return payload
}
