package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SiteHandler describes the component that answers requests for a matched
// site. It allows injecting fake handlers during tests.
type SiteHandler interface {
	Handle(fiber.Ctx, *SiteRoute) error
}

// SiteHandlerFunc adapts a function to the SiteHandler interface.
type SiteHandlerFunc func(fiber.Ctx, *SiteRoute) error

// Handle makes SiteHandlerFunc satisfy SiteHandler.
func (f SiteHandlerFunc) Handle(c fiber.Ctx, route *SiteRoute) error {
	return f(c, route)
}

// AppOptions controls how the Fiber application should behave on a specific port.
type AppOptions struct {
	Logger     *logrus.Logger
	Registry   *SiteRegistry
	Handler    SiteHandler
	ListenPort int
}

const (
	contextKeyRoute        = "_statichub_route"
	contextKeyRelativePath = "_statichub_relative_path"
	contextKeyRequestID    = "_statichub_request_id"
)

// NewApp builds a Fiber application with Host + mount routing middleware and
// structured error handling.
func NewApp(opts AppOptions) (*fiber.App, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Registry == nil {
		return nil, errors.New("site registry is required")
	}
	if opts.Handler == nil {
		return nil, errors.New("site handler is required")
	}
	if opts.ListenPort <= 0 {
		return nil, fmt.Errorf("invalid listen port: %d", opts.ListenPort)
	}

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
	})

	app.Use(recover.New())
	app.Use(requestContextMiddleware(opts))

	app.All("/*", func(c fiber.Ctx) error {
		if isDiagnosticsPath(requestPath(c)) {
			return c.Next()
		}
		route, _ := getRouteFromContext(c)
		if route == nil {
			return renderRouteUnmapped(c, opts.Logger, "", requestPath(c), opts.ListenPort)
		}
		return opts.Handler.Handle(c, route)
	})

	return app, nil
}

// requestContextMiddleware 负责生成请求 ID，并基于 Host + 路径查找 SiteRoute。
func requestContextMiddleware(opts AppOptions) fiber.Handler {
	return func(c fiber.Ctx) error {
		reqID := uuid.NewString()
		c.Locals(contextKeyRequestID, reqID)
		c.Set("X-Request-ID", reqID)

		path := requestPath(c)
		if isDiagnosticsPath(path) {
			return c.Next()
		}

		rawHost := strings.TrimSpace(getHostHeader(c))
		route, rel, ok := opts.Registry.Lookup(rawHost, path)
		if !ok {
			return renderRouteUnmapped(c, opts.Logger, rawHost, path, opts.ListenPort)
		}

		c.Locals(contextKeyRoute, route)
		c.Locals(contextKeyRelativePath, rel)
		return c.Next()
	}
}

func renderRouteUnmapped(c fiber.Ctx, logger *logrus.Logger, host, path string, port int) error {
	fields := logrus.Fields{
		"action": "route_lookup",
		"host":   host,
		"path":   path,
		"port":   port,
	}
	logger.WithFields(fields).Warn("route unmapped")

	if host != "" {
		c.Set("X-Static-Hub-Host", host)
	}

	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "route_unmapped",
	})
}

func getHostHeader(c fiber.Ctx) string {
	if raw := c.Request().Header.Peek(fiber.HeaderHost); len(raw) > 0 {
		return string(raw)
	}
	return c.Hostname()
}

func requestPath(c fiber.Ctx) string {
	path := string(c.Request().URI().Path())
	if path == "" {
		return "/"
	}
	return path
}

func getRouteFromContext(c fiber.Ctx) (*SiteRoute, bool) {
	if value := c.Locals(contextKeyRoute); value != nil {
		if route, ok := value.(*SiteRoute); ok {
			return route, true
		}
	}
	return nil, false
}

// RequestID returns the request identifier stored by the router middleware.
func RequestID(c fiber.Ctx) string {
	if value := c.Locals(contextKeyRequestID); value != nil {
		if reqID, ok := value.(string); ok {
			return reqID
		}
	}
	return ""
}

// RelativePath returns the request path relative to the matched site mount.
// It falls back to the raw request path when no route was stored.
func RelativePath(c fiber.Ctx) string {
	if value := c.Locals(contextKeyRelativePath); value != nil {
		if rel, ok := value.(string); ok {
			return rel
		}
	}
	return requestPath(c)
}

// DiagnosticsPath 是诊断接口的保留前缀，只有该前缀下的请求绕过站点查找，
// 其余以 /- 开头的路径照常交给站点。
const DiagnosticsPath = "/-/sites"

func isDiagnosticsPath(path string) bool {
	return path == DiagnosticsPath || strings.HasPrefix(path, DiagnosticsPath+"/")
}
