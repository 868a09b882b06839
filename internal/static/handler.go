package static

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/any-hub/static-hub/internal/cache"
	"github.com/any-hub/static-hub/internal/config"
	"github.com/any-hub/static-hub/internal/logging"
	"github.com/any-hub/static-hub/internal/server"
)

const allowedMethods = "GET, HEAD"

// Handler 为每个站点持有一个 cache.Source（各自一把锁），根据 SiteRoute 分派请求。
// 构造完成后 sources 只读，多个请求可并发调用 Handle。
type Handler struct {
	logger  *logrus.Logger
	sources map[string]cache.Source
}

// NewHandler 按配置为每个站点构建 PathCache 或 SingleFile。extra 追加在站点默认选项之后，
// 测试可借此替换文件系统实现。
func NewHandler(cfg *config.Config, logger *logrus.Logger, extra ...cache.Option) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	compressor, err := cache.NewGzipCompressor(cfg.Global.GzipLevel)
	if err != nil {
		return nil, err
	}
	mimes := cache.NewMIMETable(cfg.Global.MimeTypes)

	sources := make(map[string]cache.Source, len(cfg.Sites))
	for _, site := range cfg.Sites {
		opts := []cache.Option{
			cache.WithGzip(cfg.EffectiveGzip(site)),
			cache.WithCompressor(compressor),
			cache.WithMIMETable(mimes),
		}
		opts = append(opts, extra...)

		source, err := newSource(site, opts)
		if err != nil {
			return nil, fmt.Errorf("site %s: %w", site.Name, err)
		}
		sources[site.Name] = source
	}

	return &Handler{logger: logger, sources: sources}, nil
}

func newSource(site config.SiteConfig, opts []cache.Option) (cache.Source, error) {
	switch site.Type {
	case config.SiteTypeDirectory:
		return cache.NewPathCache(site.Path, opts...)
	case config.SiteTypeFile:
		return cache.NewSingleFile(site.Path, opts...)
	default:
		return nil, fmt.Errorf("unsupported site type %q", site.Type)
	}
}

// SiteStats 返回站点缓存计数器，供 /-/sites 诊断接口使用。
func (h *Handler) SiteStats(name string) (cache.Stats, bool) {
	source, ok := h.sources[name]
	if !ok {
		return cache.Stats{}, false
	}
	return source.Stats(), true
}

// Handle 实现 server.SiteHandler：刷新缓存、协商压缩并写出响应，每个请求输出一条结构化日志。
func (h *Handler) Handle(c fiber.Ctx, route *server.SiteRoute) error {
	started := time.Now()
	requestID := server.RequestID(c)
	rel := server.RelativePath(c)

	method := c.Method()
	if method != fiber.MethodGet && method != fiber.MethodHead {
		c.Set(fiber.HeaderAllow, allowedMethods)
		h.logResult(route, rel, requestID, fiber.StatusMethodNotAllowed, "", started, nil)
		return writeError(c, fiber.StatusMethodNotAllowed, "method_not_allowed")
	}

	source, ok := h.sources[route.Config.Name]
	if !ok {
		err := fmt.Errorf("no source for site %s", route.Config.Name)
		h.logResult(route, rel, requestID, fiber.StatusInternalServerError, "", started, err)
		return writeError(c, fiber.StatusInternalServerError, "site_unavailable")
	}

	payload, err := fetch(source, rel, acceptsGzip(c.Get(fiber.HeaderAcceptEncoding)))
	if err != nil {
		status := StatusFor(err)
		h.logResult(route, rel, requestID, status, "", started, err)
		return writeError(c, status, errorCode(err))
	}

	status := writePayload(c, payload, source.GzipEnabled())
	h.logResult(route, rel, requestID, status, payload.Encoding, started, nil)
	return nil
}

// fetch 将 Source 内部的 panic 转换为 *PanicError。
func fetch(source cache.Source, rel string, gzip bool) (payload *cache.Payload, err error) {
	defer func() {
		if r := recover(); r != nil {
			payload = nil
			err = &PanicError{Value: r}
		}
	}()
	return source.Fetch(rel, gzip)
}

func (h *Handler) logResult(
	route *server.SiteRoute,
	path string,
	requestID string,
	status int,
	encoding string,
	started time.Time,
	err error,
) {
	fields := logging.RequestFields(
		route.Config.Name,
		route.Host,
		route.Config.Type,
		route.Gzip,
		encoding,
	)
	fields["action"] = "serve"
	fields["path"] = path
	fields["status"] = status
	fields["elapsed_ms"] = time.Since(started).Milliseconds()
	if requestID != "" {
		fields["request_id"] = requestID
	}
	if status >= fiber.StatusInternalServerError {
		h.logger.WithFields(fields).WithError(err).Error("serve_failed")
		return
	}
	h.logger.WithFields(fields).Info("serve_complete")
}
