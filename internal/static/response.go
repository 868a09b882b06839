package static

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/any-hub/static-hub/internal/cache"
)

// writePayload 输出快照并返回实际状态码；If-Modified-Since 不早于 LastModified 时回复 304。
func writePayload(c fiber.Ctx, payload *cache.Payload, vary bool) int {
	c.Set(fiber.HeaderContentType, payload.MIMEType)
	if vary {
		c.Set(fiber.HeaderVary, fiber.HeaderAcceptEncoding)
	}
	if payload.Encoding != "" {
		c.Set(fiber.HeaderContentEncoding, payload.Encoding)
	}

	modified := payload.LastModified.UTC().Truncate(time.Second)
	if !modified.IsZero() {
		c.Set(fiber.HeaderLastModified, modified.Format(http.TimeFormat))
	}

	if notModified(c.Get(fiber.HeaderIfModifiedSince), modified) {
		c.Status(fiber.StatusNotModified)
		return fiber.StatusNotModified
	}

	// HEAD 请求由 fasthttp 丢弃正文，保留 Content-Length。
	c.Status(fiber.StatusOK)
	_ = c.Send(payload.Body)
	return fiber.StatusOK
}

func notModified(header string, modified time.Time) bool {
	if header == "" || modified.IsZero() {
		return false
	}
	since, err := http.ParseTime(header)
	if err != nil {
		return false
	}
	return !modified.After(since)
}

func writeError(c fiber.Ctx, status int, code string) error {
	return c.Status(status).JSON(fiber.Map{"error": code})
}
