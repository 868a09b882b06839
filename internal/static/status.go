package static

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"

	"github.com/any-hub/static-hub/internal/cache"
)

// PanicError 包装 Source 内部 panic 的值，使其可以走统一的错误映射。
type PanicError struct {
	Value interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// StatusFor 将 Fetch 返回的错误映射为 HTTP 状态码：nil→200，NotFound→404，
// Forbidden→403，其余一律 500。
func StatusFor(err error) int {
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, cache.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, cache.ErrForbidden):
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// errorCode 返回 JSON 错误体中的 error 字段。
func errorCode(err error) string {
	var panicErr *PanicError
	switch {
	case errors.Is(err, cache.ErrNotFound):
		return "not_found"
	case errors.Is(err, cache.ErrForbidden):
		return "forbidden"
	case errors.As(err, &panicErr):
		return "handler_panic"
	default:
		return "internal_error"
	}
}
