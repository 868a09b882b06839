package cache

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound 表示文件不存在，或在两次检查之间变得不可访问。
	ErrNotFound = errors.New("cache: file not found")
	// ErrForbidden 表示解析后的路径是一个目录。
	ErrForbidden = errors.New("cache: path is a directory")
)

// InternalError 包装读盘/压缩等非预期失败，保留操作名与文件路径，边界层统一映射为 500。
type InternalError struct {
	Op   string
	Path string
	Err  error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("cache: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

func newInternalError(op, path string, err error) error {
	return &InternalError{Op: op, Path: path, Err: err}
}
