package cache

import (
	"path/filepath"
	"strings"
)

const (
	// DirectoryDefaultMIME 用于目录模式下无法识别扩展名的文件。
	DirectoryDefaultMIME = "text/plain"
	// SingleFileDefaultMIME 用于单文件模式下无法识别扩展名的文件。
	SingleFileDefaultMIME = "binary/octet-stream"
)

var builtinMIMETypes = map[string]string{
	"html":        "text/html",
	"htm":         "text/html",
	"css":         "text/css",
	"js":          "application/javascript",
	"mjs":         "application/javascript",
	"json":        "application/json",
	"map":         "application/json",
	"xml":         "application/xml",
	"txt":         "text/plain",
	"csv":         "text/csv",
	"md":          "text/markdown",
	"svg":         "image/svg+xml",
	"png":         "image/png",
	"jpg":         "image/jpeg",
	"jpeg":        "image/jpeg",
	"gif":         "image/gif",
	"webp":        "image/webp",
	"ico":         "image/x-icon",
	"woff":        "font/woff",
	"woff2":       "font/woff2",
	"ttf":         "font/ttf",
	"otf":         "font/otf",
	"pdf":         "application/pdf",
	"zip":         "application/zip",
	"gz":          "application/gzip",
	"wasm":        "application/wasm",
	"mp3":         "audio/mpeg",
	"mp4":         "video/mp4",
	"webm":        "video/webm",
	"webmanifest": "application/manifest+json",
}

// MIMETable 维护扩展名（不含点、小写）到 MIME 类型的映射，构建后只读，可被多个实例共享。
type MIMETable struct {
	types map[string]string
}

// DefaultMIMETable 返回内置映射表。
func DefaultMIMETable() *MIMETable {
	return NewMIMETable(nil)
}

// NewMIMETable 在内置映射之上叠加 overrides，键允许带前导点或大写。
func NewMIMETable(overrides map[string]string) *MIMETable {
	types := make(map[string]string, len(builtinMIMETypes)+len(overrides))
	for ext, mimeType := range builtinMIMETypes {
		types[ext] = mimeType
	}
	for ext, mimeType := range overrides {
		key := normalizeExtension(ext)
		mimeType = strings.TrimSpace(mimeType)
		if key == "" || mimeType == "" {
			continue
		}
		types[key] = mimeType
	}
	return &MIMETable{types: types}
}

// Lookup 查询扩展名对应的 MIME，未登记时返回 false。
func (t *MIMETable) Lookup(ext string) (string, bool) {
	if t == nil {
		return "", false
	}
	mimeType, ok := t.types[normalizeExtension(ext)]
	return mimeType, ok
}

// TypeFor 根据路径最后一段的扩展名确定 MIME，无扩展名或未登记时返回 fallback。
func (t *MIMETable) TypeFor(name, fallback string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		return fallback
	}
	if mimeType, ok := t.Lookup(ext); ok {
		return mimeType
	}
	return fallback
}

func normalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
