package cache

import (
	"errors"
	"io/fs"
	"time"
)

// Entry 保存一个文件路径的缓存状态。mimeType 在创建时确定，之后即使文件内容或类型变化也不再重新推导。
// Entry 自身不加锁，所有方法都要求调用方持有所属实例的互斥锁。
type Entry struct {
	name         string
	mimeType     string
	lastModified time.Time
	raw          []byte
	compressed   []byte
}

func newEntry(name, mimeType string) *Entry {
	return &Entry{name: name, mimeType: mimeType}
}

// loaded 报告是否已经成功读取过一次正文。
func (e *Entry) loaded() bool {
	return !e.lastModified.IsZero()
}

// refresh 查询一次修改时间；首次访问或时间严格变新时重新读盘并丢弃旧的压缩正文。
// read 为 true 表示本次发生了读盘。
func (e *Entry) refresh(fsys FileSystem) (read bool, err error) {
	modTime, err := fsys.ModTime(e.name)
	if err != nil || modTime.IsZero() {
		return false, ErrNotFound
	}
	if e.loaded() && !modTime.After(e.lastModified) {
		return false, nil
	}

	// 时间戳查询与读盘之间文件可能被删除或替换为目录。
	if !fsys.Exists(e.name) {
		return false, ErrNotFound
	}
	if fsys.IsDir(e.name) {
		return false, ErrForbidden
	}

	data, err := fsys.ReadAll(e.name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, ErrNotFound
		}
		return false, newInternalError("read", e.name, err)
	}

	e.raw = data
	e.lastModified = modTime
	e.compressed = nil
	return true, nil
}

// ensureCompressed 复用已有压缩正文，否则压缩当前原始正文并保存。computed 表示本次调用了压缩器。
func (e *Entry) ensureCompressed(c Compressor) (data []byte, computed bool, err error) {
	if e.compressed != nil {
		return e.compressed, false, nil
	}
	out, err := c.Compress(e.raw)
	if err != nil {
		return nil, false, newInternalError("compress", e.name, err)
	}
	e.compressed = out
	return out, true, nil
}

func (e *Entry) snapshot(body []byte, encoding string) *Payload {
	return &Payload{
		Body:         body,
		MIMEType:     e.mimeType,
		LastModified: e.lastModified,
		Encoding:     encoding,
	}
}
