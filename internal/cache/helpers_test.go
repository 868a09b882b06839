package cache

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
)

// baseTime 作为测试文件的基准修改时间，避免依赖 time.Now 的精度。
var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// countingFS 记录 ReadAll/ModTime 调用次数，用于断言读盘次数。
type countingFS struct {
	FileSystem
	reads atomic.Int64
	stats atomic.Int64
}

func (c *countingFS) ModTime(name string) (time.Time, error) {
	c.stats.Add(1)
	return c.FileSystem.ModTime(name)
}

func (c *countingFS) ReadAll(name string) ([]byte, error) {
	c.reads.Add(1)
	return c.FileSystem.ReadAll(name)
}

// failingReadFS 让 ReadAll 始终失败，其余操作透传。
type failingReadFS struct {
	FileSystem
}

func (failingReadFS) ReadAll(string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

// countingCompressor 记录压缩器被调用的次数。
type countingCompressor struct {
	inner Compressor
	calls atomic.Int64
}

func (c *countingCompressor) Compress(data []byte) ([]byte, error) {
	c.calls.Add(1)
	return c.inner.Compress(data)
}

type failingCompressor struct{}

func (failingCompressor) Compress([]byte) ([]byte, error) {
	return nil, errors.New("compressor broken")
}

// memFixture 组合 MemMapFs 与计数包装，所有写入都显式设置修改时间。
type memFixture struct {
	t      *testing.T
	mem    afero.Fs
	fs     *countingFS
	gzip   *countingCompressor
	mimeTb *MIMETable
}

func newMemFixture(t *testing.T) *memFixture {
	t.Helper()
	mem := afero.NewMemMapFs()
	return &memFixture{
		t:    t,
		mem:  mem,
		fs:   &countingFS{FileSystem: NewFileSystem(mem)},
		gzip: &countingCompressor{inner: defaultCompressor()},
	}
}

func (f *memFixture) options(extra ...Option) []Option {
	opts := []Option{WithFileSystem(f.fs), WithCompressor(f.gzip)}
	if f.mimeTb != nil {
		opts = append(opts, WithMIMETable(f.mimeTb))
	}
	return append(opts, extra...)
}

func (f *memFixture) write(name, content string, modTime time.Time) {
	f.t.Helper()
	if err := f.mem.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		f.t.Fatalf("mkdir error: %v", err)
	}
	if err := afero.WriteFile(f.mem, name, []byte(content), 0o644); err != nil {
		f.t.Fatalf("write error: %v", err)
	}
	if err := f.mem.Chtimes(name, modTime, modTime); err != nil {
		f.t.Fatalf("chtimes error: %v", err)
	}
}

func (f *memFixture) mkdir(name string) {
	f.t.Helper()
	if err := f.mem.MkdirAll(name, 0o755); err != nil {
		f.t.Fatalf("mkdir error: %v", err)
	}
}

func (f *memFixture) remove(name string) {
	f.t.Helper()
	if err := f.mem.RemoveAll(name); err != nil {
		f.t.Fatalf("remove error: %v", err)
	}
}

func gunzip(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("gzip reader error: %v", err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("gunzip error: %v", err)
	}
	return string(out)
}
