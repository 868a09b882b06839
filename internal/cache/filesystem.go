package cache

import (
	"errors"
	"time"

	"github.com/spf13/afero"
)

// FileSystem 是缓存访问磁盘的唯一入口，刷新逻辑只依赖这四个操作。
type FileSystem interface {
	// Exists 报告路径当前是否存在（文件或目录）。
	Exists(name string) bool
	// IsDir 报告路径是否为目录；不存在时返回 false。
	IsDir(name string) bool
	// ModTime 返回文件最后修改时间，文件不可访问时返回错误。
	ModTime(name string) (time.Time, error)
	// ReadAll 一次性读取完整正文。
	ReadAll(name string) ([]byte, error)
}

// aferoFileSystem 通过 afero.Fs 实现 FileSystem，生产环境使用 OsFs，测试使用 MemMapFs。
type aferoFileSystem struct {
	fs afero.Fs
}

// NewFileSystem 基于任意 afero.Fs 构建 FileSystem。
func NewFileSystem(fs afero.Fs) FileSystem {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &aferoFileSystem{fs: fs}
}

// NewOSFileSystem 返回直接访问本地磁盘的 FileSystem。
func NewOSFileSystem() FileSystem {
	return NewFileSystem(afero.NewOsFs())
}

func (a *aferoFileSystem) Exists(name string) bool {
	ok, err := afero.Exists(a.fs, name)
	return err == nil && ok
}

func (a *aferoFileSystem) IsDir(name string) bool {
	ok, err := afero.IsDir(a.fs, name)
	return err == nil && ok
}

func (a *aferoFileSystem) ModTime(name string) (time.Time, error) {
	info, err := a.fs.Stat(name)
	if err != nil {
		return time.Time{}, err
	}
	modTime := info.ModTime()
	if modTime.IsZero() {
		return time.Time{}, errors.New("modification time unavailable")
	}
	return modTime, nil
}

func (a *aferoFileSystem) ReadAll(name string) ([]byte, error) {
	return afero.ReadFile(a.fs, name)
}
