package cache

import (
	"errors"
	"path/filepath"
	"strings"
)

// SingleFile 在构造时绑定唯一一个文件，刷新与压缩逻辑与 PathCache 相同，但没有查表步骤。
type SingleFile struct {
	instance

	entry *Entry
}

// NewSingleFile 构建单文件模式缓存，MIME 在此刻按扩展名确定，未知扩展名使用 SingleFileDefaultMIME。
func NewSingleFile(name string, opts ...Option) (*SingleFile, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("file path required")
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &SingleFile{
		instance: instance{opts: o, stats: Stats{Entries: 1}},
		entry:    newEntry(abs, o.mimes.TypeFor(abs, SingleFileDefaultMIME)),
	}, nil
}

// Path 返回绑定的绝对文件路径。
func (s *SingleFile) Path() string {
	return s.entry.name
}

// Fetch 实现 Source，requestPath 被忽略。
func (s *SingleFile) Fetch(_ string, acceptsGzip bool) (*Payload, error) {
	payload, err := s.refresh()
	if err != nil {
		return nil, err
	}
	return s.serve(s.entry, payload, acceptsGzip)
}

func (s *SingleFile) refresh() (*Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refreshLocked(s.entry); err != nil {
		return nil, err
	}
	return s.entry.snapshot(s.entry.raw, ""), nil
}

// Stats 返回计数器快照。
func (s *SingleFile) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}
