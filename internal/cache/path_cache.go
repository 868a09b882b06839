package cache

import (
	"errors"
	"path"
	"path/filepath"
	"strings"
)

// PathCache 以 root 为根目录解析请求路径，每个解析后的绝对路径对应一个 Entry。
// 条目创建后不会被移除，表随访问过的路径增长，生命周期与实例一致。
type PathCache struct {
	instance

	root  string
	table map[string]*Entry
}

// NewPathCache 构建目录模式缓存。root 不要求在构造时存在，缺失时所有请求返回 ErrNotFound。
func NewPathCache(root string, opts ...Option) (*PathCache, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root directory required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &PathCache{
		instance: instance{opts: buildOptions(opts)},
		root:     abs,
		table:    make(map[string]*Entry),
	}, nil
}

// Root 返回绝对根目录。
func (p *PathCache) Root() string {
	return p.root
}

// Fetch 实现 Source：查表/建表与刷新位于同一临界区，压缩位于第二个临界区。
func (p *PathCache) Fetch(requestPath string, acceptsGzip bool) (*Payload, error) {
	entry, payload, err := p.resolve(requestPath)
	if err != nil {
		return nil, err
	}
	return p.serve(entry, payload, acceptsGzip)
}

// resolve 返回刷新后的 Entry 以及与之配对的原始正文快照。
func (p *PathCache) resolve(requestPath string) (*Entry, *Payload, error) {
	name := p.compose(requestPath)

	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.table[name]
	if !ok {
		fsys := p.opts.fs
		if !fsys.Exists(name) {
			p.countFailureLocked(ErrNotFound)
			return nil, nil, ErrNotFound
		}
		if fsys.IsDir(name) {
			p.countFailureLocked(ErrForbidden)
			return nil, nil, ErrForbidden
		}
		entry = newEntry(name, p.opts.mimes.TypeFor(name, DirectoryDefaultMIME))
		p.table[name] = entry
		p.stats.Entries = len(p.table)
	}

	if err := p.refreshLocked(entry); err != nil {
		return nil, nil, err
	}
	return entry, entry.snapshot(entry.raw, ""), nil
}

// compose 把请求路径规整为以 / 开头的 URL 路径后拼接到 root，".." 无法越出根目录。
func (p *PathCache) compose(requestPath string) string {
	clean := path.Clean("/" + requestPath)
	return filepath.Join(p.root, filepath.FromSlash(clean))
}

// Stats 返回计数器快照。
func (p *PathCache) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}
