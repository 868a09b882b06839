package cache

import (
	"sync"
	"time"
)

// EncodingGzip 是 Payload.Encoding 在返回压缩正文时的取值。
const EncodingGzip = "gzip"

// Source 是 HTTP 层消费的统一接口，PathCache 与 SingleFile 均实现它。
type Source interface {
	// Fetch 刷新并返回 requestPath 对应的正文快照；acceptsGzip 表示客户端接受 gzip。
	// 错误为 ErrNotFound、ErrForbidden 或 *InternalError。
	Fetch(requestPath string, acceptsGzip bool) (*Payload, error)
	// GzipEnabled 报告该实例是否允许输出压缩正文。
	GzipEnabled() bool
	// Stats 返回计数器快照。
	Stats() Stats
}

// Payload 是一次响应所需的不可变快照，Body 与 LastModified 总是来自同一代原始正文。
type Payload struct {
	Body         []byte
	MIMEType     string
	LastModified time.Time
	// Encoding 为空表示原始正文，EncodingGzip 表示 Body 已压缩。
	Encoding string
}

// Stats 汇总单个实例的缓存行为，供诊断接口输出。
type Stats struct {
	Entries      int   `json:"entries"`
	Hits         int64 `json:"hits"`
	Refreshes    int64 `json:"refreshes"`
	Compressions int64 `json:"compressions"`
	NotFound     int64 `json:"not_found"`
	Forbidden    int64 `json:"forbidden"`
}

// Option 调整 PathCache/SingleFile 的构造参数。
type Option func(*options)

type options struct {
	gzip       bool
	fs         FileSystem
	compressor Compressor
	mimes      *MIMETable
}

func buildOptions(opts []Option) options {
	o := options{gzip: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.fs == nil {
		o.fs = NewOSFileSystem()
	}
	if o.compressor == nil {
		o.compressor = defaultCompressor()
	}
	if o.mimes == nil {
		o.mimes = DefaultMIMETable()
	}
	return o
}

// WithGzip 控制是否对接受 gzip 的请求输出压缩正文（默认开启）。
func WithGzip(enabled bool) Option {
	return func(o *options) {
		o.gzip = enabled
	}
}

// WithFileSystem 替换磁盘访问实现，默认使用本地磁盘。
func WithFileSystem(fs FileSystem) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithCompressor 替换压缩实现，默认使用 gzip.DefaultCompression。
func WithCompressor(c Compressor) Option {
	return func(o *options) {
		o.compressor = c
	}
}

// WithMIMETable 替换扩展名映射表。
func WithMIMETable(t *MIMETable) Option {
	return func(o *options) {
		o.mimes = t
	}
}

// instance 持有一个服务实例的互斥锁、依赖与计数器。
// 同一把锁覆盖该实例下所有 Entry 的查表、刷新与压缩。
type instance struct {
	mu    sync.Mutex
	opts  options
	stats Stats
}

// refreshLocked 调用方必须持有 mu。
func (in *instance) refreshLocked(e *Entry) error {
	read, err := e.refresh(in.opts.fs)
	switch {
	case err == nil && read:
		in.stats.Refreshes++
	case err == nil:
		in.stats.Hits++
	}
	in.countFailureLocked(err)
	return err
}

func (in *instance) countFailureLocked(err error) {
	switch err {
	case ErrNotFound:
		in.stats.NotFound++
	case ErrForbidden:
		in.stats.Forbidden++
	}
}

// compress 在独立的临界区内补齐压缩正文，并与当时的原始正文配对生成快照。
func (in *instance) compress(e *Entry) (*Payload, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	data, computed, err := e.ensureCompressed(in.opts.compressor)
	if err != nil {
		return nil, err
	}
	if computed {
		in.stats.Compressions++
	}
	return e.snapshot(data, EncodingGzip), nil
}

func (in *instance) serve(e *Entry, payload *Payload, acceptsGzip bool) (*Payload, error) {
	if !in.opts.gzip || !acceptsGzip {
		return payload, nil
	}
	return in.compress(e)
}

func (in *instance) GzipEnabled() bool {
	return in.opts.gzip
}
