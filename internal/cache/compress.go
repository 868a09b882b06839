package cache

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/gzip"
)

// Compressor 将原始正文压缩为传输编码后的字节，要求对相同输入给出相同输出。
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// GzipCompressor 使用 klauspost/compress 的 gzip 实现，头部不写入文件名与时间，输出可复现。
type GzipCompressor struct {
	level int
}

// NewGzipCompressor 校验压缩级别并返回压缩器，level 取值与 gzip.NewWriterLevel 一致。
func NewGzipCompressor(level int) (*GzipCompressor, error) {
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		return nil, fmt.Errorf("invalid gzip level: %d", level)
	}
	return &GzipCompressor{level: level}, nil
}

// Compress 输出完整的 gzip 流。
func (g *GzipCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, g.level)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func defaultCompressor() Compressor {
	return &GzipCompressor{level: gzip.DefaultCompression}
}
