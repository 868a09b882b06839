package cache

import (
	"bytes"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func TestGzipCompressorRoundTripAndDeterminism(t *testing.T) {
	c, err := NewGzipCompressor(gzip.BestCompression)
	if err != nil {
		t.Fatalf("constructor error: %v", err)
	}
	input := []byte(strings.Repeat("static-hub ", 200))

	first, err := c.Compress(input)
	if err != nil {
		t.Fatalf("compress error: %v", err)
	}
	second, err := c.Compress(input)
	if err != nil {
		t.Fatalf("compress error: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("compression must be deterministic")
	}
	if len(first) >= len(input) {
		t.Fatalf("repetitive input should shrink: %d >= %d", len(first), len(input))
	}
	if got := gunzip(t, first); got != string(input) {
		t.Fatalf("round trip mismatch")
	}
}

func TestGzipCompressorEmptyInput(t *testing.T) {
	out, err := defaultCompressor().Compress(nil)
	if err != nil {
		t.Fatalf("compress error: %v", err)
	}
	if len(out) == 0 {
		t.Fatalf("empty input should still produce a gzip stream")
	}
	if got := gunzip(t, out); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestNewGzipCompressorRejectsInvalidLevel(t *testing.T) {
	for _, level := range []int{-3, 10} {
		if _, err := NewGzipCompressor(level); err == nil {
			t.Fatalf("level %d should be rejected", level)
		}
	}
}
