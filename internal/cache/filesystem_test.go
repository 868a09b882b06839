package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOSFileSystem(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "index.html")
	if err := os.WriteFile(file, []byte("<html/>"), 0o644); err != nil {
		t.Fatalf("write error: %v", err)
	}
	modTime := time.Now().Add(-time.Hour).Truncate(time.Second)
	if err := os.Chtimes(file, modTime, modTime); err != nil {
		t.Fatalf("chtimes error: %v", err)
	}

	fsys := NewOSFileSystem()
	if !fsys.Exists(file) || fsys.IsDir(file) {
		t.Fatalf("file should exist and not be a directory")
	}
	if !fsys.Exists(dir) || !fsys.IsDir(dir) {
		t.Fatalf("temp dir should exist and be a directory")
	}
	if fsys.Exists(filepath.Join(dir, "missing")) || fsys.IsDir(filepath.Join(dir, "missing")) {
		t.Fatalf("missing path should not exist")
	}

	got, err := fsys.ModTime(file)
	if err != nil {
		t.Fatalf("modtime error: %v", err)
	}
	if !got.Equal(modTime) {
		t.Fatalf("modtime mismatch: expected %v got %v", modTime, got)
	}
	if _, err := fsys.ModTime(filepath.Join(dir, "missing")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	data, err := fsys.ReadAll(file)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if string(data) != "<html/>" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestPathCacheOnDisk(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "app.css"), []byte("a{}"), 0o644); err != nil {
		t.Fatalf("write error: %v", err)
	}
	pc, err := NewPathCache(dir)
	if err != nil {
		t.Fatalf("path cache error: %v", err)
	}
	payload, err := pc.Fetch("app.css", true)
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if payload.MIMEType != "text/css" || gunzip(t, payload.Body) != "a{}" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if pc.Root() != dir {
		t.Fatalf("root mismatch: %s vs %s", pc.Root(), dir)
	}
}
