package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDirSinkPutAndLocate(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "exports")
	sink, err := NewDirSink(dir)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	body := "email\na@x.com"
	if err := sink.Put(ctx, "users.csv", strings.NewReader(body), int64(len(body)), "text/csv"); err != nil {
		t.Fatalf("put: %v", err)
	}
	loc, err := sink.Locate(ctx, "users.csv", time.Minute)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	data, err := os.ReadFile(loc)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if string(data) != body {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestDirSinkStripsDirectories(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewDirSink(dir)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	if err := sink.Put(context.Background(), "../../escape.csv", strings.NewReader("x"), 1, "text/csv"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.csv")); err != nil {
		t.Fatalf("expected file inside sink dir: %v", err)
	}
}

func TestNewDirSinkRequiresPath(t *testing.T) {
	if _, err := NewDirSink(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
