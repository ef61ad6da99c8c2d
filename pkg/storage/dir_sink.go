package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DirSink saves exports to a local directory.
type DirSink struct {
	basePath string
}

// NewDirSink creates the base directory if missing.
func NewDirSink(basePath string) (*DirSink, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("export directory is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	return &DirSink{basePath: basePath}, nil
}

// Put writes the export, replacing any earlier file with the same name.
func (d *DirSink) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	out, err := os.Create(filepath.Join(d.basePath, safeFilename(key)))
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, r); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// Locate returns the absolute path of the export.
func (d *DirSink) Locate(_ context.Context, key string, _ time.Duration) (string, error) {
	return filepath.Abs(filepath.Join(d.basePath, safeFilename(key)))
}

func safeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	name = strings.TrimSpace(name)
	if name == "" || name == "." {
		return "export.csv"
	}
	return name
}
