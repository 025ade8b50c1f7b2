package fsys

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gearrack/internal/logging"
)

// OS is the production FileSystem backed by the operating system.
type OS struct {
	logger *slog.Logger
}

// NewOS constructs the production file system. A nil logger is replaced with
// a no-op logger.
func NewOS(logger *slog.Logger) *OS {
	return &OS{logger: logging.NewComponentLogger(logger, "fsys")}
}

func (f *OS) Exists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		return true
	}
	// JPEG paths get an extra open-and-check so a file that matches the name
	// pattern but cannot be read is reported absent. The image decode path
	// downstream fails loudly on unreadable files.
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".jpg" || ext == ".jpeg" {
		file, err := os.Open(path)
		if err != nil {
			f.logger.Debug("jpeg exists but is unreadable",
				logging.String(logging.FieldPath, path), logging.Error(err))
			return false
		}
		_ = file.Close()
	}
	return true
}

func (f *OS) IsDirectory(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (f *OS) ReadFile(path string) (string, bool) {
	data, ok := f.ReadBinary(path)
	if !ok {
		return "", false
	}
	return string(data), true
}

func (f *OS) ReadBinary(path string) ([]byte, bool) {
	if path == "" {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		f.logger.Debug("read failed", logging.String(logging.FieldPath, path), logging.Error(err))
		return nil, false
	}
	return data, true
}

func (f *OS) WriteFile(path, content string) bool {
	return f.WriteBinary(path, []byte(content))
}

func (f *OS) WriteBinary(path string, data []byte) bool {
	if path == "" {
		return false
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		f.logger.Debug("write failed", logging.String(logging.FieldPath, path), logging.Error(err))
		return false
	}
	return true
}

func (f *OS) Remove(path string) bool {
	if path == "" {
		return false
	}
	return os.Remove(path) == nil
}

func (f *OS) RemoveAll(path string) bool {
	if path == "" {
		return false
	}
	return os.RemoveAll(path) == nil
}

func (f *OS) Move(oldPath, newPath string) bool {
	if oldPath == "" || newPath == "" {
		return false
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		f.logger.Debug("move failed",
			logging.String("from", oldPath), logging.String("to", newPath), logging.Error(err))
		return false
	}
	return true
}

func (f *OS) CreateDirectory(path string) bool {
	if path == "" {
		return false
	}
	return os.MkdirAll(path, 0o755) == nil
}

func (f *OS) List(dir string) []string {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func (f *OS) FileSize(path string) int64 {
	if path == "" {
		return -1
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return -1
	}
	return info.Size()
}

func (f *OS) ModTime(path string) time.Time {
	if path == "" {
		return time.Time{}
	}
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
