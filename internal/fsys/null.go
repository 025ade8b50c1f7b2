package fsys

import (
	"log/slog"
	"time"

	"gearrack/internal/logging"
)

// Null is the inert FileSystem. Every operation deterministically fails and
// logs the attempt at debug level. It replaces nil checks wherever a real
// file system is not wired up yet.
type Null struct {
	logger *slog.Logger
}

// NewNull constructs the inert file system.
func NewNull(logger *slog.Logger) *Null {
	return &Null{logger: logging.NewComponentLogger(logger, "fsys.null")}
}

func (n *Null) deny(op, path string) {
	n.logger.Debug("operation on null file system",
		logging.String("op", op), logging.String(logging.FieldPath, path))
}

func (n *Null) Exists(path string) bool { n.deny("exists", path); return false }

func (n *Null) IsDirectory(path string) bool { n.deny("is_directory", path); return false }

func (n *Null) ReadFile(path string) (string, bool) { n.deny("read_file", path); return "", false }

func (n *Null) ReadBinary(path string) ([]byte, bool) { n.deny("read_binary", path); return nil, false }

func (n *Null) WriteFile(path, content string) bool { n.deny("write_file", path); return false }

func (n *Null) WriteBinary(path string, data []byte) bool { n.deny("write_binary", path); return false }

func (n *Null) Remove(path string) bool { n.deny("remove", path); return false }

func (n *Null) RemoveAll(path string) bool { n.deny("remove_all", path); return false }

func (n *Null) Move(oldPath, newPath string) bool { n.deny("move", oldPath); return false }

func (n *Null) CreateDirectory(path string) bool { n.deny("create_directory", path); return false }

func (n *Null) List(dir string) []string { n.deny("list", dir); return nil }

func (n *Null) FileSize(path string) int64 { n.deny("file_size", path); return -1 }

func (n *Null) ModTime(path string) time.Time { n.deny("mod_time", path); return time.Time{} }
