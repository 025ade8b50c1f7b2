package gearcache

import (
	"golang.org/x/sys/unix"

	"gearrack/internal/fsys"
)

// statfsFunc allows tests to stub filesystem stats.
type statfsFunc func(path string) (total uint64, free uint64, err error)

// Stats describes current cache usage.
type Stats struct {
	TotalBytes   int64   `json:"total_bytes"`
	UnitCount    int     `json:"unit_count"`
	FreeBytes    uint64  `json:"free_bytes"`
	TotalFSBytes uint64  `json:"total_fs_bytes"`
	FreeRatio    float64 `json:"free_ratio"`
}

// Stats reports cache usage plus free-space information for the filesystem
// holding the root. Free-space fields stay zero when the root is absent.
func (m *Manager) Stats() Stats {
	s := Stats{TotalBytes: m.Size()}
	s.UnitCount = len(m.fs.List(fsys.Join(m.root, unitsDir)))

	statfs := m.statfs
	if statfs == nil {
		statfs = realStatfs
	}
	total, free, err := statfs(m.root)
	if err != nil {
		return s
	}
	s.TotalFSBytes = total
	s.FreeBytes = free
	if total > 0 {
		s.FreeRatio = float64(free) / float64(total)
	}
	return s
}

func realStatfs(path string) (uint64, uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, 0, err
	}
	total := stat.Blocks * uint64(stat.Bsize)
	free := stat.Bavail * uint64(stat.Bsize)
	return total, free, nil
}
