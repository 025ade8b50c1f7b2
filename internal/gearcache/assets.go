package gearcache

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"strings"

	"gearrack/internal/fsys"
	"gearrack/internal/logging"
)

// jpegQuality applies to re-encoded faceplates and thumbnails.
const jpegQuality = 90

// CachedUnitPath derives the on-disk location for a unit definition.
func (m *Manager) CachedUnitPath(unitID string) string {
	if unitID == "" {
		return ""
	}
	return fsys.Join(fsys.Join(m.root, unitsDir), unitID+".json")
}

// IsUnitCached reports whether a unit definition is present.
func (m *Manager) IsUnitCached(unitID string) bool {
	path := m.CachedUnitPath(unitID)
	return path != "" && m.fs.Exists(path)
}

// SaveUnit writes a unit definition JSON document.
func (m *Manager) SaveUnit(unitID, content string) bool {
	path := m.CachedUnitPath(unitID)
	if path == "" || content == "" {
		return false
	}
	if !m.ensureParent(path) {
		return false
	}
	return m.fs.WriteFile(path, content)
}

// LoadUnit reads a unit definition JSON document. Absent units yield ("", false).
func (m *Manager) LoadUnit(unitID string) (string, bool) {
	path := m.CachedUnitPath(unitID)
	if path == "" {
		return "", false
	}
	return m.fs.ReadFile(path)
}

// CachedFaceplatePath derives the on-disk location for a faceplate image.
func (m *Manager) CachedFaceplatePath(filename string) string {
	if filename == "" {
		return ""
	}
	return fsys.Join(m.faceplateRoot(), fsys.FileName(filename))
}

// IsFaceplateCached reports whether a faceplate image is present.
func (m *Manager) IsFaceplateCached(filename string) bool {
	path := m.CachedFaceplatePath(filename)
	return path != "" && m.fs.Exists(path)
}

// SaveFaceplate decodes the raw image bytes and writes them re-encoded as
// JPEG. The normalization is deliberate: every cached faceplate shares one
// format regardless of what the remote served.
func (m *Manager) SaveFaceplate(filename string, raw []byte) bool {
	return m.saveJPEG(m.CachedFaceplatePath(filename), raw)
}

// LoadFaceplate decodes a cached faceplate. Absent or corrupt files yield
// (nil, false).
func (m *Manager) LoadFaceplate(filename string) (image.Image, bool) {
	return m.loadImage(m.CachedFaceplatePath(filename))
}

// CachedThumbnailPath derives the on-disk location for a thumbnail image.
func (m *Manager) CachedThumbnailPath(filename string) string {
	if filename == "" {
		return ""
	}
	return fsys.Join(m.thumbnailRoot(), fsys.FileName(filename))
}

// IsThumbnailCached reports whether a thumbnail image is present.
func (m *Manager) IsThumbnailCached(filename string) bool {
	path := m.CachedThumbnailPath(filename)
	return path != "" && m.fs.Exists(path)
}

// SaveThumbnail stores a thumbnail re-encoded as JPEG.
func (m *Manager) SaveThumbnail(filename string, raw []byte) bool {
	return m.saveJPEG(m.CachedThumbnailPath(filename), raw)
}

// LoadThumbnail decodes a cached thumbnail.
func (m *Manager) LoadThumbnail(filename string) (image.Image, bool) {
	return m.loadImage(m.CachedThumbnailPath(filename))
}

// CachedControlAssetPath derives the on-disk location for a control image.
// Callers may pass a bare relative path ("knobs/x.png") or one already
// prefixed by the remote layout ("assets/controls/knobs/x.png",
// "controls/knobs/x.png"); the prefix is stripped so the asset never nests
// twice under the controls folder.
func (m *Manager) CachedControlAssetPath(relativePath string) string {
	cleaned := cleanControlPath(relativePath)
	if cleaned == "" {
		return ""
	}
	return fsys.Join(m.controlRoot(), cleaned)
}

func cleanControlPath(relativePath string) string {
	cleaned := fsys.Normalize(relativePath)
	if cleaned == "" || cleaned == "." {
		return ""
	}
	cleaned = strings.TrimPrefix(cleaned, assetsDir+"/"+controlsDir+"/")
	cleaned = strings.TrimPrefix(cleaned, controlsDir+"/")
	return cleaned
}

// IsControlAssetCached reports whether a control image is present.
func (m *Manager) IsControlAssetCached(relativePath string) bool {
	path := m.CachedControlAssetPath(relativePath)
	return path != "" && m.fs.Exists(path)
}

// SaveControlAsset stores a control image verbatim. Control strips keep
// their source format; only faceplates and thumbnails are normalized.
func (m *Manager) SaveControlAsset(relativePath string, raw []byte) bool {
	path := m.CachedControlAssetPath(relativePath)
	if path == "" || len(raw) == 0 {
		return false
	}
	if !m.ensureParent(path) {
		return false
	}
	return m.fs.WriteBinary(path, raw)
}

// LoadControlAsset reads a control image's raw bytes.
func (m *Manager) LoadControlAsset(relativePath string) ([]byte, bool) {
	path := m.CachedControlAssetPath(relativePath)
	if path == "" {
		return nil, false
	}
	return m.fs.ReadBinary(path)
}

func (m *Manager) saveJPEG(path string, raw []byte) bool {
	if path == "" || len(raw) == 0 {
		return false
	}
	img, format, err := image.Decode(bytes.NewReader(raw))
	raw = nil // release the source buffer before encoding
	if err != nil {
		m.logger.Debug("image decode failed",
			logging.String(logging.FieldPath, path), logging.Error(err))
		return false
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		m.logger.Debug("jpeg encode failed",
			logging.String(logging.FieldPath, path),
			logging.String("source_format", format), logging.Error(err))
		return false
	}
	if !m.ensureParent(path) {
		return false
	}
	return m.fs.WriteBinary(path, buf.Bytes())
}

func (m *Manager) loadImage(path string) (image.Image, bool) {
	if path == "" {
		return nil, false
	}
	data, ok := m.fs.ReadBinary(path)
	if !ok {
		return nil, false
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	data = nil // release the file buffer once decoded
	if err != nil {
		m.logger.Debug("cached image is corrupt",
			logging.String(logging.FieldPath, path), logging.Error(err))
		return nil, false
	}
	return img, true
}
