package texture

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// extPriority ranks formats sharing a stem: formats that carry alpha win.
var extPriority = map[string]int{
	".jpg":  1,
	".jpeg": 1,
	".png":  2,
	".tga":  3,
}

// Index maps lowercase image stems to filesystem paths.
type Index struct {
	entries map[string]string // stem.lower() → full path
}

// BuildIndex walks dir recursively for TGA, PNG and JPEG files. A missing
// dir yields an empty index.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]string)}
	if dir == "" {
		return idx
	}
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		idx.Add(path)
		return nil
	})
	return idx
}

// Add indexes one file. It reports false for unsupported extensions or
// when a higher priority format already owns the stem.
func (idx *Index) Add(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	prio, ok := extPriority[ext]
	if !ok {
		return false
	}
	stem := stemOf(path)
	if existing, exists := idx.entries[stem]; exists {
		if extPriority[strings.ToLower(filepath.Ext(existing))] >= prio {
			return false
		}
	}
	idx.entries[stem] = path
	return true
}

// ResolvePath returns the filesystem path for an image name, or ("", false).
// Directory prefixes and extensions in name are ignored.
func (idx *Index) ResolvePath(name string) (string, bool) {
	path, ok := idx.entries[stemOf(name)]
	return path, ok
}

// Len returns the number of indexed images.
func (idx *Index) Len() int {
	return len(idx.entries)
}

func stemOf(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(name)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}
