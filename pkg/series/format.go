package series

import (
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrUnsupportedFormat is returned when no format is registered under a name.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Format defines the interface for a series file format.
type Format interface {
	Name() string
	Extensions() []string
	Decode(data []byte) ([]Sample, error)
	Encode(w io.Writer, samples []Sample) error
}

// Registry management
var (
	registry    = make(map[string]Format)
	extRegistry = make(map[string]Format)
)

func init() {
	Register(&CSVFormat{})
	Register(&TSVFormat{})
	Register(&JSONLFormat{})
	Register(&ParquetFormat{})
}

// Register adds a format to the registry.
func Register(f Format) {
	name := strings.ToLower(f.Name())
	registry[name] = f
	for _, ext := range f.Extensions() {
		extRegistry[strings.ToLower(ext)] = f
	}
}

// Get returns a format by name.
func Get(name string) (Format, bool) {
	f, ok := registry[strings.ToLower(name)]
	return f, ok
}

// GetByExtension returns a format by file extension.
func GetByExtension(ext string) (Format, bool) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	f, ok := extRegistry[ext]
	return f, ok
}

// ForPath returns the format for a file based on its extension. Unknown
// extensions fall back to CSV, the historical on-disk format.
func ForPath(path string) Format {
	if f, ok := GetByExtension(filepath.Ext(path)); ok {
		return f
	}
	return registry["csv"]
}

// Names returns the registered format names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// formatFloat writes the shortest representation that parses back to v.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
