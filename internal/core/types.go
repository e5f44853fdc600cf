package core

import "sort"

// Size describes the dimensions of a map in tiles.
type Size struct {
	W int
	H int
}

// Source supplies everything a tilemap needs to display one map.
type Source interface {
	Name() string
	Size() Size
	// Data returns the flattened [z][y][x] planes.
	Data() []int
	// Flags returns the tileset flag array indexed by tile ID.
	Flags() []int
	Wrap() (horizontal, vertical bool)
}

// OverpassSource is implemented by sources with bridge cells whose layer 2
// and 3 tiles always draw above characters.
type OverpassSource interface {
	IsOverpass(mx, my int) bool
}

// Factory constructs a Source using an optional configuration map.
type Factory func(cfg map[string]string) Source

var sources = map[string]Factory{}

// Register adds a source factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sources[name] = f
}

// Sources exposes the registry of available source factories.
func Sources() map[string]Factory {
	return sources
}

// SourceNames lists registered source names in sorted order.
func SourceNames() []string {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
