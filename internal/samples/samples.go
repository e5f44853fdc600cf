// Package samples builds procedurally generated maps that exercise every
// tile family without requiring RPG Maker assets. Subpackages register their
// generators with core.Register.
package samples

import (
	"strconv"

	"rmmv-tiles/internal/core"
	"rmmv-tiles/internal/tile"
)

// Config controls the dimensions, seed and loop toggles of a sample map.
type Config struct {
	Width  int
	Height int
	Seed   int64
	HWrap  bool
	VWrap  bool
}

// FromMap overrides def with flag-style key/value pairs: w, h, seed, hwrap
// and vwrap. Unparsable values are ignored.
func FromMap(cfg map[string]string, def Config) Config {
	c := def
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["hwrap"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.HWrap = parsed
		}
	}
	if v, ok := cfg["vwrap"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.VWrap = parsed
		}
	}
	return c
}

// Map is an in-memory map with its own tileset flags. It satisfies
// core.Source and core.OverpassSource.
type Map struct {
	*core.TileGrid

	name     string
	flags    []int
	hwrap    bool
	vwrap    bool
	overpass []bool
}

var (
	_ core.Source         = (*Map)(nil)
	_ core.OverpassSource = (*Map)(nil)
)

// NewMap allocates a blank map and a flag array covering every tile ID.
func NewMap(name string, c Config) *Map {
	g := core.NewBlankTileGrid(c.Width, c.Height)
	return &Map{
		TileGrid: g,
		name:     name,
		flags:    make([]int, tile.IDMax),
		hwrap:    c.HWrap,
		vwrap:    c.VWrap,
		overpass: make([]bool, g.W*g.H),
	}
}

func (m *Map) Name() string       { return m.name }
func (m *Map) Size() core.Size    { return core.Size{W: m.W, H: m.H} }
func (m *Map) Data() []int        { return m.Cells() }
func (m *Map) Flags() []int       { return m.flags }
func (m *Map) Wrap() (bool, bool) { return m.hwrap, m.vwrap }

// IsOverpass reports bridge cells.
func (m *Map) IsOverpass(mx, my int) bool {
	mx, my = m.TileGrid.Wrap(mx, my, m.hwrap, m.vwrap)
	if mx < 0 || mx >= m.W || my < 0 || my >= m.H {
		return false
	}
	return m.overpass[my*m.W+mx]
}

// MarkOverpass flags (x, y) as a bridge cell.
func (m *Map) MarkOverpass(x, y int) {
	if x >= 0 && x < m.W && y >= 0 && y < m.H {
		m.overpass[y*m.W+x] = true
	}
}

// At reads (x, y, z) without wrapping.
func (m *Map) At(x, y, z int) int { return m.Read(x, y, z, false, false) }

// Fill sets every cell of plane z inside the rectangle to id.
func (m *Map) Fill(x0, y0, x1, y1, z, id int) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			m.Set(x, y, z, id)
		}
	}
}

// SetFlag ORs bits into the flags of id.
func (m *Map) SetFlag(id, bits int) {
	if id >= 0 && id < len(m.flags) {
		m.flags[id] |= bits
	}
}

// SetKindFlag ORs bits into every shape of autotile kind.
func (m *Map) SetKindFlag(kind, bits int) {
	for shape := 0; shape < tile.ShapesPerKind; shape++ {
		m.SetFlag(tile.MakeAutotileID(kind, shape), bits)
	}
}

// Autotile reshapes every autotile on plane z to match its neighbours of the
// same kind. Cells beyond a non-looping edge count as the same kind.
func (m *Map) Autotile(z int) {
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			id := m.At(x, y, z)
			if !tile.IsAutotile(id) {
				continue
			}
			m.Set(x, y, z, tile.MakeAutotileID(tile.AutotileKind(id), m.shapeAt(x, y, z, id)))
		}
	}
}

func (m *Map) shapeAt(x, y, z, id int) int {
	same := func(dx, dy int) bool {
		nx, ny := m.TileGrid.Wrap(x+dx, y+dy, m.hwrap, m.vwrap)
		if nx < 0 || nx >= m.W || ny < 0 || ny >= m.H {
			return true
		}
		return tile.IsSameKind(id, m.At(nx, ny, z))
	}
	switch {
	case tile.IsWaterfallTypeAutotile(id):
		return tile.WaterfallShape(same)
	case tile.IsWallTypeAutotile(id):
		return tile.WallShape(same)
	default:
		return tile.FloorShape(same)
	}
}

// Kind returns the first tile ID of autotile kind.
func Kind(kind int) int { return tile.MakeAutotileID(kind, 0) }

// Autotile kinds used by the samples.
const (
	KindWater     = 0
	KindDeepWater = 1
	KindWaterfall = 5
	KindGrass     = 16
	KindRoad      = 20
	KindCounter   = 30
	KindRoof      = 48
	KindRoofAlt   = 49
	KindHouseWall = 56
	KindCliffTop  = 80
	KindCliffSide = 88
)

// Shadow bits for the four quadrants of a cell.
const (
	ShadowTopLeft     = 1
	ShadowTopRight    = 2
	ShadowBottomLeft  = 4
	ShadowBottomRight = 8
	ShadowWest        = ShadowTopLeft | ShadowBottomLeft
)
