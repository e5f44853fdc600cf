package core

// Planes is the number of data planes per map cell: four tile layers, the
// shadow mask and the region plane.
const Planes = 6

// Plane indices into a TileGrid.
const (
	PlaneShadow = 4
	PlaneRegion = 5
)

// TileGrid stores map data as Planes stacked W×H planes in [z][y][x] order.
type TileGrid struct {
	W, H int
	data []int
}

// NewTileGrid wraps existing map data. The slice is not copied and may be
// shorter than W*H*Planes; missing entries read as 0.
func NewTileGrid(w, h int, data []int) *TileGrid {
	return &TileGrid{W: w, H: h, data: data}
}

// NewBlankTileGrid allocates an all-zero grid with the given dimensions.
func NewBlankTileGrid(w, h int) *TileGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &TileGrid{W: w, H: h, data: make([]int, w*h*Planes)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *TileGrid) Cells() []int { return g.data }

// Index returns the linear slice index for coordinates (x, y, z).
func (g *TileGrid) Index(x, y, z int) int { return (z*g.H+y)*g.W + x }

// Wrap applies toroidal wrapping on the enabled axes.
func (g *TileGrid) Wrap(x, y int, hwrap, vwrap bool) (int, int) {
	if hwrap && g.W > 0 {
		x = (x%g.W + g.W) % g.W
	}
	if vwrap && g.H > 0 {
		y = (y%g.H + g.H) % g.H
	}
	return x, y
}

// Read returns the value at (x, y, z) after wrapping. Coordinates outside the
// map, indices past the end of the data and a nil grid all read as 0.
func (g *TileGrid) Read(x, y, z int, hwrap, vwrap bool) int {
	if g == nil || g.W <= 0 || g.H <= 0 {
		return 0
	}
	x, y = g.Wrap(x, y, hwrap, vwrap)
	if x < 0 || x >= g.W || y < 0 || y >= g.H || z < 0 {
		return 0
	}
	i := g.Index(x, y, z)
	if i >= len(g.data) {
		return 0
	}
	return g.data[i]
}

// Set stores v at (x, y, z) and reports whether the cell exists.
func (g *TileGrid) Set(x, y, z, v int) bool {
	if x < 0 || x >= g.W || y < 0 || y >= g.H || z < 0 {
		return false
	}
	i := g.Index(x, y, z)
	if i >= len(g.data) {
		return false
	}
	g.data[i] = v
	return true
}

// Clear fills the grid with zeros.
func (g *TileGrid) Clear() {
	for i := range g.data {
		g.data[i] = 0
	}
}
