package tilemap

import (
	"math"
	"time"

	"rmmv-tiles/internal/core"
	"rmmv-tiles/internal/tile"

	"github.com/sirupsen/logrus"
)

// Geometry defaults.
const (
	DefaultMargin       = 20
	DefaultTileSize     = 48
	DefaultScreenWidth  = 816
	DefaultScreenHeight = 624
)

// Animation clock defaults: 12 frames, one step every 30 ticks at 60 TPS.
const (
	AnimationFrames   = 12
	AnimationInterval = 30 * (time.Second / 60)
)

// Tilemap holds the state shared by every renderer: screen and tile geometry,
// map data, tileset flags, scroll origin and the animation clock. Geometry
// setters and scroll changes call back into the Renderer.
type Tilemap struct {
	renderer Renderer
	log      logrus.FieldLogger

	margin     int
	tileWidth  int
	tileHeight int
	width      int
	height     int

	grid    *core.TileGrid
	originX float64
	originY float64

	// Bitmaps holds the tileset pages by set number. Refresh rebinds them
	// when the page count changes.
	Bitmaps []Bitmap
	// Flags is the tileset flag array indexed by tile ID.
	Flags tile.Flags
	// PageSource, when set, rebuilds Bitmaps for a new tile size. Pages drawn
	// from a fixed tile grid leave it nil.
	PageSource func(tileWidth, tileHeight int) []Bitmap

	HorizontalWrap bool
	VerticalWrap   bool

	// Overpass reports bridge cells whose layer 2 and 3 tiles always draw
	// in the upper layers. Nil means no cell is an overpass.
	Overpass func(mx, my int) bool

	animation      *core.Counter
	animationFrame int
}

func newTilemap(r Renderer, log logrus.FieldLogger, screenW, screenH, margin int) *Tilemap {
	return &Tilemap{
		renderer:   r,
		log:        log,
		margin:     margin,
		tileWidth:  DefaultTileSize,
		tileHeight: DefaultTileSize,
		width:      screenW + margin*2,
		height:     screenH + margin*2,
		animation:  core.NewCounter(AnimationFrames, 0, AnimationInterval),
	}
}

// Width returns the painted area width in pixels.
func (t *Tilemap) Width() int { return t.width }

// SetWidth changes the painted area width and recreates the layers.
func (t *Tilemap) SetWidth(v int) {
	if t.width != v {
		t.width = v
		t.renderer.CreateLayers()
	}
}

// Height returns the painted area height in pixels.
func (t *Tilemap) Height() int { return t.height }

// SetHeight changes the painted area height and recreates the layers.
func (t *Tilemap) SetHeight(v int) {
	if t.height != v {
		t.height = v
		t.renderer.CreateLayers()
	}
}

func (t *Tilemap) TileWidth() int  { return t.tileWidth }
func (t *Tilemap) TileHeight() int { return t.tileHeight }

// SetTileWidth changes the tile width and recreates the layers.
func (t *Tilemap) SetTileWidth(v int) {
	if t.tileWidth != v {
		t.tileWidth = v
		t.tileSizeChanged()
	}
}

// SetTileHeight changes the tile height and recreates the layers.
func (t *Tilemap) SetTileHeight(v int) {
	if t.tileHeight != v {
		t.tileHeight = v
		t.tileSizeChanged()
	}
}

func (t *Tilemap) tileSizeChanged() {
	if t.PageSource != nil {
		t.Bitmaps = t.PageSource(t.tileWidth, t.tileHeight)
		t.renderer.RebindTileset()
		return
	}
	t.renderer.CreateLayers()
}

// Margin is the off-screen border painted around the visible area.
func (t *Tilemap) Margin() int { return t.margin }

// MapWidth returns the map width in tiles.
func (t *Tilemap) MapWidth() int {
	if t.grid == nil {
		return 0
	}
	return t.grid.W
}

// MapHeight returns the map height in tiles.
func (t *Tilemap) MapHeight() int {
	if t.grid == nil {
		return 0
	}
	return t.grid.H
}

// SetData installs the flattened [z][y][x] map planes. The slice is
// retained, not copied. Call Refresh to repaint.
func (t *Tilemap) SetData(width, height int, data []int) {
	t.grid = core.NewTileGrid(width, height, data)
}

// SetSource installs map data, flags, wrap toggles and the overpass hook of
// src.
func (t *Tilemap) SetSource(src core.Source) {
	size := src.Size()
	t.SetData(size.W, size.H, src.Data())
	t.Flags = src.Flags()
	t.HorizontalWrap, t.VerticalWrap = src.Wrap()
	t.Overpass = nil
	if op, ok := src.(core.OverpassSource); ok {
		t.Overpass = op.IsOverpass
	}
	t.log.WithFields(logrus.Fields{
		"source": src.Name(),
		"width":  size.W,
		"height": size.H,
	}).Debug("map data installed")
}

// ScrollOrigin returns the current scroll position in pixels.
func (t *Tilemap) ScrollOrigin() (x, y float64) { return t.originX, t.originY }

// SetScrollOrigin moves the view. A changed origin triggers an unforced
// repaint, which only repaints when the tile-aligned window moved.
func (t *Tilemap) SetScrollOrigin(x, y float64) {
	if x == t.originX && y == t.originY {
		return
	}
	t.originX, t.originY = x, y
	t.renderer.Repaint(false)
}

// ClampOrigin keeps a view of viewW×viewH pixels inside the map on every
// axis that does not loop. Maps smaller than the view pin to 0.
func (t *Tilemap) ClampOrigin(x, y, viewW, viewH float64) (float64, float64) {
	if !t.HorizontalWrap {
		limit := float64(t.MapWidth()*t.tileWidth) - viewW
		x = math.Max(0, math.Min(x, limit))
	}
	if !t.VerticalWrap {
		limit := float64(t.MapHeight()*t.tileHeight) - viewH
		y = math.Max(0, math.Min(y, limit))
	}
	return x, y
}

// AnimationFrame returns the last sampled animation counter value.
func (t *Tilemap) AnimationFrame() int { return t.animationFrame }

// UpdateDelta advances the animation clock by dt and pushes the resulting
// tile animation offset to the renderer. Frame 3 of every 4 folds back to 1.
func (t *Tilemap) UpdateDelta(dt time.Duration) {
	t.animationFrame = t.animation.UpdateDelta(dt)
	af := t.animationFrame % 4
	if af == 3 {
		af = 1
	}
	t.renderer.UpdateTileAnim(float64(af*t.tileWidth), float64((t.animationFrame%3)*t.tileHeight))
}

// ReadMapData returns the value at (x, y, z), wrapping on the enabled axes.
// Reads outside the map return 0.
func (t *Tilemap) ReadMapData(x, y, z int) int {
	return t.grid.Read(x, y, z, t.HorizontalWrap, t.VerticalWrap)
}

// IsHigherTile reports whether id draws above characters.
func (t *Tilemap) IsHigherTile(id int) bool { return t.Flags.Higher(id) }

// IsTableTile reports whether id is an A2 table tile.
func (t *Tilemap) IsTableTile(id int) bool { return t.Flags.Table(id) }

// IsOverpassPosition reports whether (mx, my) is a bridge cell.
func (t *Tilemap) IsOverpassPosition(mx, my int) bool {
	if t.Overpass == nil {
		return false
	}
	return t.Overpass(mx, my)
}
