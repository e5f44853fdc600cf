package tilemap

import (
	"math"

	"rmmv-tiles/internal/core"
	"rmmv-tiles/internal/tile"

	"github.com/sirupsen/logrus"
)

// Options configures a ShaderTilemap. Zero values select the defaults.
type Options struct {
	// PaintAll paints the whole map once instead of a scroll window. It
	// suits maps small enough that culling buys nothing.
	PaintAll     bool
	ScreenWidth  int
	ScreenHeight int
	Margin       int
	TileWidth    int
	TileHeight   int

	NewLayer LayerFactory
	IDs      *core.IDAllocator
	Logger   logrus.FieldLogger
}

// Stats counts painter work.
type Stats struct {
	Repaints        int // full layer rebuilds
	Skipped         int // Repaint calls that left the layers untouched
	TilesetBinds    int
	Cells           int // cells visited by the last rebuild
	Primitives      int // primitives emitted by the last rebuild
	TotalPrimitives int
	StartX, StartY  int
}

// ShaderTilemap rebuilds its layers from scratch whenever the tile-aligned
// scroll window moves, then lets the layers scroll by sub-tile offsets.
type ShaderTilemap struct {
	*Tilemap

	// RoundPixels floors the scroll origin before use.
	RoundPixels bool

	paintAll bool
	lower    [4]Layer
	upper    [4]Layer
	shadow   Layer

	lastBitmapLength int
	lastStartX       int
	lastStartY       int
	painted          bool

	pieces []tile.Piece
	stats  Stats
}

// NewShaderTilemap builds the nine layers and performs the first repaint.
func NewShaderTilemap(opts Options) *ShaderTilemap {
	if opts.ScreenWidth <= 0 {
		opts.ScreenWidth = DefaultScreenWidth
	}
	if opts.ScreenHeight <= 0 {
		opts.ScreenHeight = DefaultScreenHeight
	}
	if opts.Margin <= 0 {
		opts.Margin = DefaultMargin
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.IDs == nil {
		opts.IDs = &core.IDAllocator{}
	}
	newLayer := opts.NewLayer
	if newLayer == nil {
		newLayer = func(uint64) Layer { return discardLayer{} }
	}

	s := &ShaderTilemap{paintAll: opts.PaintAll, lastBitmapLength: -1}
	s.Tilemap = newTilemap(s, opts.Logger, opts.ScreenWidth, opts.ScreenHeight, opts.Margin)
	if opts.TileWidth > 0 {
		s.tileWidth = opts.TileWidth
	}
	if opts.TileHeight > 0 {
		s.tileHeight = opts.TileHeight
	}

	for i := range s.lower {
		s.lower[i] = newLayer(opts.IDs.Next())
	}
	s.shadow = newLayer(opts.IDs.Next())
	for i := range s.upper {
		s.upper[i] = newLayer(opts.IDs.Next())
	}

	s.CreateLayers()
	s.Refresh()
	return s
}

// PaintAll reports whether the tilemap paints the whole map.
func (s *ShaderTilemap) PaintAll() bool { return s.paintAll }

// Layers returns every layer in draw order: lower 0-1, shadow, lower 2-3,
// upper 0-3.
func (s *ShaderTilemap) Layers() []Layer {
	return []Layer{
		s.lower[0], s.lower[1], s.shadow, s.lower[2], s.lower[3],
		s.upper[0], s.upper[1], s.upper[2], s.upper[3],
	}
}

func (s *ShaderTilemap) LowerLayer(i int) Layer { return s.lower[i] }
func (s *ShaderTilemap) UpperLayer(i int) Layer { return s.upper[i] }
func (s *ShaderTilemap) ShadowLayer() Layer     { return s.shadow }

// Stats returns the painter counters.
func (s *ShaderTilemap) Stats() Stats { return s.stats }

// Refresh rebinds the tileset when the number of bitmaps changed, then forces
// a repaint. Swapping pages without changing their count needs an explicit
// RebindTileset.
func (s *ShaderTilemap) Refresh() {
	if s.lastBitmapLength != len(s.Bitmaps) {
		s.lastBitmapLength = len(s.Bitmaps)
		s.updateBitmaps()
	}
	s.Repaint(true)
}

// RebindTileset pushes the current bitmaps to every layer and repaints.
// Sub-images cached by set number go stale; render.Compositor drops them when
// it sees different pages.
func (s *ShaderTilemap) RebindTileset() {
	s.lastBitmapLength = len(s.Bitmaps)
	s.updateBitmaps()
	s.Repaint(true)
}

func (s *ShaderTilemap) updateBitmaps() {
	for _, l := range s.lower {
		l.SetTileset(s.Bitmaps)
	}
	for _, l := range s.upper {
		l.SetTileset(s.Bitmaps)
	}
	s.stats.TilesetBinds++
	s.log.WithField("bitmaps", len(s.Bitmaps)).Debug("tileset bound")
}

// CreateLayers is called by the geometry setters. The layers outlive
// geometry changes, so this only forces a repaint.
func (s *ShaderTilemap) CreateLayers() {
	s.log.WithFields(logrus.Fields{
		"width":      s.width,
		"height":     s.height,
		"tileWidth":  s.tileWidth,
		"tileHeight": s.tileHeight,
	}).Debug("layers reset")
	s.Repaint(true)
}

// UpdateTileAnim sets the animation offset on the lower and upper layers.
func (s *ShaderTilemap) UpdateTileAnim(x, y float64) {
	for _, l := range s.lower {
		l.SetTileAnim(x, y)
	}
	for _, l := range s.upper {
		l.SetTileAnim(x, y)
	}
}

func (s *ShaderTilemap) origin() (float64, float64) {
	if s.RoundPixels {
		return math.Floor(s.originX), math.Floor(s.originY)
	}
	return s.originX, s.originY
}

// Repaint repositions the layers and rebuilds them when forced, on the first
// call, or when the tile-aligned window moved.
func (s *ShaderTilemap) Repaint(force bool) {
	if s.paintAll {
		s.updateLayerPositions(0, 0)
		if force {
			s.paintAllTiles(0, 0)
		} else {
			s.stats.Skipped++
		}
		return
	}
	if s.tileWidth <= 0 || s.tileHeight <= 0 {
		s.clearLayers()
		s.painted = false
		return
	}

	ox, oy := s.origin()
	startX := int(math.Floor((ox - float64(s.margin)) / float64(s.tileWidth)))
	startY := int(math.Floor((oy - float64(s.margin)) / float64(s.tileHeight)))

	s.updateLayerPositions(startX, startY)
	if force || !s.painted || s.lastStartX != startX || s.lastStartY != startY {
		s.lastStartX = startX
		s.lastStartY = startY
		s.painted = true
		s.paintAllTiles(startX, startY)
		return
	}
	s.stats.Skipped++
}

func (s *ShaderTilemap) updateLayerPositions(startX, startY int) {
	ox, oy := s.origin()
	x := float64(startX*s.tileWidth) - ox
	y := float64(startY*s.tileHeight) - oy
	for _, l := range s.lower {
		l.SetPosition(x, y)
	}
	for _, l := range s.upper {
		l.SetPosition(x, y)
	}
	s.shadow.SetPosition(x, y)
}

func (s *ShaderTilemap) clearLayers() {
	for _, l := range s.lower {
		l.Clear()
	}
	for _, l := range s.upper {
		l.Clear()
	}
	s.shadow.Clear()
}

func (s *ShaderTilemap) paintAllTiles(startX, startY int) {
	s.clearLayers()
	s.stats.Primitives = 0
	s.stats.Cells = 0
	s.stats.StartX, s.stats.StartY = startX, startY

	if s.paintAll {
		for y := 0; y < s.MapHeight(); y++ {
			for x := 0; x < s.MapWidth(); x++ {
				s.paintTiles(0, 0, x, y)
			}
		}
	} else {
		cols := ceilDiv(s.width, s.tileWidth) + 1
		rows := ceilDiv(s.height, s.tileHeight) + 1
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				s.paintTiles(startX, startY, x, y)
			}
		}
	}
	s.stats.Repaints++
	s.log.WithFields(logrus.Fields{
		"startX":     startX,
		"startY":     startY,
		"cells":      s.stats.Cells,
		"primitives": s.stats.Primitives,
	}).Debug("tilemap repainted")
}

func (s *ShaderTilemap) paintTiles(startX, startY, x, y int) {
	mx := startX + x
	my := startY + y
	dx := float64(x * s.tileWidth)
	dy := float64(y * s.tileHeight)
	tileID0 := s.ReadMapData(mx, my, 0)
	tileID1 := s.ReadMapData(mx, my, 1)
	tileID2 := s.ReadMapData(mx, my, 2)
	tileID3 := s.ReadMapData(mx, my, 3)
	shadowBits := s.ReadMapData(mx, my, core.PlaneShadow)
	upperTileID1 := s.ReadMapData(mx, my-1, 1)
	s.stats.Cells++

	s.drawTile(s.pick(0, tileID0), tileID0, dx, dy)
	s.drawTile(s.pick(1, tileID1), tileID1, dx, dy)

	s.drawShadow(shadowBits, dx, dy)
	if s.IsTableTile(upperTileID1) && !s.IsTableTile(tileID1) {
		if !tile.IsShadowing(tileID0) {
			s.drawTableEdge(s.lower[2], upperTileID1, dx, dy)
		}
	}

	if s.IsOverpassPosition(mx, my) {
		s.drawTile(s.upper[2], tileID2, dx, dy)
		s.drawTile(s.upper[3], tileID3, dx, dy)
	} else {
		s.drawTile(s.pick(2, tileID2), tileID2, dx, dy)
		s.drawTile(s.pick(3, tileID3), tileID3, dx, dy)
	}
}

// pick routes a tile to the upper or lower layer of index i.
func (s *ShaderTilemap) pick(i, id int) Layer {
	if s.IsHigherTile(id) {
		return s.upper[i]
	}
	return s.lower[i]
}

func (s *ShaderTilemap) emit(l Layer, set int, dx, dy float64, opts TileOptions) {
	l.Tile(set, dx, dy, opts)
	s.stats.Primitives++
	s.stats.TotalPrimitives++
}

func (s *ShaderTilemap) drawTile(l Layer, id int, dx, dy float64) {
	if !tile.IsVisible(id) {
		return
	}
	if tile.IsAutotile(id) {
		s.drawAutotile(l, id, dx, dy)
	} else {
		s.drawNormalTile(l, id, dx, dy)
	}
}

func (s *ShaderTilemap) drawNormalTile(l Layer, id int, dx, dy float64) {
	w := float64(s.tileWidth)
	h := float64(s.tileHeight)
	set, u, v := tile.NormalSource(id, w, h)
	s.emit(l, set, dx, dy, TileOptions{U: u, V: v, TileWidth: w, TileHeight: h})
}

func (s *ShaderTilemap) drawAutotile(l Layer, id int, dx, dy float64) {
	a, ok := tile.ResolveAutotile(id, s.Flags)
	if !ok {
		return
	}
	s.pieces = a.Pieces(float64(s.tileWidth), float64(s.tileHeight), s.pieces[:0])
	for _, p := range s.pieces {
		s.emit(l, a.SetNumber, dx+p.DX, dy+p.DY, TileOptions{
			U:          p.U,
			V:          p.V,
			TileWidth:  p.W,
			TileHeight: p.H,
			AnimX:      a.AnimX,
			AnimY:      a.AnimY,
		})
	}
}

func (s *ShaderTilemap) drawTableEdge(l Layer, id int, dx, dy float64) {
	s.pieces = tile.TableEdgePieces(id, float64(s.tileWidth), float64(s.tileHeight), s.pieces[:0])
	for _, p := range s.pieces {
		s.emit(l, 1, dx+p.DX, dy+p.DY, TileOptions{U: p.U, V: p.V, TileWidth: p.W, TileHeight: p.H})
	}
}

func (s *ShaderTilemap) drawShadow(bits int, dx, dy float64) {
	if bits&0x0f == 0 {
		return
	}
	w1 := float64(s.tileWidth) / 2
	h1 := float64(s.tileHeight) / 2
	for i := 0; i < 4; i++ {
		if bits&(1<<i) == 0 {
			continue
		}
		s.emit(s.shadow, ShadowSet, dx+float64(i%2)*w1, dy+float64(i/2)*h1, TileOptions{
			TileWidth:  w1,
			TileHeight: h1,
		})
	}
}

func ceilDiv(a, b int) int {
	return int(math.Ceil(float64(a) / float64(b)))
}
