// Package tilemap paints RPG Maker MV map data into nine primitive layers:
// four lower layers, a shadow layer and four upper layers. Scrolling only
// triggers a repaint when the tile-aligned window moves.
package tilemap

import "image"

// Bitmap is one tileset page. Pages are indexed by set number: A1-A5 are
// 0-4 and B-E are 5-8.
type Bitmap interface {
	Bounds() image.Rectangle
}

// ShadowSet is the set number of flat shadow quads. They sample no tileset.
const ShadowSet = -1

// TileOptions describes the source rectangle of one primitive. AnimX and
// AnimY scale the layer's tile animation offset for autotiles that flow.
type TileOptions struct {
	U, V       float64
	TileWidth  float64
	TileHeight float64
	AnimX      int
	AnimY      int
}

// Layer is a drawing surface that accumulates tile primitives.
type Layer interface {
	Clear()
	Tile(set int, dx, dy float64, opts TileOptions)
	SetTileset(bitmaps []Bitmap)
	SetTileAnim(x, y float64)
	SetPosition(x, y float64)
}

// LayerFactory builds a layer carrying the given identifier.
type LayerFactory func(id uint64) Layer

// Renderer is what a Tilemap needs from the concrete painter.
type Renderer interface {
	CreateLayers()
	RebindTileset()
	Repaint(force bool)
	UpdateTileAnim(x, y float64)
}

type discardLayer struct{}

func (discardLayer) Clear()                                  {}
func (discardLayer) Tile(int, float64, float64, TileOptions) {}
func (discardLayer) SetTileset([]Bitmap)                     {}
func (discardLayer) SetTileAnim(float64, float64)            {}
func (discardLayer) SetPosition(float64, float64)            {}
