package render

import (
	"image"
	"math"

	"rmmv-tiles/internal/tilemap"
)

// Primitive is one textured (or, for the shadow set, flat) rectangle queued
// on a Composite.
type Primitive struct {
	Set    int
	DX, DY float64
	tilemap.TileOptions
}

// Composite is a CPU-side tilemap layer: it records primitives between
// repaints and remembers the tileset, animation offset and position the
// backend needs to draw them.
type Composite struct {
	id      uint64
	prims   []Primitive
	tileset []tilemap.Bitmap
	animX   float64
	animY   float64
	x, y    float64
}

// NewComposite returns an empty layer with the given identifier.
func NewComposite(id uint64) *Composite {
	return &Composite{id: id}
}

// NewLayer adapts NewComposite to tilemap.LayerFactory.
func NewLayer(id uint64) tilemap.Layer { return NewComposite(id) }

func (c *Composite) ID() uint64 { return c.id }

// Clear drops every primitive but keeps the backing storage.
func (c *Composite) Clear() { c.prims = c.prims[:0] }

// Tile queues a primitive.
func (c *Composite) Tile(set int, dx, dy float64, opts tilemap.TileOptions) {
	c.prims = append(c.prims, Primitive{Set: set, DX: dx, DY: dy, TileOptions: opts})
}

func (c *Composite) SetTileset(bitmaps []tilemap.Bitmap) { c.tileset = bitmaps }
func (c *Composite) SetTileAnim(x, y float64)            { c.animX, c.animY = x, y }
func (c *Composite) SetPosition(x, y float64)            { c.x, c.y = x, y }

func (c *Composite) Position() (x, y float64)  { return c.x, c.y }
func (c *Composite) TileAnim() (x, y float64)  { return c.animX, c.animY }
func (c *Composite) Primitives() []Primitive   { return c.prims }
func (c *Composite) Len() int                  { return len(c.prims) }
func (c *Composite) Tileset() []tilemap.Bitmap { return c.tileset }

// Bitmap returns tileset page set, or nil when the page is missing.
func (c *Composite) Bitmap(set int) tilemap.Bitmap {
	if set < 0 || set >= len(c.tileset) {
		return nil
	}
	return c.tileset[set]
}

// SourceRect returns the texel rectangle p samples, shifted by the layer's
// animation offset scaled by the primitive's AnimX and AnimY.
func (c *Composite) SourceRect(p Primitive) image.Rectangle {
	u := p.U + c.animX*float64(p.AnimX)
	v := p.V + c.animY*float64(p.AnimY)
	x0 := int(math.Round(u))
	y0 := int(math.Round(v))
	return image.Rect(x0, y0, x0+int(math.Round(p.TileWidth)), y0+int(math.Round(p.TileHeight)))
}

// DestRect returns where p lands in screen space.
func (c *Composite) DestRect(p Primitive) image.Rectangle {
	x0 := int(math.Floor(c.x + p.DX))
	y0 := int(math.Floor(c.y + p.DY))
	return image.Rect(x0, y0, x0+int(math.Round(p.TileWidth)), y0+int(math.Round(p.TileHeight)))
}

// Composites extracts the Composite layers from ls, skipping other layer
// implementations.
func Composites(ls []tilemap.Layer) []*Composite {
	out := make([]*Composite, 0, len(ls))
	for _, l := range ls {
		if c, ok := l.(*Composite); ok {
			out = append(out, c)
		}
	}
	return out
}
