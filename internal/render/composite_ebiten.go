//go:build ebiten

package render

import (
	"image"
	"image/color"

	"rmmv-tiles/internal/tilemap"

	"github.com/hajimehoshi/ebiten/v2"
)

// shadowAlpha is the opacity of a shadow quadrant.
const shadowAlpha = 0.5

var blendMultiply = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
	BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
	BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
	BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

// Compositor blits Composite layers onto an ebiten image.
type Compositor struct {
	cache *SubImageCache[*ebiten.Image]
	pixel *ebiten.Image

	// Drawn counts the primitives blitted by the last Draw.
	Drawn int
}

// NewCompositor returns a compositor sharing cache between layers. A nil
// cache slices the tileset on every draw.
func NewCompositor(cache *SubImageCache[*ebiten.Image]) *Compositor {
	pixel := ebiten.NewImage(1, 1)
	pixel.Fill(color.White)
	return &Compositor{cache: cache, pixel: pixel}
}

// Draw blits layers in order. geo is applied after each layer's position.
func (k *Compositor) Draw(dst *ebiten.Image, layers []*Composite, geo ebiten.GeoM) {
	k.Drawn = 0
	for _, c := range layers {
		k.drawLayer(dst, c, geo)
	}
}

func (k *Compositor) drawLayer(dst *ebiten.Image, c *Composite, geo ebiten.GeoM) {
	lx, ly := c.Position()
	if k.cache != nil && len(c.Tileset()) > 0 {
		k.cache.Bind(c.Tileset())
	}
	for _, p := range c.Primitives() {
		op := &ebiten.DrawImageOptions{}
		if p.Set == tilemap.ShadowSet {
			op.GeoM.Scale(p.TileWidth, p.TileHeight)
			op.GeoM.Translate(lx+p.DX, ly+p.DY)
			op.GeoM.Concat(geo)
			op.ColorM.Scale(0, 0, 0, shadowAlpha)
			dst.DrawImage(k.pixel, op)
			k.Drawn++
			continue
		}
		page, ok := c.Bitmap(p.Set).(*ebiten.Image)
		if !ok || page == nil {
			continue
		}
		src := c.SourceRect(p)
		build := func() *ebiten.Image { return page.SubImage(src).(*ebiten.Image) }
		var sub *ebiten.Image
		if k.cache != nil {
			sub = k.cache.Get(SubImageKey{Set: p.Set, X: src.Min.X, Y: src.Min.Y, W: src.Dx(), H: src.Dy()}, build)
		} else {
			sub = build()
		}
		op.GeoM.Translate(lx+p.DX, ly+p.DY)
		op.GeoM.Concat(geo)
		dst.DrawImage(sub, op)
		k.Drawn++
	}
}

// DrawScreen fills dst with the overlay colour at the sprite's opacity.
func (k *Compositor) DrawScreen(dst *ebiten.Image, s *ScreenSprite) {
	if s == nil || s.Opacity() <= 0 {
		return
	}
	r := s.Rect()
	c := s.Color()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(r.Dx()), float64(r.Dy()))
	op.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
	op.ColorM.Scale(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, s.Alpha())
	switch s.BlendMode() {
	case BlendAdd:
		op.Blend = ebiten.BlendLighter
	case BlendMultiply:
		op.Blend = blendMultiply
	}
	dst.DrawImage(k.pixel, op)
}

// EbitenPages converts decoded tileset pages into ebiten images. Missing
// pages stay nil.
func EbitenPages(pages []tilemap.Bitmap) []tilemap.Bitmap {
	out := make([]tilemap.Bitmap, len(pages))
	for i, p := range pages {
		switch v := p.(type) {
		case *ebiten.Image:
			out[i] = v
		case image.Image:
			out[i] = ebiten.NewImageFromImage(v)
		}
	}
	return out
}
