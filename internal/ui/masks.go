package ui

import (
	"image/color"
	"math"

	"rmmv-tiles/internal/core"
	"rmmv-tiles/internal/render"
	"rmmv-tiles/internal/tile"
)

// MapView is the read side of a tilemap the overlay samples.
type MapView interface {
	TileWidth() int
	TileHeight() int
	ScrollOrigin() (x, y float64)
	ReadMapData(x, y, z int) int
	IsHigherTile(id int) bool
	IsOverpassPosition(mx, my int) bool
}

// window is the block of map cells overlapping a view, and the screen offset
// of its top-left cell.
type window struct {
	X, Y       int
	Cols, Rows int
	OffX, OffY float64
}

func viewWindow(v MapView, viewW, viewH int) (window, bool) {
	tw, th := v.TileWidth(), v.TileHeight()
	if tw <= 0 || th <= 0 || viewW <= 0 || viewH <= 0 {
		return window{}, false
	}
	ox, oy := v.ScrollOrigin()
	x0 := int(math.Floor(ox / float64(tw)))
	y0 := int(math.Floor(oy / float64(th)))
	return window{
		X:    x0,
		Y:    y0,
		Cols: (viewW+tw-1)/tw + 1,
		Rows: (viewH+th-1)/th + 1,
		OffX: float64(x0*tw) - ox,
		OffY: float64(y0*th) - oy,
	}, true
}

// higherMask marks cells that draw above characters: a higher tile on any
// tile layer, or a bridge cell with something on layer 2 or 3.
func higherMask(v MapView, w window) []uint8 {
	mask := make([]uint8, w.Cols*w.Rows)
	for y := 0; y < w.Rows; y++ {
		for x := 0; x < w.Cols; x++ {
			mx, my := w.X+x, w.Y+y
			for z := 0; z < 4; z++ {
				id := v.ReadMapData(mx, my, z)
				if v.IsHigherTile(id) || z >= 2 && id > 0 && v.IsOverpassPosition(mx, my) {
					mask[y*w.Cols+x] = 1
					break
				}
			}
		}
	}
	return mask
}

// categoryPixels fills an RGBA buffer with the category colour of layer z at
// the given alpha. Empty cells stay transparent.
func categoryPixels(v MapView, w window, z int, alpha uint8) []byte {
	buf := make([]byte, 4*w.Cols*w.Rows)
	for i := 0; i < w.Cols*w.Rows; i++ {
		id := v.ReadMapData(w.X+i%w.Cols, w.Y+i/w.Cols, z)
		c := render.CategoryColor(tile.CategoryOf(id))
		if c.A == 0 {
			continue
		}
		putPremultiplied(buf[4*i:], c, alpha)
	}
	return buf
}

// regionPixels colours every non-zero region ID with a stable hue.
func regionPixels(v MapView, w window, alpha uint8) []byte {
	buf := make([]byte, 4*w.Cols*w.Rows)
	for i := 0; i < w.Cols*w.Rows; i++ {
		region := v.ReadMapData(w.X+i%w.Cols, w.Y+i/w.Cols, core.PlaneRegion)
		if region <= 0 {
			continue
		}
		c := regionColor(region)
		putPremultiplied(buf[4*i:], c, alpha)
	}
	return buf
}

// putPremultiplied writes c at alpha in the premultiplied form ebiten
// expects.
func putPremultiplied(px []byte, c color.RGBA, alpha uint8) {
	a := uint16(alpha)
	px[0] = uint8(uint16(c.R) * a / 255)
	px[1] = uint8(uint16(c.G) * a / 255)
	px[2] = uint8(uint16(c.B) * a / 255)
	px[3] = alpha
}

// regionColor spreads region IDs around the hue circle by the golden angle.
func regionColor(region int) color.RGBA {
	h := math.Mod(float64(region)*137.508, 360) / 60
	x := uint8(math.Round(255 * (1 - math.Abs(math.Mod(h, 2)-1))))
	switch int(h) {
	case 0:
		return color.RGBA{R: 255, G: x, A: 255}
	case 1:
		return color.RGBA{R: x, G: 255, A: 255}
	case 2:
		return color.RGBA{G: 255, B: x, A: 255}
	case 3:
		return color.RGBA{G: x, B: 255, A: 255}
	case 4:
		return color.RGBA{R: x, B: 255, A: 255}
	default:
		return color.RGBA{R: 255, B: x, A: 255}
	}
}
