package render

import (
	"image"
	"image/color"

	"rmmv-tiles/internal/tile"
)

// fillBinaryRGBA converts binary cell data (0/1) into RGBA pixels in buf.
func fillBinaryRGBA(buf []byte, cells []uint8, on, off color.Color) {
	rOn, gOn, bOn, aOn := on.RGBA()
	rOff, gOff, bOff, aOff := off.RGBA()
	for i, c := range cells {
		base := i * 4
		if c != 0 {
			buf[base+0] = uint8(rOn >> 8)
			buf[base+1] = uint8(gOn >> 8)
			buf[base+2] = uint8(bOn >> 8)
			buf[base+3] = uint8(aOn >> 8)
			continue
		}
		buf[base+0] = uint8(rOff >> 8)
		buf[base+1] = uint8(gOff >> 8)
		buf[base+2] = uint8(bOff >> 8)
		buf[base+3] = uint8(aOff >> 8)
	}
}

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		for i := range cells {
			base := i * 4
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
		}
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// MaskRGBA renders a w×h binary mask, one pixel per cell.
func MaskRGBA(mask []uint8, w, h int, on, off color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if len(mask) < w*h {
		return img
	}
	fillBinaryRGBA(img.Pix, mask[:w*h], on, off)
	return img
}

// SheetTiles returns the page size of tileset set in tiles.
func SheetTiles(set int) (cols, rows int) {
	switch set {
	case 0, 1:
		return 16, 12
	case 2:
		return 16, 8
	case 3:
		return 16, 15
	case 4:
		return 8, 16
	default:
		return 16, 16
	}
}

// Palette slots used by SyntheticSheet.
const (
	sheetClear = iota
	sheetBase
	sheetLight
	sheetEdge
)

// categoryBase colours the synthetic sheet of each page.
var categoryBase = map[tile.Category]color.RGBA{
	tile.CategoryA1: {R: 48, G: 96, B: 200, A: 255},
	tile.CategoryA2: {R: 80, G: 160, B: 72, A: 255},
	tile.CategoryA3: {R: 168, G: 72, B: 56, A: 255},
	tile.CategoryA4: {R: 136, G: 120, B: 104, A: 255},
	tile.CategoryA5: {R: 176, G: 160, B: 96, A: 255},
	tile.CategoryB:  {R: 120, G: 88, B: 56, A: 255},
	tile.CategoryC:  {R: 152, G: 104, B: 168, A: 255},
	tile.CategoryD:  {R: 96, G: 152, B: 160, A: 255},
	tile.CategoryE:  {R: 200, G: 184, B: 88, A: 255},
}

// SetCategory maps a tileset set number to the category of IDs drawn from it.
func SetCategory(set int) tile.Category {
	switch set {
	case 0:
		return tile.CategoryA1
	case 1:
		return tile.CategoryA2
	case 2:
		return tile.CategoryA3
	case 3:
		return tile.CategoryA4
	case 4:
		return tile.CategoryA5
	case 5:
		return tile.CategoryB
	case 6:
		return tile.CategoryC
	case 7:
		return tile.CategoryD
	case 8:
		return tile.CategoryE
	default:
		return tile.CategoryInvalid
	}
}

// CategoryColor returns the base colour used for a category, or transparent
// black for categories without a page.
func CategoryColor(c tile.Category) color.RGBA {
	return categoryBase[c]
}

// SyntheticSheet draws a placeholder page for tileset set: every half tile is
// outlined and checkered so quadrant composition stays visible, and each
// 48px column band is shaded differently so animation offsets show.
func SyntheticSheet(set, tileWidth, tileHeight int) *image.RGBA {
	cols, rows := SheetTiles(set)
	w, h := cols*tileWidth, rows*tileHeight
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if tileWidth < 2 || tileHeight < 2 {
		return img
	}
	base := CategoryColor(SetCategory(set))
	palette := []color.RGBA{
		sheetClear: {},
		sheetBase:  base,
		sheetLight: lighten(base, 40),
		sheetEdge:  lighten(base, -60),
	}
	hw, hh := tileWidth/2, tileHeight/2
	cells := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			qx, qy := x/hw, y/hh
			switch {
			case x%hw == 0 || y%hh == 0:
				cells[y*w+x] = sheetEdge
			case (qx+qy+x/tileWidth)%2 == 0:
				cells[y*w+x] = sheetBase
			default:
				cells[y*w+x] = sheetLight
			}
		}
	}
	fillPaletteRGBA(img.Pix, cells, palette)
	return img
}

func lighten(c color.RGBA, d int) color.RGBA {
	clamp := func(v int) uint8 {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return uint8(v)
	}
	return color.RGBA{R: clamp(int(c.R) + d), G: clamp(int(c.G) + d), B: clamp(int(c.B) + d), A: c.A}
}
