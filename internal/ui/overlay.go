//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"rmmv-tiles/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Overlay draws optional debugging visuals on top of the map: the tile grid,
// layer 0 categories, higher tiles and regions.
type Overlay struct {
	view MapView

	showGrid     bool
	showCategory bool
	showHigher   bool
	showRegion   bool

	maskImg *ebiten.Image
	pixel   *ebiten.Image
}

// NewOverlay constructs an overlay for view.
func NewOverlay(view MapView) *Overlay {
	o := &Overlay{view: view}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles the layers with keys 1 to 4.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showGrid = !o.showGrid
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showCategory = !o.showCategory
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showHigher = !o.showHigher
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit4) {
		o.showRegion = !o.showRegion
	}
}

// Draw renders the enabled visuals over a viewW×viewH map view.
func (o *Overlay) Draw(screen *ebiten.Image, viewW, viewH int) {
	w, ok := viewWindow(o.view, viewW, viewH)
	if !ok {
		return
	}
	if o.showCategory {
		o.drawCells(screen, w, categoryPixels(o.view, w, 0, 110))
	}
	if o.showRegion {
		o.drawCells(screen, w, regionPixels(o.view, w, 120))
	}
	if o.showHigher {
		img := render.MaskRGBA(higherMask(o.view, w), w.Cols, w.Rows,
			color.RGBA{R: 140, G: 66, B: 22, A: 140}, color.RGBA{})
		o.drawCells(screen, w, img.Pix)
	}
	if o.showGrid {
		o.drawGrid(screen, w, viewW, viewH)
	}
}

// drawCells stretches one pixel per map cell over the view.
func (o *Overlay) drawCells(screen *ebiten.Image, w window, pix []byte) {
	if o.maskImg == nil || o.maskImg.Bounds().Dx() != w.Cols || o.maskImg.Bounds().Dy() != w.Rows {
		o.maskImg = ebiten.NewImage(w.Cols, w.Rows)
	}
	o.maskImg.WritePixels(pix)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(o.view.TileWidth()), float64(o.view.TileHeight()))
	op.GeoM.Translate(w.OffX, w.OffY)
	screen.DrawImage(o.maskImg, op)
}

func (o *Overlay) drawGrid(screen *ebiten.Image, w window, viewW, viewH int) {
	col := color.RGBA{R: 255, G: 255, B: 255, A: 60}
	tw, th := float64(o.view.TileWidth()), float64(o.view.TileHeight())
	for i := 0; i <= w.Cols; i++ {
		x := math.Round(w.OffX + float64(i)*tw)
		o.drawLine(screen, x, 0, x, float64(viewH), 1, col)
	}
	for j := 0; j <= w.Rows; j++ {
		y := math.Round(w.OffY + float64(j)*th)
		o.drawLine(screen, 0, y, float64(viewW), y, 1, col)
	}
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if o.pixel == nil || thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorM.Scale(float64(col.R)/255.0, float64(col.G)/255.0, float64(col.B)/255.0, float64(col.A)/255.0)
	screen.DrawImage(o.pixel, op)
}
