//go:build ebiten

package ui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the parameter panel to the right of the map view.
type HUD struct {
	subject Subject
	width   int
	panel   *ebiten.Image
	title   string
	ctl     *controls
	info    []string

	panelOffsetX int
	pixel        *ebiten.Image
}

// NewHUD constructs a HUD for subject and panel width.
func NewHUD(subject Subject, width int) *HUD {
	width = max(width, 0)
	h := &HUD{subject: subject, width: width, title: title(subject), ctl: newControls(subject)}
	if width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	h.ctl.layout(width)
	return h
}

// Width is the panel width in pixels.
func (h *HUD) Width() int { return h.width }

// Update refreshes the parameter snapshot and handles clicks on the panel.
// It reports whether a parameter changed.
func (h *HUD) Update(panelOffsetX int) bool {
	if h == nil || h.subject == nil {
		return false
	}
	h.panelOffsetX = panelOffsetX
	snap := h.subject.Parameters()
	h.ctl.refresh(snap)
	h.info = infoLines(snap, h.ctl.states)

	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return false
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return false
	}
	return h.ctl.click(mx-h.panelOffsetX, my)
}

// Draw paints the panel at offsetX with the given height.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dx() != h.width || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawControls()
	h.drawInfo()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawControls() {
	face := basicfont.Face7x13
	text.Draw(h.panel, h.title, face, panelPadding, panelPadding+headerBaseline, color.RGBA{R: 200, G: 200, B: 210, A: 255})
	for i := range h.ctl.states {
		state := &h.ctl.states[i]
		labelY := state.top + labelBaseline
		text.Draw(h.panel, state.control.Label, face, panelPadding, labelY, color.RGBA{R: 220, G: 220, B: 230, A: 255})

		valueColor := color.RGBA{R: 220, G: 220, B: 230, A: 255}
		if !state.hasValue {
			valueColor = color.RGBA{R: 160, G: 160, B: 170, A: 255}
		}
		left := state.plusRect.Min.X
		if !state.minusRect.Empty() {
			left = state.minusRect.Min.X
		}
		valueX := left - buttonGap - text.BoundString(face, state.value).Dx()
		text.Draw(h.panel, state.value, face, valueX, labelY, valueColor)

		if !state.minusRect.Empty() {
			h.drawButton(state.minusRect, "-", h.ctl.canAdjust(state, -1))
		}
		label := "+"
		if state.minusRect.Empty() {
			label = "*"
		}
		h.drawButton(state.plusRect, label, h.ctl.canAdjust(state, 1))
	}
}

func (h *HUD) drawInfo() {
	face := basicfont.Face7x13
	y := h.ctl.bottom() + infoHeight
	for _, line := range h.info {
		if y > h.panel.Bounds().Dy()-panelPadding {
			return
		}
		text.Draw(h.panel, line, face, panelPadding, y, color.RGBA{R: 160, G: 160, B: 170, A: 255})
		y += infoHeight
	}
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	if h.pixel == nil {
		return
	}
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorM.Scale(float64(bg.R)/255.0, float64(bg.G)/255.0, float64(bg.B)/255.0, float64(bg.A)/255.0)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}
