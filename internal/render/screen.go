package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// BlendMode selects how a ScreenSprite combines with what is beneath it.
type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendAdd
	BlendMultiply
)

// ScreenSprite is a solid colour overlay covering the whole screen, used for
// fades and flashes. Opacity runs from 0 to 255.
type ScreenSprite struct {
	screenW, screenH int

	opacity   float64
	red       int
	green     int
	blue      int
	colorText string
	blend     BlendMode
	changes   int
}

// NewScreenSprite returns a transparent black overlay for a w×h screen.
func NewScreenSprite(w, h int) *ScreenSprite {
	s := &ScreenSprite{screenW: w, screenH: h, red: -1, green: -1, blue: -1}
	s.SetBlack()
	return s
}

func (s *ScreenSprite) Opacity() float64 { return s.opacity }

// SetOpacity clamps v to [0, 255].
func (s *ScreenSprite) SetOpacity(v float64) {
	s.opacity = math.Max(0, math.Min(255, v))
}

// Alpha returns the opacity scaled to [0, 1].
func (s *ScreenSprite) Alpha() float64 { return s.opacity / 255 }

// Anchor must never be used on a full-screen overlay.
func (s *ScreenSprite) Anchor() (x, y float64) {
	panic("render: ScreenSprite.Anchor should not be called")
}

// SetAnchor must never be used on a full-screen overlay.
func (s *ScreenSprite) SetAnchor(x, y float64) {
	panic("render: ScreenSprite.SetAnchor should not be called")
}

func (s *ScreenSprite) BlendMode() BlendMode     { return s.blend }
func (s *ScreenSprite) SetBlendMode(m BlendMode) { s.blend = m }

func (s *ScreenSprite) SetBlack() { s.SetColor(0, 0, 0) }
func (s *ScreenSprite) SetWhite() { s.SetColor(255, 255, 255) }

// SetColor rounds and clamps each component to [0, 255]. Repeating the
// current colour is a no-op.
func (s *ScreenSprite) SetColor(r, g, b float64) {
	ri, gi, bi := clampChannel(r), clampChannel(g), clampChannel(b)
	if ri == s.red && gi == s.green && bi == s.blue {
		return
	}
	s.red, s.green, s.blue = ri, gi, bi
	s.colorText = fmt.Sprintf("#%02x%02x%02x", ri, gi, bi)
	s.changes++
}

// Color returns the overlay colour without opacity applied.
func (s *ScreenSprite) Color() color.RGBA {
	return color.RGBA{R: uint8(s.red), G: uint8(s.green), B: uint8(s.blue), A: 255}
}

// ColorText returns the colour as a CSS hex string.
func (s *ScreenSprite) ColorText() string { return s.colorText }

// Changes counts effective SetColor calls.
func (s *ScreenSprite) Changes() int { return s.changes }

// Rect is the filled area, reaching five screens past the origin on every
// side.
func (s *ScreenSprite) Rect() image.Rectangle {
	return image.Rect(-s.screenW*5, -s.screenH*5, s.screenW*5, s.screenH*5)
}

func clampChannel(v float64) int {
	r := int(math.Round(v))
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return r
}
