package app

import (
	"math"

	"rmmv-tiles/internal/render"
	"rmmv-tiles/internal/tilemap"

	"github.com/sirupsen/logrus"
)

// Options configures a Game.
type Options struct {
	// Tilemap must have been built with render.NewLayer and have its pages
	// converted by render.EbitenPages.
	Tilemap      *tilemap.ShaderTilemap
	ScreenWidth  int
	ScreenHeight int
	ScrollSpeed  float64
	TPS          int
	HUDWidth     int
	CacheEntries int64
	Logger       logrus.FieldLogger
}

// Input is the directional state sampled once per tick.
type Input struct {
	Left, Right, Up, Down bool
}

// Delta returns the scroll step for speed pixels per tick. Diagonals are not
// normalised, matching tile-based movement.
func (in Input) Delta(speed float64) (dx, dy float64) {
	if in.Left {
		dx -= speed
	}
	if in.Right {
		dx += speed
	}
	if in.Up {
		dy -= speed
	}
	if in.Down {
		dy += speed
	}
	return dx, dy
}

// Fader eases a ScreenSprite toward fully opaque or fully clear.
type Fader struct {
	Sprite *render.ScreenSprite
	// Speed is the opacity change per tick.
	Speed  float64
	target float64
}

// NewFader returns a clear black fader for a w×h screen.
func NewFader(w, h int, speed float64) *Fader {
	return &Fader{Sprite: render.NewScreenSprite(w, h), Speed: speed}
}

// Toggle reverses the fade direction.
func (f *Fader) Toggle() {
	if f.target > 0 {
		f.target = 0
	} else {
		f.target = 255
	}
}

// Step moves the opacity one tick toward the target and reports whether the
// fade is still running.
func (f *Fader) Step() bool {
	cur := f.Sprite.Opacity()
	if cur == f.target {
		return false
	}
	if cur < f.target {
		f.Sprite.SetOpacity(math.Min(cur+f.Speed, f.target))
	} else {
		f.Sprite.SetOpacity(math.Max(cur-f.Speed, f.target))
	}
	return f.Sprite.Opacity() != f.target
}

// CycleColor switches between a black and a white fade.
func (f *Fader) CycleColor() {
	if f.Sprite.Color().R == 0 {
		f.Sprite.SetWhite()
	} else {
		f.Sprite.SetBlack()
	}
}

// CycleBlend steps through normal, additive and multiply blending.
func (f *Fader) CycleBlend() {
	f.Sprite.SetBlendMode((f.Sprite.BlendMode() + 1) % (render.BlendMultiply + 1))
}
