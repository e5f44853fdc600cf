//go:build ebiten

package app

import (
	"errors"
	"image/color"

	"rmmv-tiles/internal/core"
	"rmmv-tiles/internal/render"
	"rmmv-tiles/internal/tilemap"
	"rmmv-tiles/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"
)

// Game implements ebiten.Game for a scrolling tilemap.
type Game struct {
	tm         *tilemap.ShaderTilemap
	layers     []*render.Composite
	cache      *render.SubImageCache[*ebiten.Image]
	compositor *render.Compositor
	fader      *Fader
	hud        *ui.HUD
	overlay    *ui.Overlay
	log        logrus.FieldLogger
	step       *core.FixedStep

	viewW, viewH int
	speed        float64
	paused       bool
	autoScroll   bool
}

// New wires a Game around opts.Tilemap.
func New(opts Options) (*Game, error) {
	if opts.Tilemap == nil {
		return nil, errors.New("app: no tilemap")
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.CacheEntries <= 0 {
		opts.CacheEntries = 4096
	}
	cache, err := render.NewSubImageCache[*ebiten.Image](opts.CacheEntries)
	if err != nil {
		return nil, err
	}
	g := &Game{
		tm:         opts.Tilemap,
		layers:     render.Composites(opts.Tilemap.Layers()),
		cache:      cache,
		compositor: render.NewCompositor(cache),
		fader:      NewFader(opts.ScreenWidth, opts.ScreenHeight, 8),
		hud:        ui.NewHUD(opts.Tilemap, opts.HUDWidth),
		overlay:    ui.NewOverlay(opts.Tilemap),
		log:        opts.Logger,
		step:       core.NewFixedStep(opts.TPS),
		viewW:      opts.ScreenWidth,
		viewH:      opts.ScreenHeight,
		speed:      opts.ScrollSpeed,
	}
	return g, nil
}

// Close releases the sub-image cache.
func (g *Game) Close() { g.cache.Close() }

// Update handles input, scrolls and advances the animation clock.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.autoScroll = !g.autoScroll
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.fader.Toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.fader.CycleColor()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		g.fader.CycleBlend()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.cache.Clear()
		g.tm.Refresh()
		ox, oy := g.tm.ScrollOrigin()
		g.log.WithFields(logrus.Fields{"x": ox, "y": oy}).Debug("forced refresh")
	}

	in := Input{
		Left:  ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA),
		Right: ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) || g.autoScroll,
		Up:    ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW),
		Down:  ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS) || g.autoScroll,
	}
	if dx, dy := in.Delta(g.speed); dx != 0 || dy != 0 {
		ox, oy := g.tm.ScrollOrigin()
		g.tm.SetScrollOrigin(g.tm.ClampOrigin(ox+dx, oy+dy, float64(g.viewW), float64(g.viewH)))
	}

	if g.hud.Update(g.viewW) {
		g.log.WithField("stats", g.tm.Stats()).Debug("parameter changed")
	}
	g.overlay.Update()
	g.fader.Step()

	if !g.paused {
		g.tm.UpdateDelta(g.step.Step())
	}
	return nil
}

// Draw composites the layers, the fade and the debug overlay, then the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	g.compositor.Draw(screen, g.layers, ebiten.GeoM{})
	g.compositor.DrawScreen(screen, g.fader.Sprite)
	g.overlay.Draw(screen, g.viewW, g.viewH)
	g.hud.Draw(screen, g.viewW, g.viewH)
}

// Layout reports the logical screen: the map view plus the HUD panel.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.viewW + g.hud.Width(), g.viewH
}
