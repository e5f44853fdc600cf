// Package termview renders a tilemap's composite layers on a terminal through
// tcell. Every tile takes one row and two columns, one per half-tile
// quadrant column, so autotile edges stay visible.
package termview

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"rmmv-tiles/internal/core"
	"rmmv-tiles/internal/render"
	"rmmv-tiles/internal/tile"
	"rmmv-tiles/internal/tilemap"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/sirupsen/logrus"
)

// upperStart is the index of the first upper layer in draw order.
const upperStart = 5

// setGlyphs are drawn per tileset page, A1 through E.
var setGlyphs = [...]rune{'~', '.', '^', '#', ':', '*', '&', '%', '$'}

type cell struct {
	glyph  rune
	bg     color.RGBA
	bold   bool
	shadow bool
}

// View draws one ShaderTilemap whose layers are render.Composites.
type View struct {
	screen tcell.Screen
	tm     *tilemap.ShaderTilemap
	layers []*render.Composite
	name   string
	log    logrus.FieldLogger
	step   *core.FixedStep

	// Speed is the auto-scroll speed in pixels per tick.
	Speed float64
	// AutoScroll pans diagonally every tick.
	AutoScroll bool
	// Shadows toggles shadow dimming.
	Shadows bool

	cols, rows int
	cells      []cell
	frames     int
}

// New wraps tm, which must have been built with render.NewLayer.
func New(screen tcell.Screen, tm *tilemap.ShaderTilemap, name string, tps int, log logrus.FieldLogger) *View {
	v := &View{
		screen:  screen,
		tm:      tm,
		layers:  render.Composites(tm.Layers()),
		name:    name,
		log:     log,
		step:    core.NewFixedStep(tps),
		Speed:   2,
		Shadows: true,
	}
	v.Resize()
	return v
}

// Frames counts completed Draw calls.
func (v *View) Frames() int { return v.frames }

// Resize fits the painted area to the screen, keeping the bottom row for the
// status line.
func (v *View) Resize() {
	cols, rows := v.screen.Size()
	v.cols, v.rows = cols, max(rows-1, 0)
	v.cells = make([]cell, v.cols*v.rows)
	tw, th := v.tm.TileWidth(), v.tm.TileHeight()
	margin := v.tm.Margin()
	v.tm.SetWidth(ceilHalf(v.cols)*tw + 2*margin)
	v.tm.SetHeight(v.rows*th + 2*margin)
	v.log.WithFields(logrus.Fields{"cols": v.cols, "rows": v.rows}).Debug("terminal resized")
}

func ceilHalf(n int) int { return (n + 1) / 2 }

// Scroll moves the origin by (dx, dy) pixels. Non-looping axes are clamped to
// the map.
func (v *View) Scroll(dx, dy float64) {
	ox, oy := v.tm.ScrollOrigin()
	viewW := float64(ceilHalf(v.cols) * v.tm.TileWidth())
	viewH := float64(v.rows * v.tm.TileHeight())
	v.tm.SetScrollOrigin(v.tm.ClampOrigin(ox+dx, oy+dy, viewW, viewH))
}

// Update advances the animation clock and auto-scroll by one tick.
func (v *View) Update() {
	v.tm.UpdateDelta(v.step.Step())
	if v.AutoScroll {
		v.Scroll(v.Speed, v.Speed/2)
	}
}

// HandleEvent applies one input event and reports whether the view should
// keep running.
func (v *View) HandleEvent(ev tcell.Event) bool {
	tw, th := float64(v.tm.TileWidth()), float64(v.tm.TileHeight())
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
		v.Resize()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			v.Scroll(-tw/2, 0)
		case tcell.KeyRight:
			v.Scroll(tw/2, 0)
		case tcell.KeyUp:
			v.Scroll(0, -th)
		case tcell.KeyDown:
			v.Scroll(0, th)
		}
		switch ev.Rune() {
		case 'q', 'Q':
			return false
		case 'h':
			v.Scroll(-tw/2, 0)
		case 'l':
			v.Scroll(tw/2, 0)
		case 'k':
			v.Scroll(0, -th)
		case 'j':
			v.Scroll(0, th)
		case 'a':
			v.AutoScroll = !v.AutoScroll
		case 's':
			v.Shadows = !v.Shadows
		case 'r':
			v.tm.RoundPixels = !v.tm.RoundPixels
			v.tm.Repaint(true)
		}
	}
	return true
}

// Draw rasterises the layers and the status line and shows the screen.
func (v *View) Draw() {
	for i := range v.cells {
		v.cells[i] = cell{glyph: ' '}
	}
	tw, th := float64(v.tm.TileWidth()), float64(v.tm.TileHeight())
	if tw > 0 && th > 0 {
		for i, c := range v.layers {
			v.drawLayer(c, i >= upperStart, tw, th)
		}
	}

	v.screen.Clear()
	for i, c := range v.cells {
		x, y := i%v.cols, i/v.cols
		bg := c.bg
		if c.shadow && v.Shadows {
			bg = dim(bg)
		}
		style := tcell.StyleDefault.
			Background(tcell.NewRGBColor(int32(bg.R), int32(bg.G), int32(bg.B))).
			Foreground(tcell.ColorWhite).
			Bold(c.bold)
		v.screen.SetContent(x, y, c.glyph, nil, style)
	}
	v.drawStatus()
	v.screen.Show()
	v.frames++
}

func (v *View) drawLayer(c *render.Composite, upper bool, tw, th float64) {
	lx, ly := c.Position()
	ax, _ := c.TileAnim()
	for _, p := range c.Primitives() {
		// a primitive covers the cells whose centres it contains
		c0 := max(int(math.Ceil((lx+p.DX)*2/tw-0.5)), 0)
		c1 := min(int(math.Ceil((lx+p.DX+p.TileWidth)*2/tw-0.5)), v.cols)
		r0 := max(int(math.Ceil((ly+p.DY)/th-0.5)), 0)
		r1 := min(int(math.Ceil((ly+p.DY+p.TileHeight)/th-0.5)), v.rows)
		for row := r0; row < r1; row++ {
			for col := c0; col < c1; col++ {
				v.paint(&v.cells[row*v.cols+col], p, upper, ax, tw)
			}
		}
	}
}

func (v *View) paint(cl *cell, p render.Primitive, upper bool, animX, tw float64) {
	if p.Set == tilemap.ShadowSet {
		cl.shadow = true
		return
	}
	cl.glyph = glyphFor(p, animX, tw)
	cl.bold = upper
	if base := render.CategoryColor(render.SetCategory(p.Set)); base.A != 0 {
		cl.bg = base
	}
	cl.shadow = false
}

// glyphFor picks the character of a primitive. Animated water alternates
// with the horizontal animation offset; waterfalls use a bar.
func glyphFor(p render.Primitive, animX, tw float64) rune {
	if p.Set < 0 || p.Set >= len(setGlyphs) {
		return '?'
	}
	switch {
	case p.AnimY != 0:
		return '|'
	case p.AnimX != 0 && int(animX/tw)%2 == 1:
		return '≈'
	}
	return setGlyphs[p.Set]
}

func dim(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: c.A}
}

func (v *View) drawStatus() {
	if v.cols <= 0 {
		return
	}
	ox, oy := v.tm.ScrollOrigin()
	st := v.tm.Stats()
	ground := v.CategoryAt(v.cols/2, v.rows/2, 0)
	line := fmt.Sprintf(" %s  origin %.0f,%.0f  window %d,%d  frame %d  prims %d  centre %s  [arrows/hjkl scroll, a auto, s shadow, r round, q quit]",
		v.name, ox, oy, st.StartX, st.StartY, v.tm.AnimationFrame(), st.Primitives, ground)
	line = runewidth.Truncate(line, v.cols, "…")
	style := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, r := range line {
		v.screen.SetContent(x, v.rows, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
	for ; x < v.cols; x++ {
		v.screen.SetContent(x, v.rows, ' ', nil, style)
	}
}

// Run draws and ticks until ctx is done or the user quits.
func (v *View) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 32)
	done := make(chan struct{})
	defer close(done)
	go v.pollEvents(events, done)

	ticker := time.NewTicker(v.step.Step())
	defer ticker.Stop()
	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok || !v.HandleEvent(ev) {
				return nil
			}
			v.Draw()
		case <-ticker.C:
			v.Update()
			v.Draw()
		}
	}
}

// pollEvents forwards screen events until the screen is finalised or done is
// closed.
func (v *View) pollEvents(events chan<- tcell.Event, done <-chan struct{}) {
	defer close(events)
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// CellGlyph returns the glyph last rasterised at (x, y), for inspection.
func (v *View) CellGlyph(x, y int) rune {
	if x < 0 || x >= v.cols || y < 0 || y >= v.rows {
		return 0
	}
	return v.cells[y*v.cols+x].glyph
}

// CellShadowed reports whether a shadow primitive covers (x, y).
func (v *View) CellShadowed(x, y int) bool {
	if x < 0 || x >= v.cols || y < 0 || y >= v.rows {
		return false
	}
	return v.cells[y*v.cols+x].shadow
}

// CategoryAt classifies the tile under terminal cell (x, y) on map layer z.
func (v *View) CategoryAt(x, y, z int) tile.Category {
	tw, th := v.tm.TileWidth(), v.tm.TileHeight()
	if tw <= 0 || th <= 0 {
		return tile.CategoryInvalid
	}
	ox, oy := v.tm.ScrollOrigin()
	mx := int(math.Floor((ox + float64(x)*float64(tw)/2) / float64(tw)))
	my := int(math.Floor((oy + float64(y)*float64(th)) / float64(th)))
	return tile.CategoryOf(v.tm.ReadMapData(mx, my, z))
}
