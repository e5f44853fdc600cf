package termview

import (
	"testing"
	"time"

	"rmmv-tiles/internal/core"
	"rmmv-tiles/internal/render"
	"rmmv-tiles/internal/samples"
	"rmmv-tiles/internal/tile"
	"rmmv-tiles/internal/tilemap"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus/hooks/test"
)

const crown = tile.IDB + 16

func newView(t *testing.T) (*View, tcell.SimulationScreen) {
	t.Helper()
	ss := tcell.NewSimulationScreen("UTF-8")
	if err := ss.Init(); err != nil {
		t.Fatalf("SimulationScreen.Init: %v", err)
	}
	ss.SetSize(20, 6)
	t.Cleanup(ss.Fini)

	m := samples.NewMap("view", samples.Config{Width: 12, Height: 8})
	m.Fill(0, 0, 12, 8, 0, samples.Kind(samples.KindGrass))
	m.Set(0, 0, 0, samples.Kind(samples.KindWater))
	m.Set(1, 0, core.PlaneShadow, samples.ShadowWest)
	m.Set(2, 0, 2, crown)
	m.SetFlag(crown, tile.FlagHigher)
	m.Autotile(0)

	log, _ := test.NewNullLogger()
	s := tilemap.NewShaderTilemap(tilemap.Options{NewLayer: render.NewLayer, Logger: log})
	s.SetSource(m)
	s.Refresh()
	return New(ss, s, "view", 60, log), ss
}

func TestResizeFitsScreen(t *testing.T) {
	v, _ := newView(t)
	if v.cols != 20 || v.rows != 5 {
		t.Fatalf("cols=%d rows=%d", v.cols, v.rows)
	}
	if v.tm.Width() != 10*48+40 || v.tm.Height() != 5*48+40 {
		t.Fatalf("tilemap size %dx%d", v.tm.Width(), v.tm.Height())
	}
}

func TestDrawGlyphs(t *testing.T) {
	v, _ := newView(t)
	v.Draw()
	if v.CellGlyph(0, 0) != '~' || v.CellGlyph(1, 0) != '~' {
		t.Fatalf("water cells = %q %q", v.CellGlyph(0, 0), v.CellGlyph(1, 0))
	}
	if v.CellGlyph(2, 0) != '.' || v.CellGlyph(0, 1) != '.' {
		t.Fatal("grass cells not drawn")
	}
	if v.CellGlyph(4, 0) != '*' || v.CellGlyph(5, 0) != '*' {
		t.Fatalf("crown cells = %q %q", v.CellGlyph(4, 0), v.CellGlyph(5, 0))
	}
	if !v.cells[4].bold || v.cells[2].bold {
		t.Fatal("only upper layer cells should be bold")
	}
	if !v.CellShadowed(2, 0) || v.CellShadowed(3, 0) {
		t.Fatal("shadow should cover the west half of tile (1,0)")
	}
	if v.CellGlyph(-1, 0) != 0 || v.CellShadowed(0, 99) {
		t.Fatal("out of range cells should be empty")
	}
	if v.Frames() != 1 {
		t.Fatalf("frames = %d", v.Frames())
	}
}

func TestStatusLine(t *testing.T) {
	v, ss := newView(t)
	v.Draw()
	want := []rune(" view")
	for x, r := range want {
		if got, _, _, _ := ss.GetContent(x, 5); got != r {
			t.Fatalf("status column %d = %q, want %q", x, got, r)
		}
	}
}

func TestWaterAnimates(t *testing.T) {
	v, _ := newView(t)
	for i := 0; i < 31; i++ {
		v.Update()
	}
	if v.tm.AnimationFrame() != 1 {
		t.Fatalf("frame = %d", v.tm.AnimationFrame())
	}
	v.Draw()
	if v.CellGlyph(0, 0) != '≈' {
		t.Fatalf("water glyph = %q after one animation step", v.CellGlyph(0, 0))
	}
}

func TestScrollClamps(t *testing.T) {
	v, _ := newView(t)
	v.Scroll(-100, -100)
	if x, y := v.tm.ScrollOrigin(); x != 0 || y != 0 {
		t.Fatalf("origin = %v,%v", x, y)
	}
	v.Scroll(1000, 1000)
	if x, y := v.tm.ScrollOrigin(); x != 2*48 || y != 3*48 {
		t.Fatalf("origin = %v,%v, want 96,144", x, y)
	}

	v.tm.HorizontalWrap = true
	v.Scroll(1000, 0)
	if x, _ := v.tm.ScrollOrigin(); x != 1096 {
		t.Fatalf("looping axis clamped to %v", x)
	}
}

func TestHandleEvent(t *testing.T) {
	v, _ := newView(t)
	if !v.HandleEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone)) {
		t.Fatal("arrow key stopped the view")
	}
	if x, _ := v.tm.ScrollOrigin(); x != 24 {
		t.Fatalf("origin x = %v after one step right", x)
	}
	v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'j', tcell.ModNone))
	if _, y := v.tm.ScrollOrigin(); y != 48 {
		t.Fatalf("origin y = %v after one step down", y)
	}
	v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone))
	v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone))
	if !v.AutoScroll || v.Shadows {
		t.Fatal("toggles not applied")
	}
	if v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Fatal("q should stop the view")
	}
	if v.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Fatal("escape should stop the view")
	}
}

func TestCategoryAt(t *testing.T) {
	v, _ := newView(t)
	if got := v.CategoryAt(0, 0, 0); got != tile.CategoryA1 {
		t.Fatalf("category = %v", got)
	}
	if got := v.CategoryAt(4, 0, 2); got != tile.CategoryB {
		t.Fatalf("layer 2 category = %v", got)
	}
}

func TestEventPumpStopsWhenDone(t *testing.T) {
	v, ss := newView(t)
	events := make(chan tcell.Event)
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		v.pollEvents(events, done)
		close(finished)
	}()

	close(done)
	if err := ss.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)); err != nil {
		t.Fatalf("PostEvent: %v", err)
	}
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("event pump blocked on send after done was closed")
	}
	if _, ok := <-events; ok {
		t.Fatal("events channel left open")
	}
}
