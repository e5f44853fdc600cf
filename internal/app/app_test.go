package app

import (
	"testing"

	"rmmv-tiles/internal/render"
)

func TestInputDelta(t *testing.T) {
	cases := []struct {
		in     Input
		dx, dy float64
	}{
		{Input{}, 0, 0},
		{Input{Left: true}, -4, 0},
		{Input{Right: true, Down: true}, 4, 4},
		{Input{Left: true, Right: true, Up: true}, 0, -4},
	}
	for _, tc := range cases {
		if dx, dy := tc.in.Delta(4); dx != tc.dx || dy != tc.dy {
			t.Fatalf("%+v: delta = %v,%v, want %v,%v", tc.in, dx, dy, tc.dx, tc.dy)
		}
	}
}

func TestFaderRunsToTarget(t *testing.T) {
	f := NewFader(816, 624, 100)
	if f.Step() {
		t.Fatal("idle fader should not run")
	}
	f.Toggle()
	steps := 0
	for f.Step() {
		steps++
	}
	if f.Sprite.Opacity() != 255 || steps != 2 {
		t.Fatalf("opacity %v after %d running steps", f.Sprite.Opacity(), steps)
	}
	f.Toggle()
	for f.Step() {
	}
	if f.Sprite.Opacity() != 0 {
		t.Fatalf("fade out stopped at %v", f.Sprite.Opacity())
	}
}

func TestFaderCycles(t *testing.T) {
	f := NewFader(10, 10, 1)
	f.CycleColor()
	if f.Sprite.ColorText() != "#ffffff" {
		t.Fatalf("colour = %s", f.Sprite.ColorText())
	}
	f.CycleColor()
	if f.Sprite.ColorText() != "#000000" {
		t.Fatalf("colour = %s", f.Sprite.ColorText())
	}
	want := []render.BlendMode{render.BlendAdd, render.BlendMultiply, render.BlendNormal}
	for _, m := range want {
		f.CycleBlend()
		if f.Sprite.BlendMode() != m {
			t.Fatalf("blend = %v, want %v", f.Sprite.BlendMode(), m)
		}
	}
}

func TestNewRequiresTilemap(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("missing tilemap should fail")
	}
}
