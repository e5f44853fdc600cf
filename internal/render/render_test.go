package render

import (
	"image"
	"image/color"
	"slices"
	"testing"

	"rmmv-tiles/internal/tile"
	"rmmv-tiles/internal/tilemap"
)

func TestCompositeRecordsAndClears(t *testing.T) {
	c := NewComposite(7)
	var l tilemap.Layer = c
	l.Tile(0, 10, 20, tilemap.TileOptions{U: 48, V: 96, TileWidth: 24, TileHeight: 24, AnimX: 2})
	l.Tile(tilemap.ShadowSet, 0, 0, tilemap.TileOptions{TileWidth: 24, TileHeight: 24})
	if c.Len() != 2 || c.ID() != 7 {
		t.Fatalf("len=%d id=%d", c.Len(), c.ID())
	}
	if p := c.Primitives()[0]; p.Set != 0 || p.DX != 10 || p.DY != 20 || p.AnimX != 2 {
		t.Fatalf("primitive = %+v", p)
	}
	l.Clear()
	if c.Len() != 0 {
		t.Fatalf("Clear left %d primitives", c.Len())
	}
}

func TestSourceRectAppliesAnimation(t *testing.T) {
	c := NewComposite(1)
	c.SetTileAnim(96, 48)
	water := Primitive{Set: 0, TileOptions: tilemap.TileOptions{U: 48, V: 96, TileWidth: 24, TileHeight: 24, AnimX: 2}}
	if got, want := c.SourceRect(water), image.Rect(48+192, 96, 48+192+24, 120); got != want {
		t.Fatalf("water rect = %v, want %v", got, want)
	}
	fall := Primitive{Set: 0, TileOptions: tilemap.TileOptions{U: 672, V: 0, TileWidth: 24, TileHeight: 24, AnimY: 1}}
	if got, want := c.SourceRect(fall), image.Rect(672, 48, 696, 72); got != want {
		t.Fatalf("waterfall rect = %v, want %v", got, want)
	}
	still := Primitive{Set: 5, TileOptions: tilemap.TileOptions{U: 48, V: 0, TileWidth: 48, TileHeight: 48}}
	if got, want := c.SourceRect(still), image.Rect(48, 0, 96, 48); got != want {
		t.Fatalf("still rect = %v, want %v", got, want)
	}
}

func TestDestRectUsesPosition(t *testing.T) {
	c := NewComposite(1)
	c.SetPosition(-58.5, -48)
	p := Primitive{DX: 24, DY: 12, TileOptions: tilemap.TileOptions{TileWidth: 24, TileHeight: 12}}
	if got, want := c.DestRect(p), image.Rect(-35, -36, -11, -24); got != want {
		t.Fatalf("dest = %v, want %v", got, want)
	}
}

func TestBitmapLookup(t *testing.T) {
	c := NewComposite(1)
	page := image.NewRGBA(image.Rect(0, 0, 4, 4))
	c.SetTileset([]tilemap.Bitmap{nil, page})
	if c.Bitmap(0) != nil || c.Bitmap(-1) != nil || c.Bitmap(2) != nil {
		t.Fatal("missing pages should be nil")
	}
	if c.Bitmap(1) != page {
		t.Fatal("page 1 not returned")
	}
}

func TestCompositesFiltersLayers(t *testing.T) {
	s := tilemap.NewShaderTilemap(tilemap.Options{NewLayer: NewLayer})
	got := Composites(s.Layers())
	if len(got) != 9 {
		t.Fatalf("got %d composites, want 9", len(got))
	}
	if got[2] != s.ShadowLayer() {
		t.Fatal("shadow layer not third in draw order")
	}
}

func TestSubImageKeyPack(t *testing.T) {
	a, ok := SubImageKey{Set: 1, X: 24, Y: 48, W: 24, H: 12}.Pack()
	if !ok {
		t.Fatal("small key should pack")
	}
	b, _ := SubImageKey{Set: 1, X: 24, Y: 48, W: 24, H: 24}.Pack()
	c, _ := SubImageKey{Set: 2, X: 24, Y: 48, W: 24, H: 12}.Pack()
	if a == b || a == c || b == c {
		t.Fatal("distinct keys packed to the same value")
	}
	for _, k := range []SubImageKey{{Set: -1}, {Set: 64}, {X: -1}, {Y: 1 << 15}, {W: 1 << 14}} {
		if _, ok := k.Pack(); ok {
			t.Fatalf("key %+v should not pack", k)
		}
	}
}

func TestSubImageCache(t *testing.T) {
	cache, err := NewSubImageCache[string](16)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	builds := 0
	build := func() string {
		builds++
		return "quadrant"
	}
	key := SubImageKey{Set: 0, X: 48, Y: 96, W: 24, H: 24}
	if v := cache.Get(key, build); v != "quadrant" {
		t.Fatalf("Get = %q", v)
	}
	if v := cache.Get(key, build); v != "quadrant" {
		t.Fatalf("Get = %q", v)
	}
	if builds != 1 || cache.Hits() != 1 || cache.Misses() != 1 {
		t.Fatalf("builds=%d hits=%d misses=%d", builds, cache.Hits(), cache.Misses())
	}

	cache.Get(SubImageKey{Set: 99}, build)
	if builds != 2 {
		t.Fatal("unpackable key should bypass the cache")
	}

	cache.Clear()
	cache.Get(key, build)
	if builds != 3 || cache.Hits() != 0 {
		t.Fatalf("after Clear builds=%d hits=%d", builds, cache.Hits())
	}
}

func TestSubImageCacheBindDropsOtherPages(t *testing.T) {
	cache, err := NewSubImageCache[int](16)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	first := []tilemap.Bitmap{image.NewRGBA(image.Rect(0, 0, 96, 96))}
	second := []tilemap.Bitmap{image.NewRGBA(image.Rect(0, 0, 96, 96))}
	key := SubImageKey{Set: 0, X: 24, Y: 24, W: 24, H: 24}

	if !cache.Bind(first) {
		t.Fatal("first bind should report a change")
	}
	if v := cache.Get(key, func() int { return 1 }); v != 1 {
		t.Fatalf("Get = %d", v)
	}
	if cache.Bind(first) || cache.Bind(slices.Clone(first)) {
		t.Fatal("rebinding the same pages dropped the cache")
	}
	if v := cache.Get(key, func() int { return 9 }); v != 1 {
		t.Fatalf("same pages served %d, want the cached 1", v)
	}

	if !cache.Bind(second) {
		t.Fatal("same-length page swap went unnoticed")
	}
	if v := cache.Get(key, func() int { return 2 }); v != 2 {
		t.Fatalf("swapped pages served stale %d", v)
	}
}

func TestSyntheticSheet(t *testing.T) {
	for set := 0; set <= 8; set++ {
		img := SyntheticSheet(set, 48, 48)
		cols, rows := SheetTiles(set)
		if img.Bounds().Dx() != cols*48 || img.Bounds().Dy() != rows*48 {
			t.Fatalf("set %d size %v", set, img.Bounds())
		}
		base := CategoryColor(SetCategory(set))
		if got := img.RGBAAt(1, 1); got != base {
			t.Fatalf("set %d pixel (1,1) = %v, want %v", set, got, base)
		}
		if got := img.RGBAAt(0, 0); got == base || got.A != 255 {
			t.Fatalf("set %d edge pixel = %v", set, got)
		}
	}
	if img := SyntheticSheet(0, 1, 1); img.RGBAAt(0, 0).A != 0 {
		t.Fatal("degenerate tile size should leave the sheet blank")
	}
}

func TestSetCategory(t *testing.T) {
	if SetCategory(0) != tile.CategoryA1 || SetCategory(4) != tile.CategoryA5 || SetCategory(8) != tile.CategoryE {
		t.Fatal("set to category mapping broken")
	}
	if SetCategory(tilemap.ShadowSet) != tile.CategoryInvalid {
		t.Fatal("shadow set has no category")
	}
	if CategoryColor(tile.CategoryEmpty) != (color.RGBA{}) {
		t.Fatal("empty category should be transparent")
	}
}

func TestMaskRGBA(t *testing.T) {
	on := color.RGBA{R: 255, A: 255}
	img := MaskRGBA([]uint8{1, 0, 0, 1}, 2, 2, on, color.Transparent)
	if img.RGBAAt(0, 0) != on || img.RGBAAt(1, 1) != on {
		t.Fatal("set cells not painted")
	}
	if img.RGBAAt(1, 0).A != 0 {
		t.Fatal("unset cell painted")
	}
	short := MaskRGBA([]uint8{1}, 2, 2, on, color.Transparent)
	if short.RGBAAt(0, 0).A != 0 {
		t.Fatal("short mask should leave the image blank")
	}
}

func TestScreenSpriteColor(t *testing.T) {
	s := NewScreenSprite(816, 624)
	if s.Opacity() != 0 || s.Color() != (color.RGBA{A: 255}) || s.ColorText() != "#000000" {
		t.Fatalf("new sprite opacity=%v color=%v text=%s", s.Opacity(), s.Color(), s.ColorText())
	}
	changes := s.Changes()
	s.SetBlack()
	if s.Changes() != changes {
		t.Fatal("repeating the colour counted as a change")
	}
	s.SetColor(300.2, -5, 127.5)
	if s.Color() != (color.RGBA{R: 255, G: 0, B: 128, A: 255}) {
		t.Fatalf("clamped colour = %v", s.Color())
	}
	s.SetWhite()
	if s.ColorText() != "#ffffff" {
		t.Fatalf("white text = %s", s.ColorText())
	}
	if r := s.Rect(); r.Min.X != -816*5 || r.Dx() != 816*10 || r.Dy() != 624*10 {
		t.Fatalf("rect = %v", r)
	}
}

func TestScreenSpriteOpacityClamp(t *testing.T) {
	s := NewScreenSprite(1, 1)
	cases := []struct {
		in, want float64
	}{
		{-10, 0},
		{0, 0},
		{127.5, 127.5},
		{255, 255},
		{900, 255},
	}
	for _, c := range cases {
		s.SetOpacity(c.in)
		if s.Opacity() != c.want {
			t.Fatalf("SetOpacity(%v) -> %v, want %v", c.in, s.Opacity(), c.want)
		}
	}
	if s.Alpha() != 1 {
		t.Fatalf("alpha = %v", s.Alpha())
	}
}

func TestScreenSpriteAnchorPanics(t *testing.T) {
	s := NewScreenSprite(1, 1)
	for name, fn := range map[string]func(){
		"Anchor":    func() { s.Anchor() },
		"SetAnchor": func() { s.SetAnchor(0.5, 0.5) },
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("%s did not panic", name)
				}
			}()
			fn()
		})
	}
}
