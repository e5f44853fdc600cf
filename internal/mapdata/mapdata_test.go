package mapdata

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"rmmv-tiles/internal/core"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

const map001 = `{
  "displayName": "Harbour",
  "width": 2,
  "height": 1,
  "tilesetId": 1,
  "scrollType": 2,
  "encounterList": [],
  "data": [2048, 2816, 0, 0, 0, 0, 0, 0, 5, 0, 0, 3]
}`

const tilesets = `[
  null,
  {"id": 1, "name": "Outside", "mode": 1, "flags": [16, 0, 128],
   "tilesetNames": ["World_A1", "", "", "", "", "Missing_B", "", "", ""]}
]`

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func project(t *testing.T) fstest.MapFS {
	return fstest.MapFS{
		"data/Map001.json":          {Data: []byte(map001)},
		"data/Tilesets.json":        {Data: []byte(tilesets)},
		"img/tilesets/World_A1.png": {Data: pngBytes(t, 768, 576)},
	}
}

func TestMapWrap(t *testing.T) {
	cases := []struct {
		scroll int
		h, v   bool
	}{
		{ScrollNone, false, false},
		{ScrollLoopVertical, false, true},
		{ScrollLoopHorizontal, true, false},
		{ScrollLoopBoth, true, true},
	}
	for _, c := range cases {
		m := Map{ScrollType: c.scroll}
		h, v := m.Wrap()
		if h != c.h || v != c.v {
			t.Fatalf("scrollType %d -> (%v,%v), want (%v,%v)", c.scroll, h, v, c.h, c.v)
		}
	}
}

func TestDecodeMap(t *testing.T) {
	m, err := DecodeMap(strings.NewReader(map001))
	if err != nil {
		t.Fatal(err)
	}
	if m.DisplayName != "Harbour" || m.Width != 2 || m.Height != 1 || m.TilesetID != 1 {
		t.Fatalf("map = %+v", m)
	}
	if len(m.Data) != 12 || m.Data[1] != 2816 {
		t.Fatalf("data = %v", m.Data)
	}
}

func TestDecodeMapErrors(t *testing.T) {
	if _, err := DecodeMap(strings.NewReader(`{"width":`)); err == nil {
		t.Fatal("truncated JSON should fail")
	}
	if _, err := DecodeMap(strings.NewReader(`{"width":-1,"height":2}`)); err == nil {
		t.Fatal("negative width should fail")
	}
}

func TestDecodeTilesetsKeepsNulls(t *testing.T) {
	sets, err := DecodeTilesets(strings.NewReader(tilesets))
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 2 || sets[0] != nil {
		t.Fatalf("sets = %v", sets)
	}
	if sets[1].Name != "Outside" || len(sets[1].TilesetNames) != 9 || sets[1].Flags[2] != 128 {
		t.Fatalf("tileset = %+v", sets[1])
	}
}

func TestMapPath(t *testing.T) {
	if got := MapPath(7); got != "data/Map007.json" {
		t.Fatalf("MapPath(7) = %s", got)
	}
	if got := MapPath(1234); got != "data/Map1234.json" {
		t.Fatalf("MapPath(1234) = %s", got)
	}
}

func TestLoadMapMissing(t *testing.T) {
	_, err := LoadMap(fstest.MapFS{}, 3)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v, want fs.ErrNotExist", err)
	}
}

func TestLoadPageFallsBackToOtherExtensions(t *testing.T) {
	fsys := fstest.MapFS{"img/tilesets/Inside_B.bmp": {Data: []byte("not a bitmap")}}
	if _, err := LoadPage(fsys, TilesetDir, "Inside_B"); err == nil || errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("corrupt page err = %v", err)
	}
	if _, err := LoadPage(fsys, TilesetDir, "Nowhere"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("missing page err = %v", err)
	}
}

func TestLoadPagesWarnsAndLeavesNil(t *testing.T) {
	log, hook := test.NewNullLogger()
	names := []string{"World_A1", "", "Missing_B"}
	pages := LoadPages(project(t), TilesetDir, names, log)
	if len(pages) != 3 {
		t.Fatalf("len = %d", len(pages))
	}
	if pages[0] == nil || pages[0].Bounds().Dx() != 768 {
		t.Fatal("World_A1 not decoded")
	}
	if pages[1] != nil || pages[2] != nil {
		t.Fatal("unnamed and missing pages should be nil")
	}
	if len(hook.Entries) != 1 || hook.LastEntry().Level != logrus.WarnLevel {
		t.Fatalf("entries = %v", hook.Entries)
	}
	if hook.LastEntry().Data["page"] != "Missing_B" {
		t.Fatalf("warned about %v", hook.LastEntry().Data["page"])
	}
}

func TestLoadBundle(t *testing.T) {
	log, _ := test.NewNullLogger()
	b, err := LoadBundle(project(t), 1, log)
	if err != nil {
		t.Fatal(err)
	}
	var src core.Source = b
	if src.Name() != "Map001 Harbour" {
		t.Fatalf("name = %q", src.Name())
	}
	if src.Size() != (core.Size{W: 2, H: 1}) {
		t.Fatalf("size = %+v", src.Size())
	}
	if h, v := src.Wrap(); !h || v {
		t.Fatalf("wrap = (%v,%v)", h, v)
	}
	if len(src.Flags()) != 3 || len(src.Data()) != 12 {
		t.Fatal("flags or data not passed through")
	}
	if len(b.Bitmaps()) != 9 || b.Bitmaps()[0] == nil {
		t.Fatal("pages not loaded")
	}
}

func TestLoadBundleUnknownTileset(t *testing.T) {
	log, _ := test.NewNullLogger()
	fsys := project(t)
	fsys["data/Map002.json"] = &fstest.MapFile{Data: []byte(`{"width":1,"height":1,"tilesetId":0,"data":[]}`)}
	if _, err := LoadBundle(fsys, 2, log); err == nil {
		t.Fatal("null tileset should be rejected")
	}
	fsys["data/Map003.json"] = &fstest.MapFile{Data: []byte(`{"width":1,"height":1,"tilesetId":9,"data":[]}`)}
	if _, err := LoadBundle(fsys, 3, log); err == nil {
		t.Fatal("out of range tileset should be rejected")
	}
}

func TestLoadBundleWarnsOnShortData(t *testing.T) {
	log, hook := test.NewNullLogger()
	fsys := project(t)
	fsys["data/Map004.json"] = &fstest.MapFile{Data: []byte(`{"width":4,"height":4,"tilesetId":1,"data":[1,2]}`)}
	if _, err := LoadBundle(fsys, 4, log); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, e := range hook.AllEntries() {
		if e.Message == "map data truncated" {
			found = true
		}
	}
	if !found {
		t.Fatal("short data not reported")
	}
}

func TestBundleNameWithoutDisplayName(t *testing.T) {
	b := &Bundle{MapID: 12, Map: &Map{}}
	if b.Name() != "Map012" {
		t.Fatalf("name = %q", b.Name())
	}
}
