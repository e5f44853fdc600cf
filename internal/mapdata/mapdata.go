// Package mapdata loads RPG Maker MV project data: MapXXX.json, Tilesets.json
// and the tileset page images referenced by a tileset.
package mapdata

import (
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"io/fs"
	"path"

	"rmmv-tiles/internal/core"
	"rmmv-tiles/internal/tilemap"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Project-relative locations.
const (
	DataDir    = "data"
	TilesetDir = "img/tilesets"
)

// Scroll types of a map.
const (
	ScrollNone = iota
	ScrollLoopVertical
	ScrollLoopHorizontal
	ScrollLoopBoth
)

// pageExts lists the image extensions tried for a tileset page, in order.
var pageExts = []string{".png", ".webp", ".bmp"}

// Map is the subset of MapXXX.json the tilemap needs.
type Map struct {
	DisplayName string `json:"displayName"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	TilesetID   int    `json:"tilesetId"`
	ScrollType  int    `json:"scrollType"`
	Data        []int  `json:"data"`
}

// Wrap reports the loop toggles implied by the scroll type.
func (m *Map) Wrap() (horizontal, vertical bool) {
	horizontal = m.ScrollType == ScrollLoopHorizontal || m.ScrollType == ScrollLoopBoth
	vertical = m.ScrollType == ScrollLoopVertical || m.ScrollType == ScrollLoopBoth
	return horizontal, vertical
}

// Tileset is one entry of Tilesets.json.
type Tileset struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Mode         int      `json:"mode"`
	Flags        []int    `json:"flags"`
	TilesetNames []string `json:"tilesetNames"`
}

// DecodeMap parses a MapXXX.json document.
func DecodeMap(r io.Reader) (*Map, error) {
	var m Map
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode map: %w", err)
	}
	if m.Width < 0 || m.Height < 0 {
		return nil, fmt.Errorf("decode map: negative size %dx%d", m.Width, m.Height)
	}
	return &m, nil
}

// DecodeTilesets parses Tilesets.json. The result is indexed by tileset ID;
// null entries, including the leading one, stay nil.
func DecodeTilesets(r io.Reader) ([]*Tileset, error) {
	var sets []*Tileset
	if err := json.NewDecoder(r).Decode(&sets); err != nil {
		return nil, fmt.Errorf("decode tilesets: %w", err)
	}
	return sets, nil
}

// MapPath returns the project-relative path of map id.
func MapPath(id int) string {
	return path.Join(DataDir, fmt.Sprintf("Map%03d.json", id))
}

// LoadMap reads map id from a project.
func LoadMap(fsys fs.FS, id int) (*Map, error) {
	f, err := fsys.Open(MapPath(id))
	if err != nil {
		return nil, fmt.Errorf("open map %d: %w", id, err)
	}
	defer f.Close()
	return DecodeMap(f)
}

// LoadTilesets reads Tilesets.json from a project.
func LoadTilesets(fsys fs.FS) ([]*Tileset, error) {
	f, err := fsys.Open(path.Join(DataDir, "Tilesets.json"))
	if err != nil {
		return nil, fmt.Errorf("open tilesets: %w", err)
	}
	defer f.Close()
	return DecodeTilesets(f)
}

// LoadPage decodes the tileset page called name from dir, trying each known
// image extension. A page that exists under no extension reports
// fs.ErrNotExist.
func LoadPage(fsys fs.FS, dir, name string) (image.Image, error) {
	for _, ext := range pageExts {
		f, err := fsys.Open(path.Join(dir, name+ext))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("open page %s: %w", name, err)
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode page %s%s: %w", name, ext, err)
		}
		return img, nil
	}
	return nil, fmt.Errorf("page %s: %w", name, fs.ErrNotExist)
}

// LoadPages loads one page per name. Unnamed, missing or unreadable pages
// are left nil so their tiles draw blank.
func LoadPages(fsys fs.FS, dir string, names []string, log logrus.FieldLogger) []tilemap.Bitmap {
	pages := make([]tilemap.Bitmap, len(names))
	for i, name := range names {
		if name == "" {
			continue
		}
		img, err := LoadPage(fsys, dir, name)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.WithFields(logrus.Fields{"set": i, "page": name}).Warn("tileset page missing")
		case err != nil:
			log.WithError(err).WithField("set", i).Warn("tileset page unreadable")
		default:
			pages[i] = img
		}
	}
	return pages
}

// Bundle is a loaded map with its tileset and page images. It satisfies
// core.Source.
type Bundle struct {
	MapID   int
	Map     *Map
	Tileset *Tileset
	Pages   []tilemap.Bitmap
}

var _ core.Source = (*Bundle)(nil)

// LoadBundle loads map id, its tileset and the tileset's pages from a
// project laid out like an RPG Maker MV game folder.
func LoadBundle(fsys fs.FS, id int, log logrus.FieldLogger) (*Bundle, error) {
	m, err := LoadMap(fsys, id)
	if err != nil {
		return nil, err
	}
	sets, err := LoadTilesets(fsys)
	if err != nil {
		return nil, err
	}
	if m.TilesetID < 0 || m.TilesetID >= len(sets) || sets[m.TilesetID] == nil {
		return nil, fmt.Errorf("map %d: unknown tileset %d", id, m.TilesetID)
	}
	ts := sets[m.TilesetID]
	if want := m.Width * m.Height * core.Planes; len(m.Data) < want {
		log.WithFields(logrus.Fields{"map": id, "have": len(m.Data), "want": want}).Warn("map data truncated")
	}
	b := &Bundle{
		MapID:   id,
		Map:     m,
		Tileset: ts,
		Pages:   LoadPages(fsys, TilesetDir, ts.TilesetNames, log),
	}
	log.WithFields(logrus.Fields{
		"map":     id,
		"tileset": ts.Name,
		"width":   m.Width,
		"height":  m.Height,
	}).Info("map loaded")
	return b, nil
}

func (b *Bundle) Name() string {
	if b.Map.DisplayName != "" {
		return fmt.Sprintf("Map%03d %s", b.MapID, b.Map.DisplayName)
	}
	return fmt.Sprintf("Map%03d", b.MapID)
}

func (b *Bundle) Size() core.Size           { return core.Size{W: b.Map.Width, H: b.Map.Height} }
func (b *Bundle) Data() []int               { return b.Map.Data }
func (b *Bundle) Flags() []int              { return b.Tileset.Flags }
func (b *Bundle) Wrap() (bool, bool)        { return b.Map.Wrap() }
func (b *Bundle) Bitmaps() []tilemap.Bitmap { return b.Pages }
