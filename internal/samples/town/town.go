// Package town generates a small walled town: a road cross, houses with roofs
// and wall faces that cast shadows, a paved plaza with a market counter made
// of table tiles, and lamps whose heads render above characters.
package town

import (
	"rmmv-tiles/internal/core"
	"rmmv-tiles/internal/samples"
	"rmmv-tiles/internal/tile"
	pcore "rmmv-tiles/pkg/core"
)

// Normal tiles placed by the generator.
const (
	TilePaving   = tile.IDA5 + 8
	TileLampPost = tile.IDB + 100
	TileLampHead = tile.IDB + 92
	TileBarrel   = tile.IDC + 40
	TileSign     = tile.IDD + 3
	TileCrate    = tile.IDE + 17
)

// town wall rows
const (
	wallTopRow  = 0
	wallFaceRow = 2
	wallBottom  = 4
)

// DefaultConfig returns the standard town dimensions.
func DefaultConfig() samples.Config {
	return samples.Config{Width: 32, Height: 24, Seed: 11}
}

// House is the footprint of one building: Roof rows on top of Face rows.
type House struct {
	X, Y       int
	W          int
	Roof, Face int
	Region     int
}

// Layout records where the generator put its features.
type Layout struct {
	RoadX, RoadY int
	Plaza        [4]int // x0, y0, x1, y1 (exclusive)
	Counter      [4]int
	Houses       []House
	Lamps        int
}

// Generate builds the town map described by c.
func Generate(c samples.Config) (*samples.Map, Layout) {
	m := samples.NewMap("town", c)
	rng := pcore.NewRNG(c.Seed)
	w, h := m.W, m.H

	var l Layout
	l.RoadX = w / 2
	l.RoadY = (h + wallBottom) / 2

	m.Fill(0, 0, w, h, 0, samples.Kind(samples.KindGrass))

	// town wall along the north edge
	m.Fill(0, wallTopRow, w, wallFaceRow, 0, samples.Kind(samples.KindCliffTop))
	m.Fill(0, wallFaceRow, w, wallBottom, 0, samples.Kind(samples.KindCliffSide))

	// roads
	m.Fill(l.RoadX-1, wallBottom, l.RoadX+1, h, 0, samples.Kind(samples.KindRoad))
	m.Fill(0, l.RoadY, w, l.RoadY+2, 0, samples.Kind(samples.KindRoad))

	// plaza in the south-east quarter with a counter on layer 1
	l.Plaza = [4]int{l.RoadX + 2, l.RoadY + 3, min(l.RoadX+10, w-1), min(l.RoadY+9, h-1)}
	m.Fill(l.Plaza[0], l.Plaza[1], l.Plaza[2], l.Plaza[3], 0, TilePaving)
	l.Counter = [4]int{l.Plaza[0] + 2, l.Plaza[1] + 1, l.Plaza[0] + 5, l.Plaza[1] + 3}
	m.Fill(l.Counter[0], l.Counter[1], l.Counter[2], l.Counter[3], 1, samples.Kind(samples.KindCounter))
	m.SetKindFlag(samples.KindCounter, tile.FlagTable)
	m.Set(l.Counter[0], l.Counter[1], 2, TileCrate)
	m.Set(l.Counter[2]-1, l.Counter[1], 2, TileBarrel)

	// houses on the northern blocks, one per slot, with random widths
	region := 1
	for _, x0 := range []int{1, l.RoadX + 2} {
		x := x0
		limit := l.RoadX - 1
		if x0 > l.RoadX {
			limit = w - 1
		}
		for {
			hw := rng.Between(3, 5)
			if x+hw > limit {
				break
			}
			hs := House{X: x, Y: wallBottom + 1, W: hw, Roof: 2, Face: 2, Region: region}
			if hs.Y+hs.Roof+hs.Face > l.RoadY {
				break
			}
			buildHouse(m, hs, rng.Bool())
			l.Houses = append(l.Houses, hs)
			region++
			x += hw + 1
		}
	}

	// lamps beside the road, a sign at the crossing
	for y := wallBottom + 1; y < h; y += 4 {
		x := l.RoadX + 1
		if m.At(x, y, 2) != 0 || isRoad(m.At(x, y, 0)) {
			continue
		}
		m.Set(x, y, 2, TileLampPost)
		m.Set(x, y-1, 3, TileLampHead)
		l.Lamps++
	}
	m.SetFlag(TileLampHead, tile.FlagHigher)
	m.Set(l.RoadX-2, l.RoadY-1, 2, TileSign)

	m.Autotile(0)
	m.Autotile(1)
	return m, l
}

func isRoad(id int) bool {
	return tile.IsAutotile(id) && tile.AutotileKind(id) == samples.KindRoad
}

func buildHouse(m *samples.Map, hs House, alt bool) {
	roof := samples.KindRoof
	if alt {
		roof = samples.KindRoofAlt
	}
	faceY := hs.Y + hs.Roof
	bottom := faceY + hs.Face
	m.Fill(hs.X, hs.Y, hs.X+hs.W, faceY, 0, samples.Kind(roof))
	m.Fill(hs.X, faceY, hs.X+hs.W, bottom, 0, samples.Kind(samples.KindHouseWall))
	m.Fill(hs.X, hs.Y, hs.X+hs.W, bottom, core.PlaneRegion, hs.Region)
	for y := faceY; y < bottom; y++ {
		m.Set(hs.X+hs.W, y, core.PlaneShadow, samples.ShadowWest)
	}
}

func init() {
	core.Register("town", func(cfg map[string]string) core.Source {
		m, _ := Generate(samples.FromMap(cfg, DefaultConfig()))
		return m
	})
}
