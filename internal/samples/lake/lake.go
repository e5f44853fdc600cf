// Package lake generates a lakeside map below a cliff: animated water with a
// deep centre, a waterfall, a bridge drawn as an overpass and tall trees whose
// crowns render above characters.
package lake

import (
	"rmmv-tiles/internal/core"
	"rmmv-tiles/internal/samples"
	"rmmv-tiles/internal/tile"
	pcore "rmmv-tiles/pkg/core"
)

// Normal tiles placed by the generator.
const (
	TileBridge    = tile.IDB + 58
	TileTreeTrunk = tile.IDB + 24
	TileTreeCrown = tile.IDB + 16
	TileRock      = tile.IDC + 9
	TileFlower    = tile.IDA5 + 20
)

// RegionLake marks water cells on the region plane.
const RegionLake = 1

// Cliff rows: two rows of cliff top followed by two of cliff face.
const (
	cliffTopRow  = 2
	cliffFaceRow = 4
	cliffBottom  = 6
)

// DefaultConfig returns the standard lake dimensions.
func DefaultConfig() samples.Config {
	return samples.Config{Width: 40, Height: 30, Seed: 7}
}

// Layout records where the generator put its features.
type Layout struct {
	CliffEnd      int // first column east of the cliff
	FallX         int // west column of the two-wide waterfall
	CenterX       int
	CenterY       int
	RadiusX       int
	RadiusY       int
	BridgeY       int
	BridgeX0      int
	BridgeX1      int // exclusive
	Trees         int
	WaterCells    int
	OverpassCells int
}

// Generate builds the lake map described by c.
func Generate(c samples.Config) (*samples.Map, Layout) {
	m := samples.NewMap("lake", c)
	rng := pcore.NewRNG(c.Seed)
	w, h := m.W, m.H

	var l Layout
	l.CliffEnd = w * 2 / 3
	l.FallX = l.CliffEnd / 2
	l.CenterX = l.FallX + 1
	l.CenterY = (h + cliffBottom) / 2
	l.RadiusX = max(w/4, 2)
	l.RadiusY = max((h-cliffBottom)/3, 2)

	m.Fill(0, 0, w, h, 0, samples.Kind(samples.KindGrass))

	// cliff with a waterfall cut into its face
	m.Fill(0, cliffTopRow, l.CliffEnd, cliffFaceRow, 0, samples.Kind(samples.KindCliffTop))
	m.Fill(0, cliffFaceRow, l.CliffEnd, cliffBottom, 0, samples.Kind(samples.KindCliffSide))
	m.Fill(l.FallX, cliffFaceRow, l.FallX+2, cliffBottom, 0, samples.Kind(samples.KindWaterfall))
	for y := cliffFaceRow; y < cliffBottom; y++ {
		m.Set(l.CliffEnd, y, core.PlaneShadow, samples.ShadowWest)
	}

	// lake, with a stream from the foot of the waterfall
	for y := cliffBottom; y < h; y++ {
		jitter := rng.Between(-1, 1)
		for x := 0; x < w; x++ {
			dx := float64(x-l.CenterX) / float64(l.RadiusX+jitter)
			dy := float64(y-l.CenterY) / float64(l.RadiusY)
			d := dx*dx + dy*dy
			switch {
			case d <= 0.3:
				m.Set(x, y, 0, samples.Kind(samples.KindDeepWater))
			case d <= 1:
				m.Set(x, y, 0, samples.Kind(samples.KindWater))
			}
		}
	}
	for y := cliffBottom; y < l.CenterY; y++ {
		for x := l.FallX; x < l.FallX+2; x++ {
			if !tile.IsWater(m.At(x, y, 0)) {
				m.Set(x, y, 0, samples.Kind(samples.KindWater))
			}
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if tile.IsWater(m.At(x, y, 0)) && !tile.IsWaterfall(m.At(x, y, 0)) {
				m.Set(x, y, core.PlaneRegion, RegionLake)
				l.WaterCells++
			}
		}
	}

	// bridge across the lake's widest row
	l.BridgeY = l.CenterY
	l.BridgeX0, l.BridgeX1 = -1, -1
	for x := 0; x < w; x++ {
		if m.At(x, l.BridgeY, core.PlaneRegion) != RegionLake {
			continue
		}
		if l.BridgeX0 < 0 {
			l.BridgeX0 = x
		}
		l.BridgeX1 = x + 1
		m.Set(x, l.BridgeY, 2, TileBridge)
		m.MarkOverpass(x, l.BridgeY)
		l.OverpassCells++
	}

	// rocks in the shallows, trees and flowers on the grass
	for y := cliffBottom + 1; y < h; y++ {
		for x := 0; x < w; x++ {
			base := m.At(x, y, 0)
			if tile.IsWater(base) {
				if y != l.BridgeY && tile.AutotileKind(base) == samples.KindWater && rng.Chance(0.04) {
					m.Set(x, y, 2, TileRock)
				}
				continue
			}
			above := m.At(x, y-1, 0)
			switch {
			case tile.IsSameKind(above, base) && m.At(x, y-1, 2) == 0 && rng.Chance(0.05):
				m.Set(x, y, 2, TileTreeTrunk)
				m.Set(x, y-1, 3, TileTreeCrown)
				l.Trees++
			case m.At(x, y, 2) == 0 && rng.Chance(0.08):
				m.Set(x, y, 1, TileFlower)
			}
		}
	}
	m.SetFlag(TileTreeCrown, tile.FlagHigher)

	m.Autotile(0)
	return m, l
}

func init() {
	core.Register("lake", func(cfg map[string]string) core.Source {
		m, _ := Generate(samples.FromMap(cfg, DefaultConfig()))
		return m
	})
}
