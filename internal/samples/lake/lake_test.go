package lake

import (
	"slices"
	"testing"

	"rmmv-tiles/internal/core"
	"rmmv-tiles/internal/tile"
)

func TestGenerateDeterministic(t *testing.T) {
	a, la := Generate(DefaultConfig())
	b, lb := Generate(DefaultConfig())
	if !slices.Equal(a.Data(), b.Data()) {
		t.Fatal("same seed produced different maps")
	}
	if la.Trees != lb.Trees || la.WaterCells != lb.WaterCells {
		t.Fatalf("layouts differ: %+v vs %+v", la, lb)
	}
}

func TestWaterfallAndCliff(t *testing.T) {
	m, l := Generate(DefaultConfig())
	for y := cliffFaceRow; y < cliffBottom; y++ {
		for x := l.FallX; x < l.FallX+2; x++ {
			if id := m.At(x, y, 0); !tile.IsWaterfall(id) {
				t.Fatalf("(%d,%d) id %d is not a waterfall", x, y, id)
			}
		}
		if id := m.At(0, y, 0); !tile.IsWallSide(id) {
			t.Fatalf("cliff face at (0,%d) id %d", y, id)
		}
		if m.At(l.CliffEnd, y, core.PlaneShadow) == 0 {
			t.Fatalf("no shadow east of the cliff on row %d", y)
		}
	}
	if id := m.At(0, cliffTopRow, 0); !tile.IsWallTop(id) {
		t.Fatalf("cliff top id %d", id)
	}
	if shape := tile.AutotileShape(m.At(l.FallX, cliffFaceRow, 0)); shape != 1 {
		t.Fatalf("west waterfall column shape %d, want 1", shape)
	}
}

func TestLakeRegionMatchesWater(t *testing.T) {
	m, l := Generate(DefaultConfig())
	if l.WaterCells == 0 {
		t.Fatal("no water generated")
	}
	count := 0
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			id := m.At(x, y, 0)
			region := m.At(x, y, core.PlaneRegion)
			water := tile.IsWater(id) && !tile.IsWaterfall(id)
			if water != (region == RegionLake) {
				t.Fatalf("(%d,%d) water=%v region=%d", x, y, water, region)
			}
			if water {
				count++
			}
		}
	}
	if count != l.WaterCells {
		t.Fatalf("counted %d water cells, layout says %d", count, l.WaterCells)
	}
	if !tile.IsWater(m.At(l.CenterX, l.CenterY, 0)) || tile.AutotileKind(m.At(l.CenterX, l.CenterY, 0)) != 1 {
		t.Fatal("lake centre should be deep water")
	}
}

func TestBridgeIsOverpass(t *testing.T) {
	m, l := Generate(DefaultConfig())
	if l.OverpassCells == 0 || l.BridgeX1-l.BridgeX0 != l.OverpassCells {
		t.Fatalf("bridge %d..%d with %d overpass cells", l.BridgeX0, l.BridgeX1, l.OverpassCells)
	}
	for x := l.BridgeX0; x < l.BridgeX1; x++ {
		if !m.IsOverpass(x, l.BridgeY) || m.At(x, l.BridgeY, 2) != TileBridge {
			t.Fatalf("bridge cell (%d,%d) missing", x, l.BridgeY)
		}
	}
	if m.IsOverpass(l.BridgeX0, l.BridgeY+1) {
		t.Fatal("row below the bridge marked as overpass")
	}
}

func TestTreeCrownsAreHigher(t *testing.T) {
	m, l := Generate(DefaultConfig())
	if l.Trees == 0 {
		t.Fatal("no trees generated")
	}
	fl := tile.Flags(m.Flags())
	if !fl.Higher(TileTreeCrown) || fl.Higher(TileTreeTrunk) {
		t.Fatal("crown must be higher, trunk must not")
	}
	crowns := 0
	for y := 0; y < m.H-1; y++ {
		for x := 0; x < m.W; x++ {
			if m.At(x, y, 3) == TileTreeCrown {
				crowns++
				if m.At(x, y+1, 2) != TileTreeTrunk {
					t.Fatalf("crown at (%d,%d) without trunk", x, y)
				}
			}
		}
	}
	if crowns != l.Trees {
		t.Fatalf("%d crowns for %d trees", crowns, l.Trees)
	}
}

func TestRegistered(t *testing.T) {
	f, ok := core.Sources()["lake"]
	if !ok {
		t.Fatal("lake not registered")
	}
	src := f(map[string]string{"w": "24", "h": "20", "vwrap": "true"})
	if src.Size() != (core.Size{W: 24, H: 20}) {
		t.Fatalf("size = %+v", src.Size())
	}
	if _, v := src.Wrap(); !v {
		t.Fatal("vwrap override ignored")
	}
	if _, ok := src.(core.OverpassSource); !ok {
		t.Fatal("lake should expose its bridge")
	}
}
