package tile

import "testing"

func neighbors(mask map[[2]int]bool) Neighbors {
	return func(dx, dy int) bool { return mask[[2]int{dx, dy}] }
}

func all(dx, dy int) bool  { return true }
func none(dx, dy int) bool { return false }

func TestFloorShapeExtremes(t *testing.T) {
	if got := FloorShape(all); got != 0 {
		t.Fatalf("surrounded tile shape=%d, want 0", got)
	}
	if got := FloorShape(none); got != 46 {
		t.Fatalf("isolated tile shape=%d, want 46", got)
	}
}

func TestFloorShapeCoversEditorShapes(t *testing.T) {
	offsets := [8][2]int{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}}
	seen := map[int]bool{}
	for bits := 0; bits < 256; bits++ {
		mask := map[[2]int]bool{}
		for i, off := range offsets {
			if bits&(1<<i) != 0 {
				mask[off] = true
			}
		}
		shape := FloorShape(neighbors(mask))
		if shape < 0 || shape >= 47 {
			t.Fatalf("neighbour mask %08b gave shape %d", bits, shape)
		}
		seen[shape] = true
	}
	if len(seen) != 47 {
		t.Fatalf("derived %d distinct shapes, want 47", len(seen))
	}
}

func TestFloorShapeInnerCorner(t *testing.T) {
	// Every neighbour matches except the top-left diagonal.
	mask := map[[2]int]bool{
		{0, -1}: true, {1, -1}: true,
		{-1, 0}: true, {1, 0}: true,
		{-1, 1}: true, {0, 1}: true, {1, 1}: true,
	}
	if got := FloorShape(neighbors(mask)); got != 1 {
		t.Fatalf("inner top-left corner shape=%d, want 1", got)
	}
}

func TestFloorShapeOpenWest(t *testing.T) {
	mask := map[[2]int]bool{
		{0, -1}: true, {1, -1}: true,
		{1, 0}: true,
		{0, 1}: true, {1, 1}: true,
	}
	if got := FloorShape(neighbors(mask)); got != 16 {
		t.Fatalf("open west edge shape=%d, want 16", got)
	}
}

func TestWallShape(t *testing.T) {
	if got := WallShape(all); got != 0 {
		t.Fatalf("surrounded wall shape=%d, want 0", got)
	}
	if got := WallShape(none); got != 15 {
		t.Fatalf("isolated wall shape=%d, want 15", got)
	}
	north := map[[2]int]bool{{-1, 0}: true, {1, 0}: true, {0, 1}: true}
	if got := WallShape(neighbors(north)); got != 2 {
		t.Fatalf("open north wall shape=%d, want 2", got)
	}
}

func TestWaterfallShape(t *testing.T) {
	if got := WaterfallShape(all); got != 0 {
		t.Fatalf("waterfall between falls shape=%d, want 0", got)
	}
	if got := WaterfallShape(none); got != 3 {
		t.Fatalf("lone waterfall shape=%d, want 3", got)
	}
	east := map[[2]int]bool{{-1, 0}: true}
	if got := WaterfallShape(neighbors(east)); got != 2 {
		t.Fatalf("open east waterfall shape=%d, want 2", got)
	}
}
