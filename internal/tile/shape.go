package tile

// Neighbors reports whether the cell at offset (dx, dy) continues the
// autotile being shaped.
type Neighbors func(dx, dy int) bool

// quadrant pieces of the floor layout, indexed by corner then by piece kind.
const (
	pieceInterior = iota
	pieceInner
	pieceVertical   // side edge: the horizontal neighbour differs
	pieceHorizontal // top/bottom edge: the vertical neighbour differs
	pieceOuter
)

var floorPieces = [4][5]Quadrant{
	{{2, 4}, {2, 0}, {0, 4}, {2, 2}, {0, 2}},
	{{1, 4}, {3, 0}, {3, 4}, {1, 2}, {3, 2}},
	{{2, 3}, {2, 1}, {0, 3}, {2, 5}, {0, 5}},
	{{1, 3}, {3, 1}, {3, 3}, {1, 5}, {3, 5}},
}

// FloorShape derives the 48-table shape for a floor-type autotile from its
// eight neighbours. A fully surrounded tile yields 0, an isolated tile 46.
func FloorShape(same Neighbors) int {
	var want Shape
	for i := 0; i < 4; i++ {
		sx := -1
		if i%2 == 1 {
			sx = 1
		}
		sy := -1
		if i/2 == 1 {
			sy = 1
		}
		horiz := same(sx, 0)
		vert := same(0, sy)
		piece := pieceOuter
		switch {
		case horiz && vert && same(sx, sy):
			piece = pieceInterior
		case horiz && vert:
			piece = pieceInner
		case vert:
			piece = pieceVertical
		case horiz:
			piece = pieceHorizontal
		}
		want[i] = floorPieces[i][piece]
	}
	for n := range floorTable {
		if floorTable[n] == want {
			return n
		}
	}
	return 0
}

// WallShape derives the 16-table shape: one bit per differing side, in the
// order west, north, east, south.
func WallShape(same Neighbors) int {
	shape := 0
	if !same(-1, 0) {
		shape |= 1
	}
	if !same(0, -1) {
		shape |= 2
	}
	if !same(1, 0) {
		shape |= 4
	}
	if !same(0, 1) {
		shape |= 8
	}
	return shape
}

// WaterfallShape derives the 4-table shape from the west and east neighbours.
func WaterfallShape(same Neighbors) int {
	shape := 0
	if !same(-1, 0) {
		shape |= 1
	}
	if !same(1, 0) {
		shape |= 2
	}
	return shape
}
