package tile

// Quadrant is a (qsx, qsy) half-tile coordinate inside an autotile block.
type Quadrant [2]int

// Shape lists the source quadrant for the top-left, top-right, bottom-left
// and bottom-right corners of a composed tile.
type Shape [4]Quadrant

// Table selects one of the static autotile shape tables.
type Table uint8

const (
	TableFloor Table = iota
	TableWall
	TableWaterfall
)

func (t Table) String() string {
	switch t {
	case TableFloor:
		return "floor"
	case TableWall:
		return "wall"
	case TableWaterfall:
		return "waterfall"
	default:
		return "unknown"
	}
}

// Len returns the number of shapes in the table.
func (t Table) Len() int {
	switch t {
	case TableFloor:
		return len(floorTable)
	case TableWall:
		return len(wallTable)
	case TableWaterfall:
		return len(waterfallTable)
	default:
		return 0
	}
}

// Shape returns a copy of entry n. ok is false when n is outside the table.
func (t Table) Shape(n int) (s Shape, ok bool) {
	if n < 0 || n >= t.Len() {
		return Shape{}, false
	}
	switch t {
	case TableFloor:
		return floorTable[n], true
	case TableWall:
		return wallTable[n], true
	default:
		return waterfallTable[n], true
	}
}

// TableEdgeMirror mirrors a quadrant column for the upper half of a table
// edge: {0,1,2,3} -> {0,3,2,1}.
func TableEdgeMirror(qsx int) int { return (4 - qsx) % 4 }

var floorTable = [48]Shape{
	{{2, 4}, {1, 4}, {2, 3}, {1, 3}},
	{{2, 0}, {1, 4}, {2, 3}, {1, 3}},
	{{2, 4}, {3, 0}, {2, 3}, {1, 3}},
	{{2, 0}, {3, 0}, {2, 3}, {1, 3}},
	{{2, 4}, {1, 4}, {2, 3}, {3, 1}},
	{{2, 0}, {1, 4}, {2, 3}, {3, 1}},
	{{2, 4}, {3, 0}, {2, 3}, {3, 1}},
	{{2, 0}, {3, 0}, {2, 3}, {3, 1}},
	{{2, 4}, {1, 4}, {2, 1}, {1, 3}},
	{{2, 0}, {1, 4}, {2, 1}, {1, 3}},
	{{2, 4}, {3, 0}, {2, 1}, {1, 3}},
	{{2, 0}, {3, 0}, {2, 1}, {1, 3}},
	{{2, 4}, {1, 4}, {2, 1}, {3, 1}},
	{{2, 0}, {1, 4}, {2, 1}, {3, 1}},
	{{2, 4}, {3, 0}, {2, 1}, {3, 1}},
	{{2, 0}, {3, 0}, {2, 1}, {3, 1}},
	{{0, 4}, {1, 4}, {0, 3}, {1, 3}},
	{{0, 4}, {3, 0}, {0, 3}, {1, 3}},
	{{0, 4}, {1, 4}, {0, 3}, {3, 1}},
	{{0, 4}, {3, 0}, {0, 3}, {3, 1}},
	{{2, 2}, {1, 2}, {2, 3}, {1, 3}},
	{{2, 2}, {1, 2}, {2, 3}, {3, 1}},
	{{2, 2}, {1, 2}, {2, 1}, {1, 3}},
	{{2, 2}, {1, 2}, {2, 1}, {3, 1}},
	{{2, 4}, {3, 4}, {2, 3}, {3, 3}},
	{{2, 4}, {3, 4}, {2, 1}, {3, 3}},
	{{2, 0}, {3, 4}, {2, 3}, {3, 3}},
	{{2, 0}, {3, 4}, {2, 1}, {3, 3}},
	{{2, 4}, {1, 4}, {2, 5}, {1, 5}},
	{{2, 0}, {1, 4}, {2, 5}, {1, 5}},
	{{2, 4}, {3, 0}, {2, 5}, {1, 5}},
	{{2, 0}, {3, 0}, {2, 5}, {1, 5}},
	{{0, 4}, {3, 4}, {0, 3}, {3, 3}},
	{{2, 2}, {1, 2}, {2, 5}, {1, 5}},
	{{0, 2}, {1, 2}, {0, 3}, {1, 3}},
	{{0, 2}, {1, 2}, {0, 3}, {3, 1}},
	{{2, 2}, {3, 2}, {2, 3}, {3, 3}},
	{{2, 2}, {3, 2}, {2, 1}, {3, 3}},
	{{2, 4}, {3, 4}, {2, 5}, {3, 5}},
	{{2, 0}, {3, 4}, {2, 5}, {3, 5}},
	{{0, 4}, {1, 4}, {0, 5}, {1, 5}},
	{{0, 4}, {3, 0}, {0, 5}, {1, 5}},
	{{0, 2}, {3, 2}, {0, 3}, {3, 3}},
	{{0, 2}, {1, 2}, {0, 5}, {1, 5}},
	{{0, 4}, {3, 4}, {0, 5}, {3, 5}},
	{{2, 2}, {3, 2}, {2, 5}, {3, 5}},
	{{0, 2}, {3, 2}, {0, 5}, {3, 5}},
	{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
}

var wallTable = [16]Shape{
	{{2, 2}, {1, 2}, {2, 1}, {1, 1}},
	{{0, 2}, {1, 2}, {0, 1}, {1, 1}},
	{{2, 0}, {1, 0}, {2, 1}, {1, 1}},
	{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	{{2, 2}, {3, 2}, {2, 1}, {3, 1}},
	{{0, 2}, {3, 2}, {0, 1}, {3, 1}},
	{{2, 0}, {3, 0}, {2, 1}, {3, 1}},
	{{0, 0}, {3, 0}, {0, 1}, {3, 1}},
	{{2, 2}, {1, 2}, {2, 3}, {1, 3}},
	{{0, 2}, {1, 2}, {0, 3}, {1, 3}},
	{{2, 0}, {1, 0}, {2, 3}, {1, 3}},
	{{0, 0}, {1, 0}, {0, 3}, {1, 3}},
	{{2, 2}, {3, 2}, {2, 3}, {3, 3}},
	{{0, 2}, {3, 2}, {0, 3}, {3, 3}},
	{{2, 0}, {3, 0}, {2, 3}, {3, 3}},
	{{0, 0}, {3, 0}, {0, 3}, {3, 3}},
}

var waterfallTable = [4]Shape{
	{{2, 0}, {1, 0}, {2, 1}, {1, 1}},
	{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	{{2, 0}, {3, 0}, {2, 1}, {3, 1}},
	{{0, 0}, {3, 0}, {0, 1}, {3, 1}},
}
