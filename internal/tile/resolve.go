package tile

import "math"

// Autotile describes where an autotile samples its quadrants from.
type Autotile struct {
	SetNumber int // tileset page: 0=A1, 1=A2, 2=A3, 3=A4
	BaseX     int // block origin in tile units, before the half-tile doubling
	BaseY     int
	Table     Table
	Shape     int
	IsTable   bool
	AnimX     int
	AnimY     int
}

// Piece is one textured rectangle of a composed tile. DX/DY are relative to
// the tile's top-left corner.
type Piece struct {
	U, V   float64
	W, H   float64
	DX, DY float64
}

// ResolveAutotile maps an A1-A4 tile ID to its sampling parameters. ok is
// false for non-autotile IDs and for shapes outside the selected table.
func ResolveAutotile(id int, flags Flags) (a Autotile, ok bool) {
	kind := AutotileKind(id)
	tx := kind % 8
	ty := kind / 8
	a.Table = TableFloor
	a.Shape = AutotileShape(id)

	switch {
	case IsA1(id):
		a.SetNumber = 0
		switch kind {
		case 0:
			a.AnimX = 2
			a.BaseY = 0
		case 1:
			a.AnimX = 2
			a.BaseY = 3
		case 2:
			a.BaseX = 6
			a.BaseY = 0
		case 3:
			a.BaseX = 6
			a.BaseY = 3
		default:
			a.BaseX = (tx / 4) * 8
			a.BaseY = ty*6 + ((tx/2)%2)*3
			if kind%2 == 0 {
				a.AnimX = 2
			} else {
				a.BaseX += 6
				a.Table = TableWaterfall
				a.AnimY = 1
			}
		}
	case IsA2(id):
		a.SetNumber = 1
		a.BaseX = tx * 2
		a.BaseY = (ty - 2) * 3
		a.IsTable = flags.Table(id)
	case IsA3(id):
		a.SetNumber = 2
		a.BaseX = tx * 2
		a.BaseY = (ty - 6) * 2
		a.Table = TableWall
	case IsA4(id):
		a.SetNumber = 3
		a.BaseX = tx * 2
		half := 0.0
		if ty%2 == 1 {
			half = 0.5
			a.Table = TableWall
		}
		a.BaseY = int(math.Floor(float64(ty-10)*2.5 + half))
	default:
		return Autotile{}, false
	}

	if a.Shape < 0 || a.Shape >= a.Table.Len() {
		return Autotile{}, false
	}
	return a, true
}

// Pieces appends the quadrant rectangles of a to buf. A table autotile splits
// every bottom-facing quadrant (qsy 1 or 5) into a full-height piece sampled
// from row 3, mirrored when qsy is 1, and a half-height piece from the
// original quadrant drawn over its lower half.
func (a Autotile) Pieces(tileWidth, tileHeight float64, buf []Piece) []Piece {
	shape, ok := a.Table.Shape(a.Shape)
	if !ok {
		return buf
	}
	w1 := tileWidth / 2
	h1 := tileHeight / 2
	for i := 0; i < 4; i++ {
		qsx := shape[i][0]
		qsy := shape[i][1]
		sx1 := float64(a.BaseX*2+qsx) * w1
		sy1 := float64(a.BaseY*2+qsy) * h1
		dx1 := float64(i%2) * w1
		dy1 := float64(i/2) * h1

		if a.IsTable && (qsy == 1 || qsy == 5) {
			qsx2 := qsx
			const qsy2 = 3
			if qsy == 1 {
				qsx2 = TableEdgeMirror(qsx)
			}
			sx2 := float64(a.BaseX*2+qsx2) * w1
			sy2 := float64(a.BaseY*2+qsy2) * h1
			buf = append(buf,
				Piece{U: sx2, V: sy2, W: w1, H: h1, DX: dx1, DY: dy1},
				Piece{U: sx1, V: sy1, W: w1, H: h1 / 2, DX: dx1, DY: dy1 + h1/2},
			)
			continue
		}
		buf = append(buf, Piece{U: sx1, V: sy1, W: w1, H: h1, DX: dx1, DY: dy1})
	}
	return buf
}

// TableEdgePieces appends the two half-height pieces of the near edge of an
// A2 table tile, drawn into the cell below the table. Non-A2 IDs append
// nothing.
func TableEdgePieces(id int, tileWidth, tileHeight float64, buf []Piece) []Piece {
	if !IsA2(id) {
		return buf
	}
	kind := AutotileKind(id)
	bx := (kind % 8) * 2
	by := (kind/8 - 2) * 3
	shape, ok := TableFloor.Shape(AutotileShape(id))
	if !ok {
		return buf
	}
	w1 := tileWidth / 2
	h1 := tileHeight / 2
	for i := 0; i < 2; i++ {
		qsx := shape[2+i][0]
		qsy := shape[2+i][1]
		buf = append(buf, Piece{
			U:  float64(bx*2+qsx) * w1,
			V:  float64(by*2+qsy)*h1 + h1/2,
			W:  w1,
			H:  h1 / 2,
			DX: float64(i%2) * w1,
			DY: float64(i/2) * h1,
		})
	}
	return buf
}

// NormalSource returns the tileset page and source texel of a non-autotile ID.
func NormalSource(id int, tileWidth, tileHeight float64) (set int, u, v float64) {
	if IsA5(id) {
		set = 4
	} else {
		set = 5 + id/256
	}
	u = float64((id/128)%2*8+id%8) * tileWidth
	v = float64((id%256)/8%16) * tileHeight
	return set, u, v
}
