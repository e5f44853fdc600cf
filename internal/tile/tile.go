// Package tile decodes RPG Maker MV tile IDs: range classification, autotile
// kind/shape arithmetic and the static shape tables used to compose autotiles
// from half-tile quadrants.
package tile

// Tile ID range boundaries. Ranges are half-open: [IDB, IDC) is the B page,
// [IDA4, IDMax) the A4 page.
const (
	IDB   = 0
	IDC   = 256
	IDD   = 512
	IDE   = 768
	IDA5  = 1536
	IDA1  = 2048
	IDA2  = 2816
	IDA3  = 4352
	IDA4  = 5888
	IDMax = 8192
)

// ShapesPerKind is the number of shape slots reserved for every autotile kind.
const ShapesPerKind = 48

// IsVisible reports whether id references a drawable tile.
func IsVisible(id int) bool { return id > 0 && id < IDMax }

// IsAutotile reports whether id lies in an autotile page (A1 and above).
func IsAutotile(id int) bool { return id >= IDA1 }

// AutotileKind returns the autotile family index of id.
func AutotileKind(id int) int { return floorDiv(id-IDA1, ShapesPerKind) }

// AutotileShape returns the edge-connection configuration index of id.
func AutotileShape(id int) int { return (id - IDA1) % ShapesPerKind }

// MakeAutotileID builds the tile ID for the given kind and shape.
func MakeAutotileID(kind, shape int) int { return IDA1 + kind*ShapesPerKind + shape }

// IsSameKind reports whether two IDs are autotiles of one kind, or otherwise
// identical.
func IsSameKind(a, b int) bool {
	if IsAutotile(a) && IsAutotile(b) {
		return AutotileKind(a) == AutotileKind(b)
	}
	return a == b
}

func IsA1(id int) bool { return id >= IDA1 && id < IDA2 }
func IsA2(id int) bool { return id >= IDA2 && id < IDA3 }
func IsA3(id int) bool { return id >= IDA3 && id < IDA4 }
func IsA4(id int) bool { return id >= IDA4 && id < IDMax }
func IsA5(id int) bool { return id >= IDA5 && id < IDA1 }

// IsWater reports A1 tiles outside the [A1+96, A1+192) block, which holds
// the deep-sea and decoration kinds.
func IsWater(id int) bool {
	if IsA1(id) {
		return !(id >= IDA1+96 && id < IDA1+192)
	}
	return false
}

// IsWaterfall reports A1 tiles from kind 4 onwards with an odd kind.
func IsWaterfall(id int) bool {
	if id >= IDA1+192 && id < IDA2 {
		return AutotileKind(id)%2 == 1
	}
	return false
}

func IsGround(id int) bool    { return IsA1(id) || IsA2(id) || IsA5(id) }
func IsShadowing(id int) bool { return IsA3(id) || IsA4(id) }

func IsRoof(id int) bool    { return IsA3(id) && AutotileKind(id)%16 < 8 }
func IsWallTop(id int) bool { return IsA4(id) && AutotileKind(id)%16 < 8 }

func IsWallSide(id int) bool {
	return (IsA3(id) || IsA4(id)) && AutotileKind(id)%16 >= 8
}

func IsWall(id int) bool { return IsWallTop(id) || IsWallSide(id) }

// IsFloorTypeAutotile reports autotiles composed with the 48-shape floor table.
func IsFloorTypeAutotile(id int) bool {
	return (IsA1(id) && !IsWaterfall(id)) || IsA2(id) || IsWallTop(id)
}

// IsWallTypeAutotile reports autotiles composed with the 16-shape wall table.
func IsWallTypeAutotile(id int) bool { return IsRoof(id) || IsWallSide(id) }

// IsWaterfallTypeAutotile reports autotiles composed with the waterfall table.
func IsWaterfallTypeAutotile(id int) bool { return IsWaterfall(id) }

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
