package tile

// Category names the tileset page an ID belongs to.
type Category uint8

const (
	CategoryEmpty Category = iota
	CategoryB
	CategoryC
	CategoryD
	CategoryE
	// CategoryUnused covers [1024, 1536), which no tileset page maps to.
	CategoryUnused
	CategoryA5
	CategoryA1
	CategoryA2
	CategoryA3
	CategoryA4
	CategoryInvalid
)

var categoryNames = [...]string{
	CategoryEmpty:   "empty",
	CategoryB:       "B",
	CategoryC:       "C",
	CategoryD:       "D",
	CategoryE:       "E",
	CategoryUnused:  "unused",
	CategoryA5:      "A5",
	CategoryA1:      "A1",
	CategoryA2:      "A2",
	CategoryA3:      "A3",
	CategoryA4:      "A4",
	CategoryInvalid: "invalid",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "invalid"
}

// CategoryOf classifies id into exactly one Category.
func CategoryOf(id int) Category {
	switch {
	case id < 0 || id >= IDMax:
		return CategoryInvalid
	case id == 0:
		return CategoryEmpty
	case id < IDC:
		return CategoryB
	case id < IDD:
		return CategoryC
	case id < IDE:
		return CategoryD
	case id < 1024:
		return CategoryE
	case id < IDA5:
		return CategoryUnused
	case IsA5(id):
		return CategoryA5
	case IsA1(id):
		return CategoryA1
	case IsA2(id):
		return CategoryA2
	case IsA3(id):
		return CategoryA3
	default:
		return CategoryA4
	}
}

// Tileset flag bits.
const (
	FlagHigher = 0x10
	FlagTable  = 0x80
)

// Flags is the per-tile-ID flag array of a tileset.
type Flags []int

// At returns the flag word for id, or 0 when id has no entry.
func (f Flags) At(id int) int {
	if id < 0 || id >= len(f) {
		return 0
	}
	return f[id]
}

// Higher reports whether id renders above characters.
func (f Flags) Higher(id int) bool { return f.At(id)&FlagHigher != 0 }

// Table reports whether id is an A2 table tile.
func (f Flags) Table(id int) bool { return IsA2(id) && f.At(id)&FlagTable != 0 }
