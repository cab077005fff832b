package surface

import (
	"math"

	"beltforge/internal/blueprint"
)

type Pos = blueprint.Pos

// Tile is the integer cell a position falls into. Deposits and entity
// occupancy are tracked per tile.
type Tile struct {
	X int
	Y int
}

func TileOf(p Pos) Tile {
	return Tile{X: int(math.Floor(p.X)), Y: int(math.Floor(p.Y))}
}

// ItemStack is a (name, quality, count) insertion request.
type ItemStack struct {
	Name    string
	Quality string
	Count   int
}

// ResourceDeposit is a minable resource lying on a tile.
type ResourceDeposit struct {
	Resource string
	Amount   int64
}
