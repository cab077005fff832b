package surface

// Prototype describes the fixed, data-driven traits of a buildable name.
// The table is closed: extending behavior means adding rows, not branches.
type Prototype struct {
	Type             string
	RequiresResource bool // must sit on a deposit to exist as a ghost or entity
	ModuleSlots      int
}

var prototypes = map[string]Prototype{
	"big-mining-drill":      {Type: "mining-drill", RequiresResource: true, ModuleSlots: 4},
	"electric-mining-drill": {Type: "mining-drill", RequiresResource: true, ModuleSlots: 3},
	"assembling-machine-2":  {Type: "assembling-machine", ModuleSlots: 2},
	"assembling-machine-3":  {Type: "assembling-machine", ModuleSlots: 4},
	"electric-furnace":      {Type: "furnace", ModuleSlots: 2},
	"beacon":                {Type: "beacon", ModuleSlots: 2},
	"roboport":              {Type: "roboport"},
	"locomotive":            {Type: "locomotive"},
	"cargo-wagon":           {Type: "cargo-wagon"},
	"fluid-wagon":           {Type: "fluid-wagon"},
	"transport-belt":        {Type: "transport-belt"},
	"inserter":              {Type: "inserter"},
	"small-electric-pole":   {Type: "electric-pole"},
	"straight-rail":         {Type: "straight-rail"},
	"steel-chest":           {Type: "container"},
}

// Proto returns the prototype for a buildable name. Names outside the table
// build as plain structures with no module slots.
func Proto(name string) Prototype {
	if p, ok := prototypes[name]; ok {
		return p
	}
	return Prototype{Type: "structure"}
}

// RollingStock tags the build classes whose revival is deferred until
// everything else in a pass has settled.
type RollingStock int

const (
	NotRollingStock RollingStock = iota
	Locomotive
	CargoWagon
	FluidWagon
)

var rollingStockByName = map[string]RollingStock{
	"locomotive":  Locomotive,
	"cargo-wagon": CargoWagon,
	"fluid-wagon": FluidWagon,
}

func ClassifyRollingStock(name string) RollingStock {
	return rollingStockByName[name]
}
