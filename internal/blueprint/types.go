package blueprint

// Quality tiers as they appear on item requests. An absent quality field
// means the base tier.
const (
	QualityNormal    = "normal"
	QualityUncommon  = "uncommon"
	QualityRare      = "rare"
	QualityEpic      = "epic"
	QualityLegendary = "legendary"
)

// Pos is a map position in tile coordinates. Blueprint-local and surface
// positions share the same space; stamping just translates.
type Pos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Pos) Add(o Pos) Pos { return Pos{X: p.X + o.X, Y: p.Y + o.Y} }
func (p Pos) Sub(o Pos) Pos { return Pos{X: p.X - o.X, Y: p.Y - o.Y} }

// Wrapper is the top-level JSON object of an exchange string. Books are not
// supported; a payload without a "blueprint" key fails decoding.
type Wrapper struct {
	Blueprint *Blueprint `json:"blueprint"`
}

type Blueprint struct {
	Item     string       `json:"item"`
	Label    string       `json:"label,omitempty"`
	Entities []EntitySpec `json:"entities,omitempty"`
	Version  uint64       `json:"version"`
}

// EntitySpec is one authored entity of the decoded payload. Read-only after
// decoding.
type EntitySpec struct {
	EntityNumber int           `json:"entity_number"`
	Name         string        `json:"name"`
	Position     Pos           `json:"position"`
	Direction    int           `json:"direction,omitempty"`
	Items        []ItemRequest `json:"items,omitempty"`
}

// ItemRequest asks for count items of a (name, quality) pair to be delivered
// into the built entity.
type ItemRequest struct {
	ID    ItemID `json:"id"`
	Count int    `json:"count"`
}

type ItemID struct {
	Name    string `json:"name"`
	Quality string `json:"quality,omitempty"`
}

// QualityTier returns the request's quality with the absent field normalized
// to the base tier.
func (id ItemID) QualityTier() string {
	if id.Quality == "" {
		return QualityNormal
	}
	return id.Quality
}
