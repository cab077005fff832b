package surface

import "beltforge/internal/blueprint"

// GhostName is the nominal entity name every provisional placement carries.
const GhostName = "entity-ghost"

// Ghost is a provisional, not-yet-real entity. It is created by stamping a
// stack and destroyed by successful revival; a failed revival leaves it
// inert on the surface.
type Ghost struct {
	id int

	Name      string // always GhostName
	InnerName string // the buildable name this ghost stands for
	Pos       Pos
	Force     string

	// SpecIndex is the index of the authored spec this ghost was stamped
	// from.
	SpecIndex int

	Requests []blueprint.ItemRequest

	dead bool
}

func (g *Ghost) ID() int { return g.id }

// Revive converts a ghost into a real entity. revived == false means the
// ghost stays inert: the tile is occupied, or a resource-requiring
// prototype has no deposit under it. Absence of the entity is an outcome,
// not an error.
func (s *Surface) Revive(g *Ghost) (*Entity, bool) {
	if g == nil || g.dead {
		return nil, false
	}
	if Proto(g.InnerName).RequiresResource {
		if _, ok := s.DepositAt(g.Pos); !ok {
			return nil, false
		}
	}
	e, err := s.createEntity(g.InnerName, g.Pos, g.Force)
	if err != nil {
		return nil, false
	}
	g.dead = true
	delete(s.ghosts, g.id)
	return e, true
}
