package surface

import (
	"fmt"
	"sort"
)

// Surface is the map state of one session. Like the session that owns it,
// it is single-threaded: all access happens from the session loop goroutine
// (or synchronously in tests).
type Surface struct {
	name string

	deposits map[Tile]*ResourceDeposit
	entities map[int]*Entity
	byTile   map[Tile]int // tile -> entity id
	ghosts   map[int]*Ghost

	nextEntityID int
	nextGhostID  int
}

func New(name string) *Surface {
	return &Surface{
		name:     name,
		deposits: map[Tile]*ResourceDeposit{},
		entities: map[int]*Entity{},
		byTile:   map[Tile]int{},
		ghosts:   map[int]*Ghost{},
	}
}

func (s *Surface) Name() string { return s.name }

// DepositResource writes amount units of a resource onto the tile under pos.
// Depositing onto a tile that already carries the same resource accumulates.
func (s *Surface) DepositResource(resource string, amount int64, pos Pos) {
	t := TileOf(pos)
	if d, ok := s.deposits[t]; ok && d.Resource == resource {
		d.Amount += amount
		return
	}
	s.deposits[t] = &ResourceDeposit{Resource: resource, Amount: amount}
}

// DepositAt reports the deposit on the tile under pos, if any.
func (s *Surface) DepositAt(pos Pos) (ResourceDeposit, bool) {
	d, ok := s.deposits[TileOf(pos)]
	if !ok {
		return ResourceDeposit{}, false
	}
	return *d, true
}

// EntityAt reports the real entity occupying the tile under pos, if any.
func (s *Surface) EntityAt(pos Pos) (*Entity, bool) {
	id, ok := s.byTile[TileOf(pos)]
	if !ok {
		return nil, false
	}
	return s.entities[id], true
}

// FindEntitiesByName returns all real entities of the given name, in
// creation order.
func (s *Surface) FindEntitiesByName(name string) []*Entity {
	var out []*Entity
	for _, e := range s.entities {
		if e.Name == name {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Ghosts returns all live ghosts in creation order.
func (s *Surface) Ghosts() []*Ghost {
	var out []*Ghost
	for _, g := range s.ghosts {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func (s *Surface) createEntity(name string, pos Pos, force string) (*Entity, error) {
	t := TileOf(pos)
	if _, taken := s.byTile[t]; taken {
		return nil, fmt.Errorf("tile %v occupied", t)
	}
	s.nextEntityID++
	e := &Entity{
		id:        s.nextEntityID,
		Name:      name,
		Type:      Proto(name).Type,
		Pos:       pos,
		Force:     force,
		inventory: map[itemKey]int{},
		modules:   map[itemKey]int{},
	}
	s.entities[e.id] = e
	s.byTile[t] = e.id
	return e, nil
}
