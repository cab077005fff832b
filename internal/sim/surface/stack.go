package surface

import (
	"fmt"

	"beltforge/internal/blueprint"
)

// Stack is the opaque holder a blueprint payload is imported into. It lives
// on a surface, can stamp its decoded payload any number of times, and is
// destroyed when the caller is done with it.
type Stack struct {
	surface   *Surface
	bp        *blueprint.Blueprint
	destroyed bool
}

func (s *Surface) CreateStack() *Stack {
	return &Stack{surface: s}
}

// Import decodes payload into the stack. Decode failures propagate; the
// stack stays empty.
func (st *Stack) Import(payload string) error {
	if st.destroyed {
		return fmt.Errorf("stack is destroyed")
	}
	bp, err := blueprint.Decode(payload)
	if err != nil {
		return err
	}
	st.bp = bp
	return nil
}

// Entities returns the decoded specs, nil before a successful Import.
func (st *Stack) Entities() []blueprint.EntitySpec {
	if st.bp == nil {
		return nil
	}
	return st.bp.Entities
}

// Offset reports the uniform translation stamping at anchor applies: for
// every ghost produced by Stamp(anchor), ghost.Pos == spec.Position + Offset.
func (st *Stack) Offset(anchor Pos) Pos {
	return anchor.Sub(st.centroid())
}

// Stamp places the payload centered on anchor and returns the resulting
// ghosts in spec order. Specs that cannot legally hold a ghost produce
// none: resource-requiring prototypes with no deposit under them, tiles
// already occupied by a same-name real entity, and tiles already holding a
// live ghost for the same buildable.
func (st *Stack) Stamp(anchor Pos, force string) []*Ghost {
	specs := st.Entities()
	if len(specs) == 0 {
		return nil
	}
	offset := st.Offset(anchor)

	var out []*Ghost
	for i, spec := range specs {
		pos := spec.Position.Add(offset)
		if Proto(spec.Name).RequiresResource {
			if _, ok := st.surface.DepositAt(pos); !ok {
				continue
			}
		}
		if e, ok := st.surface.EntityAt(pos); ok && e.Name == spec.Name {
			continue
		}
		if st.surface.ghostAt(pos, spec.Name) != nil {
			continue
		}

		st.surface.nextGhostID++
		g := &Ghost{
			id:        st.surface.nextGhostID,
			Name:      GhostName,
			InnerName: spec.Name,
			Pos:       pos,
			Force:     force,
			SpecIndex: i,
			Requests:  append([]blueprint.ItemRequest(nil), spec.Items...),
		}
		st.surface.ghosts[g.id] = g
		out = append(out, g)
	}
	return out
}

// Destroy releases the holder. Stamped ghosts are unaffected.
func (st *Stack) Destroy() {
	st.destroyed = true
	st.bp = nil
}

func (st *Stack) centroid() Pos {
	specs := st.Entities()
	if len(specs) == 0 {
		return Pos{}
	}
	var c Pos
	for _, e := range specs {
		c.X += e.Position.X
		c.Y += e.Position.Y
	}
	c.X /= float64(len(specs))
	c.Y /= float64(len(specs))
	return c
}

func (s *Surface) ghostAt(pos Pos, innerName string) *Ghost {
	t := TileOf(pos)
	for _, g := range s.ghosts {
		if g.InnerName == innerName && TileOf(g.Pos) == t {
			return g
		}
	}
	return nil
}
