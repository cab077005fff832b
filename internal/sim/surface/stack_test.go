package surface

import (
	"testing"

	"beltforge/internal/blueprint"
)

func importStack(t *testing.T, s *Surface, specs []blueprint.EntitySpec) *Stack {
	t.Helper()
	payload, err := blueprint.Encode(&blueprint.Blueprint{
		Item:     "blueprint",
		Version:  1,
		Entities: specs,
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	st := s.CreateStack()
	if err := st.Import(payload); err != nil {
		t.Fatalf("import: %v", err)
	}
	return st
}

func TestStack_ImportBadPayload(t *testing.T) {
	s := New("test")
	st := s.CreateStack()
	if err := st.Import("garbage"); err == nil {
		t.Fatalf("expected import error")
	}
	if st.Entities() != nil {
		t.Fatalf("failed import should leave the stack empty")
	}
}

func TestStack_ImportAfterDestroy(t *testing.T) {
	s := New("test")
	st := s.CreateStack()
	st.Destroy()
	if err := st.Import("0whatever"); err == nil {
		t.Fatalf("expected error importing into destroyed stack")
	}
}

func TestStamp_OffsetUniform(t *testing.T) {
	s := New("test")
	specs := []blueprint.EntitySpec{
		{EntityNumber: 1, Name: "transport-belt", Position: Pos{X: 0.5, Y: 0.5}},
		{EntityNumber: 2, Name: "inserter", Position: Pos{X: 4.5, Y: 2.5}},
		{EntityNumber: 3, Name: "steel-chest", Position: Pos{X: 8.5, Y: 3.0}},
	}
	st := importStack(t, s, specs)
	defer st.Destroy()

	anchor := Pos{X: 100, Y: -40}
	ghosts := st.Stamp(anchor, "player")
	if len(ghosts) != 3 {
		t.Fatalf("got %d ghosts, want 3", len(ghosts))
	}

	offset := st.Offset(anchor)
	for _, g := range ghosts {
		want := specs[g.SpecIndex].Position.Add(offset)
		if g.Pos != want {
			t.Fatalf("ghost %d at %+v, want %+v", g.SpecIndex, g.Pos, want)
		}
	}

	// The same translation relates the first ghost to the first spec.
	if got := ghosts[0].Pos.Sub(specs[0].Position); got != offset {
		t.Fatalf("first-ghost offset %+v, want %+v", got, offset)
	}
}

func TestStamp_SkipsBuiltAndDuplicateGhosts(t *testing.T) {
	s := New("test")
	specs := []blueprint.EntitySpec{
		{EntityNumber: 1, Name: "transport-belt", Position: Pos{X: 0.5, Y: 0.5}},
		{EntityNumber: 2, Name: "inserter", Position: Pos{X: 2.5, Y: 0.5}},
	}
	st := importStack(t, s, specs)
	defer st.Destroy()

	anchor := Pos{X: 1.5, Y: 0.5}
	first := st.Stamp(anchor, "player")
	if len(first) != 2 {
		t.Fatalf("first stamp: got %d ghosts, want 2", len(first))
	}

	// Revive the belt; leave the inserter ghost inert.
	if _, revived := s.Revive(first[0]); !revived {
		t.Fatalf("belt revival failed")
	}

	// Re-stamping creates nothing: one spec is built, the other still has
	// a live ghost.
	second := st.Stamp(anchor, "player")
	if len(second) != 0 {
		t.Fatalf("second stamp: got %d ghosts, want 0", len(second))
	}
}

func TestStamp_RequestsCopiedPerGhost(t *testing.T) {
	s := New("test")
	specs := []blueprint.EntitySpec{
		{
			EntityNumber: 1,
			Name:         "assembling-machine-2",
			Position:     Pos{X: 0.5, Y: 0.5},
			Items: []blueprint.ItemRequest{
				{ID: blueprint.ItemID{Name: "speed-module", Quality: blueprint.QualityUncommon}, Count: 2},
			},
		},
	}
	st := importStack(t, s, specs)
	defer st.Destroy()

	ghosts := st.Stamp(Pos{X: 5, Y: 5}, "player")
	if len(ghosts) != 1 {
		t.Fatalf("got %d ghosts, want 1", len(ghosts))
	}
	g := ghosts[0]
	if len(g.Requests) != 1 || g.Requests[0].ID.Name != "speed-module" || g.Requests[0].Count != 2 {
		t.Fatalf("requests not copied: %+v", g.Requests)
	}
}

func TestStamp_EmptyStack(t *testing.T) {
	s := New("test")
	st := s.CreateStack()
	defer st.Destroy()
	if ghosts := st.Stamp(Pos{}, "player"); ghosts != nil {
		t.Fatalf("stamping an empty stack produced ghosts")
	}
}
