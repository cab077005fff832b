package surface

import "sort"

// Export shapes for the save writer. Slices are sorted so snapshots of the
// same state are byte-identical.

type ResourceExport struct {
	Tile     Tile
	Resource string
	Amount   int64
}

type EntityExport struct {
	ID        int
	Name      string
	Type      string
	Pos       Pos
	Inventory []ItemStack
	Modules   []ItemStack
}

func (s *Surface) ExportResources() []ResourceExport {
	out := make([]ResourceExport, 0, len(s.deposits))
	for t, d := range s.deposits {
		out = append(out, ResourceExport{Tile: t, Resource: d.Resource, Amount: d.Amount})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Tile, out[j].Tile
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return out
}

func (s *Surface) ExportEntities() []EntityExport {
	out := make([]EntityExport, 0, len(s.entities))
	for _, e := range s.entities {
		out = append(out, EntityExport{
			ID:        e.id,
			Name:      e.Name,
			Type:      e.Type,
			Pos:       e.Pos,
			Inventory: exportItems(e.inventory),
			Modules:   exportItems(e.modules),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func exportItems(m map[itemKey]int) []ItemStack {
	if len(m) == 0 {
		return nil
	}
	out := make([]ItemStack, 0, len(m))
	for k, n := range m {
		out = append(out, ItemStack{Name: k.name, Quality: k.quality, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Quality < out[j].Quality
	})
	return out
}
