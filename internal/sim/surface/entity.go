package surface

import "beltforge/internal/blueprint"

type itemKey struct {
	name    string
	quality string
}

// Entity is a real, placed structure.
type Entity struct {
	id    int
	Name  string
	Type  string
	Pos   Pos
	Force string

	inventory map[itemKey]int
	modules   map[itemKey]int
}

func (e *Entity) ID() int { return e.id }

// Insert puts a stack into the entity's main inventory and returns the
// number of items inserted.
func (e *Entity) Insert(st ItemStack) int {
	if st.Count <= 0 || st.Name == "" {
		return 0
	}
	e.inventory[keyOf(st)] += st.Count
	return st.Count
}

// InsertModules puts a stack into the entity's module inventory, best
// effort: entities without module slots accept nothing, and the inventory
// never holds more modules than it has slots.
func (e *Entity) InsertModules(st ItemStack) int {
	slots := Proto(e.Name).ModuleSlots
	if slots <= 0 || st.Count <= 0 || st.Name == "" {
		return 0
	}
	used := 0
	for _, n := range e.modules {
		used += n
	}
	free := slots - used
	if free <= 0 {
		return 0
	}
	n := st.Count
	if n > free {
		n = free
	}
	e.modules[keyOf(st)] += n
	return n
}

// CountItem reports how many items of a (name, quality) pair the main
// inventory holds.
func (e *Entity) CountItem(name, quality string) int {
	return e.inventory[itemKey{name: name, quality: normalizeQuality(quality)}]
}

// CountModule is CountItem for the module inventory.
func (e *Entity) CountModule(name, quality string) int {
	return e.modules[itemKey{name: name, quality: normalizeQuality(quality)}]
}

func keyOf(st ItemStack) itemKey {
	return itemKey{name: st.Name, quality: normalizeQuality(st.Quality)}
}

func normalizeQuality(q string) string {
	if q == "" {
		return blueprint.QualityNormal
	}
	return q
}
