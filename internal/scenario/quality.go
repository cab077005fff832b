package scenario

import "beltforge/internal/blueprint"

// The drill pre-seeding policy: the quality of the drill's module request
// selects which resource is laid under it. Closed table; extending it means
// adding rows.

// moduleItem is the one item name the table is defined for.
const moduleItem = "speed-module"

type qualityKey struct {
	item    string
	quality string
}

var resourceForQuality = map[qualityKey]string{
	{moduleItem, blueprint.QualityNormal}:   "stone",
	{moduleItem, blueprint.QualityUncommon}: "iron-ore",
	{moduleItem, blueprint.QualityRare}:     "copper-ore",
	{moduleItem, blueprint.QualityEpic}:     "coal",
}

// ResourceForRequest maps an item request's (name, quality) to the resource
// to deposit. ok == false for every combination outside the table.
func ResourceForRequest(item, quality string) (resource string, ok bool) {
	resource, ok = resourceForQuality[qualityKey{item: item, quality: quality}]
	return resource, ok
}
