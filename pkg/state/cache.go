package state

// LocationCache guarantees that a location id resolves to the same
// generated content for the lifetime of a game. Put never overwrites: a
// second Put for an id short-circuits to the value already stored, so
// idempotent regeneration can't fork a location's content. There is no
// eviction; the cache is bounded by how many locations one playthrough
// can visit.
type LocationCache struct {
	locations map[string]LocationData
}

// NewLocationCache builds a cache seeded from the locations the client
// has already visited.
func NewLocationCache(seed map[string]LocationData) *LocationCache {
	locations := make(map[string]LocationData, len(seed))
	for id, loc := range seed {
		locations[id] = loc
	}
	return &LocationCache{locations: locations}
}

// Get returns the cached location for id.
func (c *LocationCache) Get(id string) (LocationData, bool) {
	loc, ok := c.locations[id]
	return loc, ok
}

// Put stores loc under its id and returns the canonical value: the
// existing entry when one is already cached, otherwise loc itself.
func (c *LocationCache) Put(loc LocationData) LocationData {
	if existing, ok := c.locations[loc.ID]; ok {
		return existing
	}
	c.locations[loc.ID] = loc
	return loc
}

// Len returns the number of cached locations.
func (c *LocationCache) Len() int {
	return len(c.locations)
}
