package mono

import (
	"tycore/internal/hasher"
	"tycore/internal/ty"
	"tycore/internal/types"
)

// CacheKey is the engine-threaded hash of a template and a substitution.
type CacheKey uint64

type cacheEntry struct {
	template ty.TraitDecl // snapshot taken when the entry was stored
	inst     *Instantiation
}

// Cache memoizes instantiations of one Engines. A hit needs the same template
// handle, an equal substitution and a template body equal to the snapshot, so
// a template replaced after instantiation misses.
type Cache struct {
	sub     *Substituter
	entries map[CacheKey][]cacheEntry
	hits    int
	misses  int
}

// NewCache wraps sub with memoization.
func NewCache(sub *Substituter) *Cache {
	return &Cache{sub: sub, entries: make(map[CacheKey][]cacheEntry)}
}

// Key computes the cache key for instantiating template with m.
func (c *Cache) Key(template ty.TraitDecl, m *types.SubstMap) CacheKey {
	e := c.sub.Engines
	h := hasher.New()
	template.HashWith(h, e)
	e.Types.HashSubstMap(h, m)
	return CacheKey(h.Sum64())
}

// Trait returns a cached instantiation or builds a new one.
func (c *Cache) Trait(r ty.TraitRef, m *types.SubstMap) (*Instantiation, bool) {
	e := c.sub.Engines
	template := e.Decls.Trait(r)
	key := c.Key(template, m)
	for _, ent := range c.entries[key] {
		if ent.inst.Template.ID() != r.ID() {
			continue
		}
		if e.Types.SubstMapsEqual(ent.inst.Subst, m) && ent.template.EqualWith(template, e) {
			c.hits++
			return ent.inst, true
		}
	}
	c.misses++
	inst := c.sub.Trait(r, m)
	c.entries[key] = append(c.entries[key], cacheEntry{template: template, inst: inst})
	return inst, false
}

// Stats reports cache hits and misses so far.
func (c *Cache) Stats() (hits, misses int) {
	return c.hits, c.misses
}

// Len reports the number of cached instantiations.
func (c *Cache) Len() int {
	n := 0
	for _, ents := range c.entries {
		n += len(ents)
	}
	return n
}
