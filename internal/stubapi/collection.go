package stubapi

import (
	"fmt"
	"net/url"
	"sync"
	"time"
)

// collection es una colección in-memory de records estilo backend:
// ids secuenciales, orden de inserción preservado (el orden que "devuelve
// el backend" es este).
type collection struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]map[string]any
	order  []int64
	// required: campos que el backend exige en el create.
	required []string
}

func newCollection(required ...string) *collection {
	return &collection{
		nextID:   1,
		items:    make(map[int64]map[string]any),
		order:    make([]int64, 0),
		required: required,
	}
}

func (c *collection) list(filters url.Values) []map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]map[string]any, 0, len(c.order))
	for _, id := range c.order {
		item := c.items[id]
		if !matches(item, filters) {
			continue
		}
		out = append(out, clone(item))
	}
	return out
}

func (c *collection) get(id int64) (map[string]any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[id]
	if !ok {
		return nil, false
	}
	return clone(item), true
}

func (c *collection) create(item map[string]any) (map[string]any, []string) {
	missing := missingFields(item, c.required)
	if len(missing) > 0 {
		return nil, missing
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++

	stored := clone(item)
	stored["id"] = id
	if _, ok := stored["created_at"]; !ok {
		stored["created_at"] = time.Now().UTC().Format(time.RFC3339)
	}
	stored["updated_at"] = time.Now().UTC().Format(time.RFC3339)

	c.items[id] = stored
	c.order = append(c.order, id)
	return clone(stored), nil
}

// put reemplaza el record completo conservando id y created_at.
func (c *collection) put(id int64, item map[string]any) (map[string]any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	old, ok := c.items[id]
	if !ok {
		return nil, false
	}

	stored := clone(item)
	stored["id"] = id
	stored["created_at"] = old["created_at"]
	stored["updated_at"] = time.Now().UTC().Format(time.RFC3339)

	c.items[id] = stored
	return clone(stored), true
}

// patch mergea solo los campos presentes.
func (c *collection) patch(id int64, partial map[string]any) (map[string]any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	old, ok := c.items[id]
	if !ok {
		return nil, false
	}

	stored := clone(old)
	for k, v := range partial {
		if k == "id" || k == "created_at" {
			continue
		}
		stored[k] = v
	}
	stored["updated_at"] = time.Now().UTC().Format(time.RFC3339)

	c.items[id] = stored
	return clone(stored), true
}

func (c *collection) delete(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)

	kept := c.order[:0]
	for _, oid := range c.order {
		if oid != id {
			kept = append(kept, oid)
		}
	}
	c.order = kept
	return true
}

// count cuenta records que cumplen un predicado (para campos derivados,
// p.ej. animal_count del owner).
func (c *collection) count(pred func(map[string]any) bool) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, id := range c.order {
		if pred(c.items[id]) {
			n++
		}
	}
	return n
}

func matches(item map[string]any, filters url.Values) bool {
	for key, vals := range filters {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}
		got, ok := item[key]
		if !ok {
			return false
		}
		if fmt.Sprintf("%v", got) != vals[0] {
			return false
		}
	}
	return true
}

func missingFields(item map[string]any, required []string) []string {
	var missing []string
	for _, f := range required {
		v, ok := item[f]
		if !ok || v == nil || v == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

func clone(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
