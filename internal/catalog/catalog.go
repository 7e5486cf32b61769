package catalog

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Catalog holds the item set behind a read lock so a reload can swap
// all items at once. Readers always observe one consistent generation.
type Catalog struct {
	mu    sync.RWMutex
	items []Item
	byID  map[string]Item
}

// New builds a catalog from items, validating each one.
func New(items []Item) (*Catalog, error) {
	byID := make(map[string]Item, len(items))
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return nil, err
		}
		if _, dup := byID[it.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate item id %s", it.ID)
		}
		byID[it.ID] = it
	}
	return &Catalog{items: append([]Item(nil), items...), byID: byID}, nil
}

// catalogFile is the on-disk YAML shape.
type catalogFile struct {
	Items []Item `yaml:"items"`
}

// Load reads a YAML catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	if len(f.Items) == 0 {
		return nil, fmt.Errorf("catalog: %s contains no items", path)
	}
	return New(f.Items)
}

// Items returns a copy of the current item set.
func (c *Catalog) Items() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Item(nil), c.items...)
}

// Get looks an item up by ID.
func (c *Catalog) Get(id string) (Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.byID[id]
	return it, ok
}

// ByKind returns the items of one variant.
func (c *Catalog) ByKind(k Kind) []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Item
	for _, it := range c.items {
		if it.Kind == k {
			out = append(out, it)
		}
	}
	return out
}

// Texts returns the composite search text of every item, in item order.
// This is the corpus the vectorizer builds its vocabulary from.
func (c *Catalog) Texts() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.items))
	for i, it := range c.items {
		out[i] = it.SearchText()
	}
	return out
}

// Len returns the item count.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Replace swaps the entire item set. Callers that hold derived state
// (vectorizer vocabulary, popularity ordering) must rebuild it after
// Replace returns.
func (c *Catalog) Replace(items []Item) error {
	byID := make(map[string]Item, len(items))
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return err
		}
		if _, dup := byID[it.ID]; dup {
			return fmt.Errorf("catalog: duplicate item id %s", it.ID)
		}
		byID[it.ID] = it
	}
	c.mu.Lock()
	c.items = append([]Item(nil), items...)
	c.byID = byID
	c.mu.Unlock()
	return nil
}
