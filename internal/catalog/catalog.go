// Package catalog holds the read-only list of prayers shown to the user.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

// AllCategories selects every category when filtering.
const AllCategories = "Semua"

//go:embed prayers.yaml
var defaultPrayers []byte

var (
	ErrEmptyCatalog = errors.New("catalog has no prayers")
	ErrDuplicateID  = errors.New("duplicate prayer id")
	ErrNotFound     = errors.New("prayer not found")
)

// Prayer is a single catalog entry. Values are never mutated after load.
type Prayer struct {
	ID       int    `yaml:"id"       json:"id"`
	Title    string `yaml:"title"    json:"title"`
	Arabic   string `yaml:"arabic"   json:"arabic"`
	Latin    string `yaml:"latin"    json:"latin"`
	Meaning  string `yaml:"meaning"  json:"meaning"`
	Category string `yaml:"category" json:"category"`
}

// Catalog is an immutable, ordered set of prayers.
type Catalog struct {
	prayers []Prayer
	byID    map[int]int
}

// New builds a catalog from prayers in display order. IDs must be unique.
func New(prayers []Prayer) (*Catalog, error) {
	if len(prayers) == 0 {
		return nil, ErrEmptyCatalog
	}
	c := &Catalog{
		prayers: make([]Prayer, len(prayers)),
		byID:    make(map[int]int, len(prayers)),
	}
	copy(c.prayers, prayers)
	for i, p := range c.prayers {
		if _, ok := c.byID[p.ID]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, p.ID)
		}
		c.byID[p.ID] = i
	}
	return c, nil
}

type catalogFile struct {
	Prayers []Prayer `yaml:"prayers"`
}

// Parse reads a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unable to parse catalog: %w", err)
	}
	return New(f.Prayers)
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read catalog: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(defaultPrayers)
}

// All returns every prayer in display order.
func (c *Catalog) All() []Prayer {
	out := make([]Prayer, len(c.prayers))
	copy(out, c.prayers)
	return out
}

// Len returns the number of prayers.
func (c *Catalog) Len() int {
	return len(c.prayers)
}

// ByID looks a prayer up by its identifier.
func (c *Catalog) ByID(id int) (Prayer, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Prayer{}, false
	}
	return c.prayers[i], true
}

// Categories returns AllCategories followed by each distinct category in
// the order it first appears.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	out := []string{AllCategories}
	for _, p := range c.prayers {
		if seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}

// Filter returns the prayers whose title or meaning contains query
// (case-insensitively) and whose category matches. An empty category or
// AllCategories matches everything. Order is preserved.
func (c *Catalog) Filter(query, category string) []Prayer {
	fold := cases.Fold()
	q := fold.String(query)

	var out []Prayer
	for _, p := range c.prayers {
		if category != "" && category != AllCategories && p.Category != category {
			continue
		}
		if q != "" &&
			!strings.Contains(fold.String(p.Title), q) &&
			!strings.Contains(fold.String(p.Meaning), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// titles adapts the catalog for fuzzy matching.
type titles []Prayer

func (t titles) String(i int) string { return t[i].Title }
func (t titles) Len() int            { return len(t) }

// Find resolves a user supplied reference: a numeric ID, or else the
// closest fuzzy match on title.
func (c *Catalog) Find(ref string) (Prayer, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.Atoi(ref); err == nil {
		if p, ok := c.ByID(id); ok {
			return p, nil
		}
		return Prayer{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	matches := fuzzy.FindFrom(ref, titles(c.prayers))
	if ref == "" || len(matches) == 0 {
		return Prayer{}, fmt.Errorf("%w: %q", ErrNotFound, ref)
	}
	return c.prayers[matches[0].Index], nil
}
