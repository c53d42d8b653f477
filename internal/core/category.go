package core

import (
	"slices"
	"strings"
)

// Category is a named bucket for transactions and budgets. Two categories
// are equal iff their names are equal, so Category works as a map key.
type Category struct {
	name string
}

func (c Category) Name() string {
	return c.name
}

func (c Category) String() string {
	return c.name
}

// IsZero reports whether c was never obtained from a Registry.
func (c Category) IsZero() bool {
	return c.name == ""
}

// Registry interns category names. It never forgets a category.
type Registry struct {
	byName map[string]Category
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Category)}
}

// GetOrCreate returns the category for the trimmed name, creating it on
// first use. Rejecting blank names is up to the caller.
func (r *Registry) GetOrCreate(name string) Category {
	name = strings.TrimSpace(name)
	if c, ok := r.byName[name]; ok {
		return c
	}
	c := Category{name: name}
	r.byName[name] = c
	return c
}

// Lookup returns the category for name without creating it.
func (r *Registry) Lookup(name string) (Category, bool) {
	c, ok := r.byName[strings.TrimSpace(name)]
	return c, ok
}

// Names returns every known category name in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) Len() int {
	return len(r.byName)
}
