package remote

import (
	"sort"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/reconcile"
)

// Index is an in-memory snapshot of remote items keyed by name. Commands mutate it as
// operations succeed so later steps in the same run see the updated state.
type Index[T any] struct {
	keyOf func(T) string
	items map[string]T
}

// NewIndex builds an index over items using keyOf to derive each name. When two items
// share a name the first one wins.
func NewIndex[T any](keyOf func(T) string, items ...T) *Index[T] {
	index := &Index[T]{keyOf: keyOf, items: make(map[string]T, len(items))}
	for _, item := range items {
		name := keyOf(item)
		if _, exists := index.items[name]; exists {
			continue
		}
		index.items[name] = item
	}
	return index
}

// Names returns the indexed names in lexical order.
func (index *Index[T]) Names() []string {
	names := make([]string, 0, len(index.items))
	for name := range index.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NameSet returns the indexed names as a reconcile.NameSet.
func (index *Index[T]) NameSet() reconcile.NameSet {
	return reconcile.NewNameSet(index.Names()...)
}

// Lookup returns the item stored under name.
func (index *Index[T]) Lookup(name string) (T, bool) {
	item, found := index.items[name]
	return item, found
}

// Put records item under its derived name, replacing any previous entry.
func (index *Index[T]) Put(item T) {
	index.items[index.keyOf(item)] = item
}

// Delete forgets the item stored under name.
func (index *Index[T]) Delete(name string) {
	delete(index.items, name)
}

// Len returns the number of indexed items.
func (index *Index[T]) Len() int {
	return len(index.items)
}
