// Package collection holds insertion-ordered, versioned entity collections.
// A Collection is a value: every command returns a new Collection and never
// mutates the receiver, so a snapshot handed to a view or a save stays stable.
package collection

// Entity is anything with a stable identifier.
type Entity interface {
	GetID() string
}

// Collection is an immutable, insertion-ordered list of entities.
type Collection[T Entity] struct {
	version uint64
	items   []T
}

// New returns a collection seeded with items at version 0.
func New[T Entity](items []T) Collection[T] {
	return Collection[T]{items: clone(items)}
}

// Version increases by one for every command that changes the contents.
func (c Collection[T]) Version() uint64 { return c.version }

// Len returns the number of items.
func (c Collection[T]) Len() int { return len(c.items) }

// Items returns a copy of the items in insertion order.
func (c Collection[T]) Items() []T { return clone(c.items) }

// Get looks an item up by ID.
func (c Collection[T]) Get(id string) (T, bool) {
	for _, item := range c.items {
		if item.GetID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Append adds item at the end.
func (c Collection[T]) Append(item T) Collection[T] {
	items := make([]T, 0, len(c.items)+1)
	items = append(items, c.items...)
	items = append(items, item)
	return Collection[T]{version: c.version + 1, items: items}
}

// Prepend adds item at the front.
func (c Collection[T]) Prepend(item T) Collection[T] {
	items := make([]T, 0, len(c.items)+1)
	items = append(items, item)
	items = append(items, c.items...)
	return Collection[T]{version: c.version + 1, items: items}
}

// Replace swaps the item sharing item's ID in place. The second return value
// is false, and the collection unchanged, when no such item exists.
func (c Collection[T]) Replace(item T) (Collection[T], bool) {
	for i, existing := range c.items {
		if existing.GetID() == item.GetID() {
			items := clone(c.items)
			items[i] = item
			return Collection[T]{version: c.version + 1, items: items}, true
		}
	}
	return c, false
}

// Delete removes the item with the given ID, keeping the order of the rest.
// Deleting an unknown ID returns the collection unchanged and false.
func (c Collection[T]) Delete(id string) (Collection[T], bool) {
	for i, existing := range c.items {
		if existing.GetID() == id {
			items := make([]T, 0, len(c.items)-1)
			items = append(items, c.items[:i]...)
			items = append(items, c.items[i+1:]...)
			return Collection[T]{version: c.version + 1, items: items}, true
		}
	}
	return c, false
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
