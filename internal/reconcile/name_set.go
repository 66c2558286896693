package reconcile

import "sort"

// NameSet is an unordered collection of distinct names.
type NameSet struct {
	members map[string]struct{}
}

// NewNameSet builds a set from names, discarding duplicates.
func NewNameSet(names ...string) NameSet {
	set := NameSet{members: make(map[string]struct{}, len(names))}
	for _, name := range names {
		set.members[name] = struct{}{}
	}
	return set
}

// Add inserts name.
func (set *NameSet) Add(name string) {
	if set.members == nil {
		set.members = make(map[string]struct{})
	}
	set.members[name] = struct{}{}
}

// Remove deletes name when present.
func (set *NameSet) Remove(name string) {
	delete(set.members, name)
}

// Contains reports whether name is a member.
func (set NameSet) Contains(name string) bool {
	_, present := set.members[name]
	return present
}

// Len returns the number of members.
func (set NameSet) Len() int {
	return len(set.members)
}

// Sorted returns the members in lexical order.
func (set NameSet) Sorted() []string {
	names := make([]string, 0, len(set.members))
	for name := range set.members {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
