package entities

// TagIndex is the ordered set of every tag seen across inspirations. It is
// derived state and is never persisted.
type TagIndex struct {
	order []string
	seen  map[string]struct{}
}

// NewTagIndex builds the index from items
func NewTagIndex(items []Inspiration) *TagIndex {
	idx := &TagIndex{seen: make(map[string]struct{})}
	for _, item := range items {
		idx.Extend(item.Tags)
	}
	return idx
}

// Extend adds any tags not yet present and returns the ones it added
func (x *TagIndex) Extend(tags []string) []string {
	var added []string
	for _, tag := range tags {
		if _, ok := x.seen[tag]; ok {
			continue
		}
		x.seen[tag] = struct{}{}
		x.order = append(x.order, tag)
		added = append(added, tag)
	}
	return added
}

// Contains reports whether tag is indexed
func (x *TagIndex) Contains(tag string) bool {
	_, ok := x.seen[tag]
	return ok
}

// List returns the tags in insertion order
func (x *TagIndex) List() []string {
	return append([]string(nil), x.order...)
}

// Len returns the number of distinct tags
func (x *TagIndex) Len() int {
	return len(x.order)
}
