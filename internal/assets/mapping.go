package assets

// Entry is one materialized asset: its resolved source path and its base
// name inside the asset directory.
type Entry struct {
	Source string
	Dest   string
}

// Mapping associates each resolved source path with its destination name
// under the asset directory. Destination names are unique within a mapping.
// Created by the Materializer; read-only afterward.
type Mapping struct {
	bySource map[string]string
	used     map[string]bool
	order    []string
}

func newMapping() *Mapping {
	return &Mapping{
		bySource: make(map[string]string),
		used:     make(map[string]bool),
	}
}

// Lookup returns the destination name for a resolved source path.
func (m *Mapping) Lookup(source string) (string, bool) {
	dest, ok := m.bySource[source]
	return dest, ok
}

// Len returns the number of materialized assets.
func (m *Mapping) Len() int {
	return len(m.order)
}

// Entries returns the mapping in first-seen order.
func (m *Mapping) Entries() []Entry {
	out := make([]Entry, 0, len(m.order))
	for _, src := range m.order {
		out = append(out, Entry{Source: src, Dest: m.bySource[src]})
	}
	return out
}

func (m *Mapping) contains(source string) bool {
	_, ok := m.bySource[source]
	return ok
}

func (m *Mapping) add(source, dest string) {
	m.bySource[source] = dest
	m.used[dest] = true
	m.order = append(m.order, source)
}

func (m *Mapping) nameTaken(dest string) bool {
	return m.used[dest]
}
