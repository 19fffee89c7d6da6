// ABOUTME: Linear aggregation pass over the object store
// ABOUTME: Produces total and per-type object counts and byte sizes

package graph

// TypeStat accumulates one value type's share of the heap.
type TypeStat struct {
	Count int
	Bytes uint64
}

// Summary is the aggregate view of a snapshot. Per-type counts and
// bytes always sum exactly to the totals.
type Summary struct {
	Objects    int
	TotalBytes uint64
	Types      map[TypeTag]TypeStat
}

// Summarize makes one pass over the store and aggregates by type tag.
// Grouping is what matters here; presentation order is the caller's
// concern.
func (g *Graph) Summarize() Summary {
	s := Summary{Types: make(map[TypeTag]TypeStat)}
	g.store.Each(func(obj *Object) {
		s.Objects++
		s.TotalBytes += obj.Size
		st := s.Types[obj.Type]
		st.Count++
		st.Bytes += obj.Size
		s.Types[obj.Type] = st
	})
	return s
}
