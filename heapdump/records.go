// ABOUTME: Decoded heap-dump record and its mapping to graph objects
// ABOUTME: Keeps the original serialized line for verbatim diff output

package heapdump

import "github.com/viv-4/harb/graph"

// Record is one decoded line of an ObjectSpace dump. Raw holds the
// original serialized form, which the diff engine emits unchanged.
type Record struct {
	ID     uint64
	Type   graph.TypeTag
	IsRoot bool
	Size   uint64
	Class  string
	Name   string
	Refs   []uint64
	Raw    []byte
}

// Object converts the record to its graph representation.
func (r *Record) Object() *graph.Object {
	refs := make([]graph.ObjID, len(r.Refs))
	for i, ref := range r.Refs {
		refs[i] = graph.ObjID(ref)
	}
	return &graph.Object{
		ID:     graph.ObjID(r.ID),
		Type:   r.Type,
		Size:   r.Size,
		IsRoot: r.IsRoot,
		Refs:   refs,
		Class:  r.Class,
		Name:   r.Name,
	}
}
