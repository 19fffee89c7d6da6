// ABOUTME: One-way snapshot difference keyed by object identity
// ABOUTME: Emits raw records new in the compared dump, verbatim

package heapdump

import (
	"fmt"
	"io"

	"github.com/viv-4/harb/graph"
)

// Diff streams a second dump and writes every non-root record whose id
// is absent from g to w, in its original serialized form. Only presence
// is checked against the live graph; the compared snapshot's edges and
// dominance are never constructed. Returns the number of records
// written.
func Diff(g *graph.Graph, r io.Reader, w io.Writer) (int, error) {
	p := NewParser(r)
	emitted := 0
	for {
		rec, err := p.Next()
		if err == io.EOF {
			return emitted, nil
		}
		if err != nil {
			return emitted, err
		}
		if rec.IsRoot {
			continue
		}
		if g.Lookup(graph.ObjID(rec.ID)) != nil {
			continue
		}
		if _, err := w.Write(rec.Raw); err != nil {
			return emitted, fmt.Errorf("writing diff record: %w", err)
		}
		if _, err := w.Write([]byte{'\n'}); err != nil {
			return emitted, fmt.Errorf("writing diff record: %w", err)
		}
		emitted++
	}
}
