// ABOUTME: Iterative dataflow computation of immediate dominators
// ABOUTME: Reverse-postorder fixpoint with RPO-numbered intersection

package graph

import (
	"time"

	"go.uber.org/zap"
)

// DominatorIndex is the derived dominance structure for a graph: the
// immediate dominator of every node reachable from the super-root, plus
// the inverted children map forming the dominator tree. It holds only
// ids, never object copies, and is bound to the graph's lifetime.
type DominatorIndex struct {
	idom     map[ObjID]ObjID
	children map[ObjID][]ObjID
	passes   int
}

// Idom returns the immediate dominator of id. Roots map to SuperRootID.
// The second result is false for nodes unreachable from the super-root;
// those exist in the graph but are invisible to dominance queries.
func (d *DominatorIndex) Idom(id ObjID) (ObjID, bool) {
	dom, ok := d.idom[id]
	return dom, ok
}

// Subtree collects every node whose idom chain passes through id before
// reaching the super-root, excluding id itself. An empty result means id
// dominates nothing beyond itself.
func (d *DominatorIndex) Subtree(id ObjID) []ObjID {
	var out []ObjID
	stack := append([]ObjID(nil), d.children[id]...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, n)
		stack = append(stack, d.children[n]...)
	}
	return out
}

// Reachable returns how many nodes have dominance information.
func (d *DominatorIndex) Reachable() int {
	return len(d.idom)
}

// computeDominators runs the iterative dominator dataflow from the
// synthetic super-root. Nodes are numbered by a depth-first postorder
// walk; the fixpoint loop processes them in reverse postorder and
// intersects the candidate dominators of already-processed predecessors.
// Candidates only ever move toward the super-root, so the loop
// terminates. Sparse object graphs converge in a handful of passes.
func computeDominators(g *Graph) *DominatorIndex {
	start := time.Now()

	const undefined = -1

	// Postorder numbering via an explicit stack; heap graphs are far too
	// deep for recursion. order[i] is the node with postorder number i,
	// so the super-root always gets the highest number.
	var (
		order   []ObjID
		ponum   = make(map[ObjID]int, g.Count())
		visited = make(map[ObjID]bool, g.Count())
	)

	succs := func(id ObjID) []ObjID {
		if id == SuperRootID {
			return g.roots
		}
		return g.store.Lookup(id).Refs
	}

	type frame struct {
		id ObjID
		i  int
	}
	stack := []frame{{id: SuperRootID}}
	visited[SuperRootID] = true
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		refs := succs(f.id)
		advanced := false
		for f.i < len(refs) {
			next := refs[f.i]
			f.i++
			if visited[next] || g.store.Lookup(next) == nil {
				continue // already numbered, or a dangling reference
			}
			visited[next] = true
			stack = append(stack, frame{id: next})
			advanced = true
			break
		}
		if !advanced && f.i >= len(refs) {
			ponum[f.id] = len(order)
			order = append(order, f.id)
			stack = stack[:len(stack)-1]
		}
	}

	n := len(order) // super-root is order[n-1]

	// Predecessor lists in postorder-number space, only among reachable
	// nodes. Built in insertion order so the fixpoint is deterministic.
	preds := make([][]int32, n)
	addEdges := func(from ObjID) {
		fn := ponum[from]
		for _, ref := range succs(from) {
			if tn, ok := ponum[ref]; ok {
				preds[tn] = append(preds[tn], int32(fn))
			}
		}
	}
	addEdges(SuperRootID)
	g.store.Each(func(obj *Object) {
		if _, ok := ponum[obj.ID]; ok {
			addEdges(obj.ID)
		}
	})

	idom := make([]int32, n)
	for i := range idom {
		idom[i] = undefined
	}
	idom[n-1] = int32(n - 1) // super-root dominates itself, sentinel

	intersect := func(a, b int32) int32 {
		for a != b {
			for a < b {
				a = idom[a]
			}
			for b < a {
				b = idom[b]
			}
		}
		return a
	}

	passes := 0
	for changed := true; changed; {
		changed = false
		passes++
		for i := n - 2; i >= 0; i-- {
			newIdom := int32(undefined)
			for _, p := range preds[i] {
				if idom[p] == undefined {
					continue
				}
				if newIdom == undefined {
					newIdom = p
				} else {
					newIdom = intersect(p, newIdom)
				}
			}
			if newIdom != undefined && idom[i] != newIdom {
				idom[i] = newIdom
				changed = true
			}
		}
	}

	d := &DominatorIndex{
		idom:     make(map[ObjID]ObjID, n-1),
		children: make(map[ObjID][]ObjID, n-1),
		passes:   passes,
	}
	// Children built in reverse postorder so sibling order is stable.
	for i := n - 2; i >= 0; i-- {
		node := order[i]
		dom := order[idom[i]]
		d.idom[node] = dom
		d.children[dom] = append(d.children[dom], node)
	}

	g.log.Info("dominator index built",
		zap.Int("reachable", len(d.idom)),
		zap.Int("unreachable", g.Count()-len(d.idom)),
		zap.Int("passes", passes),
		zap.Duration("elapsed", time.Since(start)),
	)
	return d
}
