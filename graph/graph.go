// ABOUTME: Heap object graph built once from a record stream
// ABOUTME: Owns the store, the synthetic super-root, and build statistics

package graph

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Query-time outcomes. Each is distinguishable with errors.Is; none of
// them corrupts later queries.
var (
	// ErrNotFound means no object with the requested id exists.
	ErrNotFound = errors.New("no object found at address")

	// ErrIsRoot means the operation is undefined for GC roots.
	ErrIsRoot = errors.New("object is a GC root")

	// ErrUnreachable means the object exists but no path from any root
	// reaches it, so it has no dominance information.
	ErrUnreachable = errors.New("object is unreachable from any root")

	// ErrNoDominator means the object is reachable but no single real
	// object dominates it (its only dominator is the synthetic super-root).
	ErrNoDominator = errors.New("object has no single dominating object")

	// ErrNoPath means the forward search exhausted without finding a root.
	ErrNoPath = errors.New("no path to a root")
)

// BuildStats are the non-fatal issues absorbed during construction.
type BuildStats struct {
	Objects    int           // Stored objects, after duplicate rejection
	Roots      int           // Root-flagged objects
	Duplicates int           // Inserts rejected for id collision
	Dangling   int           // Out-references to absent ids
	Elapsed    time.Duration // Wall time of the build pass
}

// Graph is an immutable heap object graph. It is populated by a single
// streaming pass of Add calls followed by Finalize; after that every
// operation is read-only.
type Graph struct {
	store *Store
	roots []ObjID // root-flagged ids in insertion order
	stats BuildStats
	start time.Time
	log   *zap.Logger

	domOnce sync.Once
	dom     *DominatorIndex
}

// New creates an empty graph. A nil logger is replaced with a no-op one.
func New(log *zap.Logger) *Graph {
	if log == nil {
		log = zap.NewNop()
	}
	return &Graph{
		store: NewStore(),
		start: time.Now(),
		log:   log,
	}
}

// Add inserts one decoded record. References are stored as raw ids and
// resolved lazily at traversal time, so records may arrive in any
// address order. Duplicate ids are rejected, first occurrence wins.
func (g *Graph) Add(obj *Object) {
	if !g.store.Insert(obj) {
		g.log.Debug("duplicate object id", zap.Uint64("addr", uint64(obj.ID)))
		return
	}
	if obj.IsRoot {
		g.roots = append(g.roots, obj.ID)
	}
}

// Finalize completes the build: it wires the synthetic super-root to
// every root-flagged object and counts dangling references. Zero roots
// is legal; every node is simply unreachable afterwards.
func (g *Graph) Finalize() {
	dangling := 0
	g.store.Each(func(obj *Object) {
		for _, ref := range obj.Refs {
			if g.store.Lookup(ref) == nil {
				dangling++
			}
		}
	})
	g.stats = BuildStats{
		Objects:    g.store.Count(),
		Roots:      len(g.roots),
		Duplicates: g.store.Duplicates(),
		Dangling:   dangling,
		Elapsed:    time.Since(g.start),
	}
	g.log.Info("heap graph built",
		zap.Int("objects", g.stats.Objects),
		zap.Int("roots", g.stats.Roots),
		zap.Int("duplicates", g.stats.Duplicates),
		zap.Int("dangling_refs", g.stats.Dangling),
		zap.Duration("elapsed", g.stats.Elapsed),
	)
}

// Lookup returns the object with the given id, or nil.
func (g *Graph) Lookup(id ObjID) *Object {
	return g.store.Lookup(id)
}

// Count returns the number of objects in the graph.
func (g *Graph) Count() int {
	return g.store.Count()
}

// Each visits every object in insertion order.
func (g *Graph) Each(fn func(*Object)) {
	g.store.Each(fn)
}

// Roots returns the root-flagged ids in insertion order. The returned
// slice must not be modified.
func (g *Graph) Roots() []ObjID {
	return g.roots
}

// Stats returns the build statistics recorded by Finalize.
func (g *Graph) Stats() BuildStats {
	return g.stats
}

// Dominators returns the dominator index, computing it on first use.
// The graph is immutable after Finalize, so the index is computed at
// most once and never invalidated.
func (g *Graph) Dominators() *DominatorIndex {
	g.domOnce.Do(func() {
		g.dom = computeDominators(g)
	})
	return g.dom
}

// ImmediateDominator returns the id of the closest object through which
// every root-to-id path passes. It reports ErrNotFound for unknown ids,
// ErrIsRoot for roots, ErrUnreachable for objects no root reaches, and
// ErrNoDominator when only the synthetic super-root dominates the object.
func (g *Graph) ImmediateDominator(id ObjID) (ObjID, error) {
	obj := g.store.Lookup(id)
	if obj == nil {
		return 0, ErrNotFound
	}
	if obj.IsRoot {
		return 0, ErrIsRoot
	}
	idom, ok := g.Dominators().Idom(id)
	if !ok {
		return 0, ErrUnreachable
	}
	if idom == SuperRootID {
		return 0, ErrNoDominator
	}
	return idom, nil
}

// DominatedSet returns every object that would become unreachable from
// all roots if id were deleted, excluding id itself. Roots are valid
// subjects; unknown and unreachable ids report the same outcomes as
// ImmediateDominator.
func (g *Graph) DominatedSet(id ObjID) ([]ObjID, error) {
	obj := g.store.Lookup(id)
	if obj == nil {
		return nil, ErrNotFound
	}
	d := g.Dominators()
	if _, ok := d.Idom(id); !ok {
		return nil, ErrUnreachable
	}
	return d.Subtree(id), nil
}
