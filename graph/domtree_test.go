// ABOUTME: Tests for dominator-subtree queries
// ABOUTME: Verifies dominated sets, sibling disjointness, and root subjects

package graph

import (
	"errors"
	"sort"
	"testing"
)

func sortedIDs(ids []ObjID) []ObjID {
	out := append([]ObjID(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func TestDominatedSet(t *testing.T) {
	// SUPER_ROOT -> R(0x1) -> A(0x2) -> B(0x3); A -> C(0x4) -> B.
	g := buildGraph(
		&Object{ID: 0x1, IsRoot: true, Refs: []ObjID{0x2}},
		&Object{ID: 0x2, Refs: []ObjID{0x3, 0x4}},
		&Object{ID: 0x3},
		&Object{ID: 0x4, Refs: []ObjID{0x3}},
	)

	tests := []struct {
		node ObjID
		want []ObjID
	}{
		{0x2, []ObjID{0x3, 0x4}},
		{0x1, []ObjID{0x2, 0x3, 0x4}}, // root-flagged nodes are valid subjects
		{0x3, nil},                    // dominates nothing beyond itself
		{0x4, nil},
	}
	for _, tt := range tests {
		got, err := g.DominatedSet(tt.node)
		if err != nil {
			t.Errorf("DominatedSet(%#x) err = %v", uint64(tt.node), err)
			continue
		}
		gotSorted := sortedIDs(got)
		wantSorted := sortedIDs(tt.want)
		if len(gotSorted) != len(wantSorted) {
			t.Errorf("DominatedSet(%#x) = %v, want %v", uint64(tt.node), gotSorted, wantSorted)
			continue
		}
		for i := range wantSorted {
			if gotSorted[i] != wantSorted[i] {
				t.Errorf("DominatedSet(%#x) = %v, want %v", uint64(tt.node), gotSorted, wantSorted)
				break
			}
		}
	}
}

func TestDominatedSetExcludesSubject(t *testing.T) {
	g := buildGraph(
		&Object{ID: 1, IsRoot: true, Refs: []ObjID{2}},
		&Object{ID: 2, Refs: []ObjID{3}},
		&Object{ID: 3},
	)
	set, err := g.DominatedSet(2)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	for _, id := range set {
		if id == 2 {
			t.Error("dominated set contains the subject itself")
		}
		if id == SuperRootID {
			t.Error("dominated set contains the super-root")
		}
	}
}

func TestDominatedSetsOfSiblingsAreDisjoint(t *testing.T) {
	g := buildGraph(
		&Object{ID: 1, IsRoot: true, Refs: []ObjID{2, 3}},
		&Object{ID: 2, Refs: []ObjID{4}},
		&Object{ID: 3, Refs: []ObjID{5, 6}},
		&Object{ID: 4},
		&Object{ID: 5},
		&Object{ID: 6, Refs: []ObjID{7}},
		&Object{ID: 7},
	)

	left, err := g.DominatedSet(2)
	if err != nil {
		t.Fatalf("left err = %v", err)
	}
	right, err := g.DominatedSet(3)
	if err != nil {
		t.Fatalf("right err = %v", err)
	}

	inLeft := make(map[ObjID]bool)
	for _, id := range left {
		inLeft[id] = true
	}
	for _, id := range right {
		if inLeft[id] {
			t.Errorf("node %d appears in two sibling subtrees", id)
		}
	}
}

func TestDominatedSetUnreachable(t *testing.T) {
	g := buildGraph(
		&Object{ID: 1, IsRoot: true},
		&Object{ID: 2}, // unreachable
	)
	if _, err := g.DominatedSet(2); !errors.Is(err, ErrUnreachable) {
		t.Errorf("err = %v, want ErrUnreachable", err)
	}
}

func TestSubtreeDeterministic(t *testing.T) {
	g := buildGraph(
		&Object{ID: 1, IsRoot: true, Refs: []ObjID{2}},
		&Object{ID: 2, Refs: []ObjID{3, 4, 5}},
		&Object{ID: 3},
		&Object{ID: 4},
		&Object{ID: 5},
	)
	first, err := g.DominatedSet(2)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	second, _ := g.DominatedSet(2)
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("order differs at %d: %#x vs %#x", i, uint64(first[i]), uint64(second[i]))
		}
	}
}
