// ABOUTME: Tests for the summary aggregation pass
// ABOUTME: Per-type totals must sum exactly to the grand totals

package graph

import "testing"

func TestSummarize(t *testing.T) {
	g := buildGraph(
		&Object{ID: 1, Type: TypeRoot, IsRoot: true},
		&Object{ID: 2, Type: TypeString, Size: 40},
		&Object{ID: 3, Type: TypeString, Size: 80},
		&Object{ID: 4, Type: TypeArray, Size: 120},
		&Object{ID: 5, Type: TypeObject, Size: 56},
	)

	sum := g.Summarize()

	if sum.Objects != 5 {
		t.Errorf("objects = %d, want 5", sum.Objects)
	}
	if sum.TotalBytes != 296 {
		t.Errorf("total bytes = %d, want 296", sum.TotalBytes)
	}
	if st := sum.Types[TypeString]; st.Count != 2 || st.Bytes != 120 {
		t.Errorf("STRING = %+v, want {2 120}", st)
	}

	var bytes uint64
	var count int
	for _, st := range sum.Types {
		bytes += st.Bytes
		count += st.Count
	}
	if bytes != sum.TotalBytes {
		t.Errorf("per-type bytes sum to %d, total is %d", bytes, sum.TotalBytes)
	}
	if count != sum.Objects {
		t.Errorf("per-type counts sum to %d, total is %d", count, sum.Objects)
	}
}

func TestSummarizeEmptyGraph(t *testing.T) {
	g := buildGraph()
	sum := g.Summarize()
	if sum.Objects != 0 || sum.TotalBytes != 0 || len(sum.Types) != 0 {
		t.Errorf("empty graph summary = %+v", sum)
	}
}
