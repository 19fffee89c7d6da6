// ABOUTME: Breadth-first search from an object to the nearest GC root
// ABOUTME: Follows outgoing references and reports the path root-first

package graph

// RootPath searches forward along outgoing references from id until it
// discovers a root-flagged object, and returns the path in root-to-start
// order. BFS discovery order makes the path shortest by hop count; when
// several roots sit at the same depth the first one reached in
// declaration order wins, so reruns on the same graph are identical.
//
// Note the direction: this walks the queried object's own references
// looking for a root among them, not the incoming-reference retainer
// chain. An object with no outgoing route to a root reports ErrNoPath
// even when a root retains it.
func (g *Graph) RootPath(id ObjID) ([]ObjID, error) {
	obj := g.store.Lookup(id)
	if obj == nil {
		return nil, ErrNotFound
	}
	if obj.IsRoot {
		return []ObjID{id}, nil
	}

	visited := map[ObjID]bool{id: true}
	parent := make(map[ObjID]ObjID)
	queue := []ObjID{id}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, ref := range g.store.Lookup(cur).Refs {
			if visited[ref] {
				continue
			}
			target := g.store.Lookup(ref)
			if target == nil {
				continue // dangling reference
			}
			visited[ref] = true
			parent[ref] = cur
			if target.IsRoot {
				return g.walkBack(ref, id, parent), nil
			}
			queue = append(queue, ref)
		}
	}
	return nil, ErrNoPath
}

// walkBack reconstructs the discovered path. Predecessors point toward
// the start node, so following them from the root yields root-to-start
// order directly.
func (g *Graph) walkBack(root, start ObjID, parent map[ObjID]ObjID) []ObjID {
	path := []ObjID{root}
	for cur := root; cur != start; {
		cur = parent[cur]
		path = append(path, cur)
	}
	return path
}
