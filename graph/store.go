// ABOUTME: Append-only arena for heap objects keyed by id
// ABOUTME: Preserves insertion order and rejects duplicate identities

package graph

// Store owns every heap object in a snapshot. It is append-only: objects
// are never removed or replaced for the life of the process. Iteration
// visits objects in insertion order, which keeps every downstream
// algorithm deterministic.
type Store struct {
	objs  []*Object
	index map[ObjID]int
	dups  int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		index: make(map[ObjID]int),
	}
}

// Insert adds obj unless its id is already present. The first insert of
// an id wins; a duplicate is rejected and counted, never fatal.
func (s *Store) Insert(obj *Object) bool {
	if _, ok := s.index[obj.ID]; ok {
		s.dups++
		return false
	}
	s.index[obj.ID] = len(s.objs)
	s.objs = append(s.objs, obj)
	return true
}

// Lookup returns the object with the given id, or nil.
func (s *Store) Lookup(id ObjID) *Object {
	i, ok := s.index[id]
	if !ok {
		return nil
	}
	return s.objs[i]
}

// Each visits every stored object in insertion order. It may be called
// any number of times with different closures.
func (s *Store) Each(fn func(*Object)) {
	for _, obj := range s.objs {
		fn(obj)
	}
}

// Count returns the number of stored objects.
func (s *Store) Count() int {
	return len(s.objs)
}

// Duplicates returns how many inserts were rejected for id collisions.
func (s *Store) Duplicates() int {
	return s.dups
}
