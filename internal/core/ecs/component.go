package ecs

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
}

// Store is a generic typed map store for one component kind. At most one
// component of a kind per entity. No reflect and no interface boxing.
type Store[T any] struct {
	data map[EntityID]*T
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		data: make(map[EntityID]*T, 256),
	}
}

func (s *Store[T]) Set(id EntityID, c *T) {
	s.data[id] = c
}

// Insert adds the component only if the entity does not already hold one of
// this kind. Returns false (and leaves the store untouched) otherwise.
func (s *Store[T]) Insert(id EntityID, c *T) bool {
	if _, ok := s.data[id]; ok {
		return false
	}
	s.data[id] = c
	return true
}

func (s *Store[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

func (s *Store[T]) Remove(id EntityID) {
	delete(s.data, id)
}

// Take removes and returns the component, reporting whether it was present.
// Used to stage multi-component moves so they can be rolled back.
func (s *Store[T]) Take(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	if ok {
		delete(s.data, id)
	}
	return c, ok
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *Store[T]) Len() int {
	return len(s.data)
}

func (s *Store[T]) Each(fn func(EntityID, *T)) {
	for id, c := range s.data {
		fn(id, c)
	}
}
