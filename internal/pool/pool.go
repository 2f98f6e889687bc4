package pool

// Resettable is a constraint for types that can be cleared for reuse.
type Resettable interface {
	Reset()
}

// Poolable combines Resettable with comparability so the zero value can be
// detected on Put.
type Poolable interface {
	Resettable
	comparable
}

// Pool is a bounded object pool. Get returns the zero value of T when the
// pool is empty; Put resets the object and discards it when the pool is full.
type Pool[T Poolable] struct {
	items chan T
}

// New creates a Pool holding at most capacity objects.
func New[T Poolable](capacity int) *Pool[T] {
	return &Pool[T]{
		items: make(chan T, capacity),
	}
}

// Get retrieves an object from the pool, or the zero value of T if empty.
func (p *Pool[T]) Get() T {
	select {
	case item := <-p.items:
		return item
	default:
		var zero T
		return zero
	}
}

// Put resets the object and returns it to the pool. Full pool drops it.
func (p *Pool[T]) Put(item T) {
	var zero T
	if item != zero {
		item.Reset()
	}

	select {
	case p.items <- item:
	default:
	}
}
