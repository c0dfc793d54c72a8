// Package chain implements the ordered-sequence container backing the
// TAPL list type: a singly-linked chain with a head pointer, a tail
// pointer for O(1) append, and a forward-only access cache that makes
// the ascending indexed loops produced by compiled code O(n) overall.
//
// The C definitions emitted by internal/cgen mirror this structure
// operation for operation; this package is the executable description
// of the behavior every emitted specialization must exhibit.
package chain

import "fmt"

// Fault is a fatal bounds violation. Indices outside an operation's
// valid range are programmer defects in the compiled program, not
// recoverable conditions, so the container raises a Fault via panic
// instead of returning an error. Callers are not expected to recover.
type Fault struct {
	Op    string
	Index uint64
	Size  uint64
}

func (f *Fault) Error() string {
	return fmt.Sprintf("index out of bounds in %s: index %d, size %d", f.Op, f.Index, f.Size)
}

// element is one node of the chain. Each element is reachable from
// exactly one predecessor (or from the container's head), and the
// chain is acyclic by construction.
type element[T any] struct {
	value T
	next  *element[T]
}

// Chain is one list instance. The zero value is not ready for use;
// construct with New.
//
// Chain performs no internal synchronization: compiled TAPL programs
// are single-threaded, and concurrent mutation is undefined behavior.
type Chain[T any] struct {
	head *element[T]
	tail *element[T]

	// Access cache: the most recently resolved index -> element pair.
	// Valid only until the next structural mutation.
	cacheValid   bool
	cacheIndex   uint64
	cacheElement *element[T]

	size uint64
}

// New returns an empty chain. No elements are allocated.
func New[T any]() *Chain[T] {
	return &Chain[T]{}
}

// Size returns the stored element count. It is never recomputed by
// traversal.
func (c *Chain[T]) Size() uint64 {
	return c.size
}

// invalidate clears the access cache. Every mutation calls this
// unconditionally, including append, which keeps the staleness rules
// uniform across operations.
func (c *Chain[T]) invalidate() {
	c.cacheValid = false
}

// Append adds a value at the back of the chain in O(1).
func (c *Chain[T]) Append(value T) {
	c.invalidate()
	elem := &element[T]{value: value}

	if c.head == nil {
		c.head = elem
		c.tail = elem
		c.size++
		return
	}

	c.tail.next = elem
	c.tail = elem
	c.size++
}

// lookup resolves an index to its element, going through the cache.
// The cache can only shortcut forward continuations of a previous
// access: the chain has no backward links, so a target below the
// cached index restarts from head. On success the cache records the
// absolute requested index, so a later forward access can chain off
// this result. On a bounds fault the cache is left untouched.
func (c *Chain[T]) lookup(op string, index uint64) *element[T] {
	target := index
	cursor := c.head

	if c.cacheValid && index >= c.cacheIndex {
		cursor = c.cacheElement
		index -= c.cacheIndex
	}

	for cursor != nil && index > 0 {
		cursor = cursor.next
		index--
	}

	if index > 0 || cursor == nil {
		panic(&Fault{Op: op, Index: target, Size: c.size})
	}

	c.cacheValid = true
	c.cacheIndex = target
	c.cacheElement = cursor

	return cursor
}

// Get returns the value at index. Faults when index >= Size().
func (c *Chain[T]) Get(index uint64) T {
	return c.lookup("get", index).value
}

// Set overwrites the value at index. Faults when index >= Size().
func (c *Chain[T]) Set(index uint64, value T) {
	c.lookup("set", index).value = value
}

// Delete removes the element at index, relinking its predecessor to
// its successor. Faults when index >= Size(). Cost is O(index).
func (c *Chain[T]) Delete(index uint64) {
	c.invalidate()

	if index == 0 {
		if c.head == nil {
			panic(&Fault{Op: "delete", Index: index, Size: c.size})
		}

		c.head = c.head.next
		c.size--

		// Deleted the only element: the tail observer must not
		// outlive it.
		if c.head == nil {
			c.tail = nil
		}
		return
	}

	// Walk to the predecessor of the element being removed. Bounds
	// are checked before any relinking, so a faulting delete commits
	// no partial mutation.
	remaining := index
	cursor := c.head
	for cursor != nil && remaining > 1 {
		cursor = cursor.next
		remaining--
	}

	if remaining > 1 || cursor == nil || cursor.next == nil {
		panic(&Fault{Op: "delete", Index: index, Size: c.size})
	}

	removed := cursor.next
	cursor.next = removed.next
	c.size--

	if removed == c.tail {
		c.tail = cursor
	}
}

// Insert places a value at index, shifting the element previously
// there (and everything after it) one position back. The valid index
// range is [0, Size()]; index == Size() behaves as append. Cost is
// O(index).
func (c *Chain[T]) Insert(index uint64, value T) {
	c.invalidate()

	if index == 0 {
		elem := &element[T]{value: value, next: c.head}
		c.head = elem
		if c.tail == nil {
			c.tail = elem
		}
		c.size++
		return
	}

	// The new element goes after the one at index-1.
	remaining := index - 1
	cursor := c.head
	for cursor != nil && remaining > 0 {
		cursor = cursor.next
		remaining--
	}

	if remaining > 0 || cursor == nil {
		panic(&Fault{Op: "insert", Index: index, Size: c.size})
	}

	elem := &element[T]{value: value, next: cursor.next}
	cursor.next = elem

	if elem.next == nil {
		c.tail = elem
	}

	c.size++
}
