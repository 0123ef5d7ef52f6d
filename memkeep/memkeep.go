package memkeep

import (
	"fmt"
	"iter"

	"github.com/oliverbestmann/colony/internal/assert"
)

// DefaultCapacity is used when a MemKeep is decoded without an explicit capacity.
const DefaultCapacity = 1024

// MaxCapacity limits how far loading grows a MemKeep to fit the ids found in its input.
// Indices beyond it are reported as corrupt.
const MaxCapacity = 1 << 20

type slot[T any] struct {
	generation uint32
	notDeleted bool
	value      T
}

// MemKeep is a fixed capacity arena handing out generational Ids.
//
// Values are addressed by pointer into the preallocated storage. A pointer returned by
// Get, Remove or one of the iterators stays valid until the next call to GC, which is the
// only operation recycling memory. GC panics while any borrow (see Pin) is outstanding.
//
// A MemKeep must not be copied after first use.
type MemKeep[T any] struct {
	_ noCopy

	storage  []slot[T]
	freelist []uint32
	garbage  []uint32

	borrows int
}

// New creates a MemKeep with room for exactly capacity live values.
func New[T any](capacity int) *MemKeep[T] {
	if capacity < 0 || uint64(capacity) > uint64(^uint32(0)) {
		panic(fmt.Sprintf("memkeep: invalid capacity %d", capacity))
	}

	k := &MemKeep[T]{
		storage:  make([]slot[T], capacity),
		freelist: make([]uint32, 0, capacity),
	}

	// push in reverse so the lowest index is popped first
	for idx := capacity - 1; idx >= 0; idx-- {
		k.freelist = append(k.freelist, uint32(idx))
	}

	return k
}

// Cap returns the fixed number of slots.
func (k *MemKeep[T]) Cap() int {
	return len(k.storage)
}

// Len returns the number of live values.
func (k *MemKeep[T]) Len() int {
	return len(k.storage) - len(k.freelist) - len(k.garbage)
}

func (k *MemKeep[T]) slotOf(id Id) *slot[T] {
	if int64(id.Index) >= int64(len(k.storage)) {
		assert.That(false, "memkeep: id %s out of range for capacity %d", id, len(k.storage))
		return nil
	}

	s := &k.storage[id.Index]
	if s.generation != id.Generation || !s.notDeleted {
		return nil
	}

	return s
}

// Get returns the value for id. Stale ids are reported as not found.
func (k *MemKeep[T]) Get(id Id) (*T, bool) {
	s := k.slotOf(id)
	if s == nil {
		return nil, false
	}

	return &s.value, true
}

// GetMaybe is Get for an optional id. A nil id is not found.
func (k *MemKeep[T]) GetMaybe(id *Id) (*T, bool) {
	if id == nil {
		return nil, false
	}

	return k.Get(*id)
}

// InsertWithoutSettingId stores value in a free slot and returns its new Id.
func (k *MemKeep[T]) InsertWithoutSettingId(value T) (Id, error) {
	return k.InsertWithMut(value, nil)
}

// InsertWithMut allocates an Id and passes it to fn together with the value
// before the value is stored. fn may be nil. The slot is reserved while fn runs,
// so fn may insert into the same MemKeep. If fn panics, the slot is released
// again and the Id passed to fn is never handed out.
func (k *MemKeep[T]) InsertWithMut(value T, fn func(value *T, id Id)) (Id, error) {
	if len(k.freelist) == 0 {
		return Invalid, &FullError{Capacity: len(k.storage)}
	}

	index := k.freelist[len(k.freelist)-1]
	k.freelist = k.freelist[:len(k.freelist)-1]

	s := &k.storage[index]

	// generation zero is reserved for the invalid id
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}

	id := Id{Index: index, Generation: s.generation}

	if fn != nil {
		committed := false
		defer func() {
			if !committed {
				k.freelist = append(k.freelist, index)
			}
		}()

		fn(&value, id)
		committed = true
	}

	s.notDeleted = true
	s.value = value

	return id, nil
}

// Remove marks the value as deleted. The returned pointer still points to the
// last state of the value and stays valid until the next GC.
// Removing a stale id is a no-op.
func (k *MemKeep[T]) Remove(id Id) (*T, bool) {
	s := k.slotOf(id)
	if s == nil {
		return nil, false
	}

	s.notDeleted = false
	k.garbage = append(k.garbage, id.Index)

	return &s.value, true
}

// Enumerate yields all live values in increasing index order.
// The arena is borrowed while the iteration runs.
func (k *MemKeep[T]) Enumerate() iter.Seq2[Id, *T] {
	return func(yield func(Id, *T) bool) {
		k.borrows++
		defer func() { k.borrows-- }()

		for idx := range k.storage {
			s := &k.storage[idx]
			if !s.notDeleted {
				continue
			}

			if !yield(Id{Index: uint32(idx), Generation: s.generation}, &s.value) {
				return
			}
		}
	}
}

// Values yields all live values in increasing index order.
func (k *MemKeep[T]) Values() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for _, value := range k.Enumerate() {
			if !yield(value) {
				return
			}
		}
	}
}

// Ids yields the ids of all live values in increasing index order.
func (k *MemKeep[T]) Ids() iter.Seq[Id] {
	return func(yield func(Id) bool) {
		for id := range k.Enumerate() {
			if !yield(id) {
				return
			}
		}
	}
}

// Pin records an outstanding borrow of the arena. Until release is called, GC panics.
// Calling release more than once has no effect.
func (k *MemKeep[T]) Pin() (release func()) {
	k.borrows++

	var released bool
	return func() {
		if released {
			return
		}

		released = true
		k.borrows--
	}
}

// Borrowed reports whether any borrow of the arena is outstanding.
func (k *MemKeep[T]) Borrowed() bool {
	return k.borrows > 0
}

// GC reclaims every slot removed since the last call and returns their number.
// All pointers previously returned for removed values become invalid.
// Must not be called while the arena is borrowed.
func (k *MemKeep[T]) GC() int {
	k.requireUnborrowed("gc")

	var reclaimed int
	for _, index := range k.garbage {
		s := &k.storage[index]
		if s.notDeleted {
			continue
		}

		var zero T
		s.value = zero

		k.freelist = append(k.freelist, index)
		reclaimed++
	}

	k.garbage = k.garbage[:0]

	return reclaimed
}

func (k *MemKeep[T]) requireUnborrowed(op string) {
	if k.borrows > 0 {
		panic(fmt.Sprintf("memkeep: %s called while %d borrows are outstanding", op, k.borrows))
	}
}

// restore places value at the exact index and generation of id.
func (k *MemKeep[T]) restore(record int, id Id, value T) error {
	if int64(id.Index) >= int64(len(k.storage)) {
		return &CorruptError{Record: record, Reason: fmt.Sprintf("index %d exceeds capacity %d", id.Index, len(k.storage))}
	}

	if id.Generation == 0 {
		return &CorruptError{Record: record, Reason: fmt.Sprintf("id %s has generation zero", id)}
	}

	s := &k.storage[id.Index]
	if s.notDeleted {
		return &CorruptError{Record: record, Reason: fmt.Sprintf("duplicate index %d", id.Index)}
	}

	s.generation = id.Generation
	s.notDeleted = true
	s.value = value

	return nil
}

// rebuildFreelist collects all slots that are not live. Scanning in reverse
// leaves the lowest free index on top, like in a freshly created MemKeep.
func (k *MemKeep[T]) rebuildFreelist() {
	k.freelist = k.freelist[:0]
	k.garbage = k.garbage[:0]

	for idx := len(k.storage) - 1; idx >= 0; idx-- {
		if !k.storage[idx].notDeleted {
			k.freelist = append(k.freelist, uint32(idx))
		}
	}
}

// Must panics if err is not nil. It is meant for arenas sized so that
// running out of slots is a programming error.
func Must(id Id, err error) Id {
	if err != nil {
		panic(err)
	}

	return id
}

// noCopy can be embedded to provide "go vet" linting
// when a type should not be copied
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
