package graph

import "fmt"

// handle is a generational index into an arena. Generation 0 is never
// issued, so the zero handle is always invalid.
type handle struct {
	index uint32
	gen   uint32
}

func (h handle) String() string {
	return fmt.Sprintf("%d.%d", h.index, h.gen)
}

type slot[T any] struct {
	gen   uint32
	live  bool
	value T
}

// arena owns values of one kind and hands out handles to them. Freed slots
// are reused with a bumped generation.
type arena[T any] struct {
	slots []slot[T]
	free  []uint32
	count int
}

// insert stores the value built by fn, which receives the handle the value
// will live under.
func (a *arena[T]) insert(fn func(h handle) T) handle {
	var h handle
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.gen++
		s.live = true
		h = handle{index: idx, gen: s.gen}
	} else {
		a.slots = append(a.slots, slot[T]{gen: 1, live: true})
		h = handle{index: uint32(len(a.slots) - 1), gen: 1}
	}
	a.slots[h.index].value = fn(h)
	a.count++
	return h
}

func (a *arena[T]) get(h handle) (*T, bool) {
	if h.gen == 0 || int(h.index) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[h.index]
	if !s.live || s.gen != h.gen {
		return nil, false
	}
	return &s.value, true
}

func (a *arena[T]) remove(h handle) bool {
	if _, ok := a.get(h); !ok {
		return false
	}
	s := &a.slots[h.index]
	var zero T
	s.value = zero
	s.live = false
	a.free = append(a.free, h.index)
	a.count--
	return true
}

// each visits live values in slot order.
func (a *arena[T]) each(fn func(h handle, v *T)) {
	for i := range a.slots {
		s := &a.slots[i]
		if s.live {
			fn(handle{index: uint32(i), gen: s.gen}, &s.value)
		}
	}
}

func (a *arena[T]) len() int {
	return a.count
}
