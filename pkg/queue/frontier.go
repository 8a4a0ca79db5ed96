package queue

import (
	"container/heap"
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyFrontier = errors.New("queue: frontier is empty")

// KeyFunc extracts one component of the ordering key from an item.
type KeyFunc[T any] func(item T) float64

// Frontier is a min-priority queue. The order of the items is given by the
// tuple built from the key functions, compared lexicographically.
// Not safe for concurrent use.
type Frontier[T any] struct {
	keys  []KeyFunc[T]
	queue entries[T]
}

type entry[T any] struct {
	key   Key // computed once on insertion
	item  T
	index int // index of the entry in the heap
}

// Create a new frontier ordered by the given key functions (in this order)
func NewFrontier[T any](keys ...KeyFunc[T]) *Frontier[T] {
	f := &Frontier[T]{keys: keys, queue: make(entries[T], 0)}
	heap.Init(&f.queue)
	return f
}

// Implements heap.Interface
type entries[T any] []*entry[T]

func (q entries[T]) Len() int           { return len(q) }
func (q entries[T]) Less(i, j int) bool { return q[i].key.Less(q[j].key) }
func (q entries[T]) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}
func (q *entries[T]) Push(x any) {
	n := len(*q)
	e := x.(*entry[T])
	e.index = n
	*q = append(*q, e)
}
func (q *entries[T]) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1 // for safety
	*q = old[:n-1]
	return e
}

// Insert the item. Its key is evaluated once, here.
func (f *Frontier[T]) Insert(item T) {
	key := make(Key, len(f.keys))
	for i, fn := range f.keys {
		key[i] = fn(item)
	}
	heap.Push(&f.queue, &entry[T]{key: key, item: item})
}

// Remove and return the item with the smallest key.
func (f *Frontier[T]) RemoveMin() (T, error) {
	if f.queue.Len() == 0 {
		var zero T
		return zero, ErrEmptyFrontier
	}
	return heap.Pop(&f.queue).(*entry[T]).item, nil
}

// Return the item with the smallest key without removing it.
func (f *Frontier[T]) Peek() (T, error) {
	if f.queue.Len() == 0 {
		var zero T
		return zero, ErrEmptyFrontier
	}
	return f.queue[0].item, nil
}

func (f *Frontier[T]) Len() int      { return f.queue.Len() }
func (f *Frontier[T]) IsEmpty() bool { return f.queue.Len() == 0 }

// String lists the entries in heap order (not sorted).
func (f *Frontier[T]) String() string {
	var sb strings.Builder
	for i, e := range f.queue {
		sb.WriteString(fmt.Sprintf("%v: %v %v\n", i, e.key, e.item))
	}
	return sb.String()
}
