package harness

import (
	"sort"
	"sync"
)

// SortingQueue delivers items on C in the order of their counters, starting at 1, regardless
// of the order in which Accept is called. An item whose predecessors have not all arrived yet
// is held back until they do.
type SortingQueue[V any] struct {
	C           chan V
	lastCounter int
	deferred    []deferredItem[V]
	lock        sync.Mutex
	closeOnce   sync.Once
}

type deferredItem[V any] struct {
	counter int
	item    V
}

func NewSortingQueue[V any](channelSize int) *SortingQueue[V] {
	return &SortingQueue[V]{C: make(chan V, channelSize)}
}

func (q *SortingQueue[V]) Accept(counter int, item V) {
	q.lock.Lock()
	if counter > q.lastCounter+1 {
		q.deferred = append(q.deferred, deferredItem[V]{counter: counter, item: item})
		sort.Slice(q.deferred, func(i, j int) bool { return q.deferred[i].counter < q.deferred[j].counter })
		q.lock.Unlock()
		return
	}
	q.lastCounter = counter
	q.C <- item
	for len(q.deferred) > 0 {
		next := q.deferred[0]
		if next.counter != q.lastCounter+1 {
			break
		}
		q.deferred = q.deferred[1:]
		q.lastCounter++
		q.C <- next.item
	}
	q.lock.Unlock()
}

func (q *SortingQueue[V]) Deferred() []V {
	q.lock.Lock()
	ret := make([]V, 0, len(q.deferred))
	for _, d := range q.deferred {
		ret = append(ret, d.item)
	}
	q.lock.Unlock()
	return ret
}

func (q *SortingQueue[V]) Close() {
	q.closeOnce.Do(func() {
		q.lock.Lock()
		close(q.C)
		q.lock.Unlock()
	})
}
