package align

import (
	"fmt"
	"io"
	"sync"
)

// ChunkQueue reorders out-of-order chunk results for the sequential
// alignment fold. Per-chunk analysis may finish in any order; Next releases
// results strictly in ascending chunk index, blocking until the next index
// arrives or the queue is closed for writing.
//
// When the queue is closed, Next drains whatever contiguous run is still
// pending and then returns io.EOF. Results stranded behind a missing index
// at close time are dropped; already-released chunks are unaffected.
type ChunkQueue[T any] struct {
	writeNotify chan struct{}

	mu      sync.Mutex
	pending map[int]T
	next    int
	closed  bool
}

// NewChunkQueue creates a queue whose first released index is start.
func NewChunkQueue[T any](start int) *ChunkQueue[T] {
	return &ChunkQueue[T]{
		writeNotify: make(chan struct{}, 1),
		pending:     make(map[int]T),
		next:        start,
	}
}

// Put stores one chunk's result. Duplicate indices, indices already
// released, and writes after close are errors.
func (q *ChunkQueue[T]) Put(index int, result T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return fmt.Errorf("align: put chunk %d on closed queue: %w", index, io.ErrClosedPipe)
	}
	if index < q.next {
		return fmt.Errorf("align: chunk %d already released", index)
	}
	if _, ok := q.pending[index]; ok {
		return fmt.Errorf("align: duplicate chunk %d", index)
	}
	q.pending[index] = result

	select {
	case q.writeNotify <- struct{}{}:
	default:
	}
	return nil
}

// Next blocks until the next chunk in index order is available and returns
// its index and result. Returns io.EOF once the queue is closed and the
// next index cannot arrive.
func (q *ChunkQueue[T]) Next() (int, T, error) {
	q.mu.Lock()
	for {
		if result, ok := q.pending[q.next]; ok {
			delete(q.pending, q.next)
			index := q.next
			q.next++
			q.mu.Unlock()
			return index, result, nil
		}
		if q.closed {
			q.mu.Unlock()
			var zero T
			return 0, zero, io.EOF
		}
		q.mu.Unlock()
		<-q.writeNotify
		q.mu.Lock()
	}
}

// CloseWrite stops accepting new results. Pending in-order results remain
// readable; blocked Next calls wake up.
func (q *ChunkQueue[T]) CloseWrite() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.writeNotify)
}

// Len reports the number of results waiting in the queue.
func (q *ChunkQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
