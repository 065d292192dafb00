package tcpnet

import (
	"container/list"
	"context"
	"sync"
)

// msgQueue is an unbounded FIFO of payloads with blocking take and
// close-with-error semantics. Each queue has exactly one producer and one
// consumer in steady state, but the implementation tolerates more.
//
// A closed queue fails take immediately, even if undelivered items
// remain; this is how a caller observes that the pipeline feeding the
// queue has terminated.
type msgQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  list.List
	closed bool
	err    error
}

func newMsgQueue() *msgQueue {
	q := &msgQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push appends buf to the queue. Pushes after close are dropped.
func (q *msgQueue) push(buf []byte) {
	q.mu.Lock()
	if !q.closed {
		q.items.PushBack(buf)
	}
	q.mu.Unlock()
	q.cond.Broadcast()
}

// take removes and returns the oldest item, blocking until one is
// available, the queue is closed, or ctx is done.
func (q *msgQueue) take(ctx context.Context) ([]byte, error) {
	if ctx.Done() != nil {
		stop := context.AfterFunc(ctx, q.cond.Broadcast)
		defer stop()
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		if q.closed {
			return nil, q.err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if front := q.items.Front(); front != nil {
			q.items.Remove(front)
			return front.Value.([]byte), nil
		}
		q.cond.Wait()
	}
}

// close marks the queue terminated with the given error and wakes all
// blocked takers. Only the first close takes effect.
func (q *msgQueue) close(err error) {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		q.err = err
	}
	q.mu.Unlock()
	q.cond.Broadcast()
}

func (q *msgQueue) empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len() == 0
}
