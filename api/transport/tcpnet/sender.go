package tcpnet

import (
	"context"
	"net"
	"sync/atomic"
)

// sender drains one peer's outbound queue onto its connection, writing
// each payload as a frame in submission order. It runs on its own
// goroutine until unblocked during teardown or until a write fails.
type sender struct {
	party   int
	conn    net.Conn
	queue   *msgQueue
	flush   atomic.Bool
	stop    atomic.Bool
	done    chan struct{}
	err     error // written by run before done is closed
	metrics *Metrics
}

func newSender(party int, conn net.Conn, metrics *Metrics) *sender {
	return &sender{
		party:   party,
		conn:    conn,
		queue:   newMsgQueue(),
		done:    make(chan struct{}),
		metrics: metrics,
	}
}

func (s *sender) enqueue(buf []byte) {
	s.queue.push(buf)
}

// unblock signals the sender to drain its queue and exit. If the queue is
// currently empty a zero-length sentinel is pushed so a blocked take
// wakes up; the sender recognizes that case and discards the sentinel
// instead of writing it.
func (s *sender) unblock() {
	s.flush.Store(true)
	if s.queue.empty() {
		s.stop.Store(true)
		s.queue.push([]byte{})
	}
}

func (s *sender) terminated() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *sender) run() {
	defer close(s.done)
	for !s.queue.empty() || !s.flush.Load() {
		data, err := s.queue.take(context.Background())
		if err != nil {
			s.err = err
			return
		}
		if s.stop.Load() {
			// Woken only to observe the stop; the sentinel is not written.
			continue
		}
		if err := writeFrame(s.conn, data); err != nil {
			s.err = err
			return
		}
		s.metrics.addSent(len(data))
	}
}
