package tcpnet

import (
	"fmt"
	"net"
	"sync/atomic"
)

// receiver decodes frames arriving on one peer's connection into an
// inbound queue. It runs on its own goroutine until a read fails or a
// stop is requested; the stop flag is checked at loop-top only, so a
// receiver blocked in a read is unblocked by the teardown closing the
// socket, which it then treats as a normal termination.
type receiver struct {
	party   int
	conn    net.Conn
	inbound *msgQueue
	stop    atomic.Bool
	done    chan struct{}
	err     error // written by run before done is closed
	metrics *Metrics
}

func newReceiver(party int, conn net.Conn, metrics *Metrics) *receiver {
	return &receiver{
		party:   party,
		conn:    conn,
		inbound: newMsgQueue(),
		done:    make(chan struct{}),
		metrics: metrics,
	}
}

// halt requests the receiver to exit at its next loop-top check. An
// in-progress blocking read is not interrupted.
func (r *receiver) halt() {
	r.stop.Store(true)
}

func (r *receiver) terminated() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

func (r *receiver) run() {
	defer close(r.done)
	for !r.stop.Load() {
		payload, err := readFrame(r.conn)
		if err != nil {
			if !r.stop.Load() {
				r.err = err
			}
			break
		}
		r.inbound.push(payload)
		r.metrics.addReceived(len(payload))
	}
	terminal := fmt.Errorf("receiver for party %d: %w", r.party, ErrPeerGone)
	if r.err != nil {
		terminal = fmt.Errorf("receiver for party %d: %w: %v", r.party, ErrPeerGone, r.err)
	}
	r.inbound.close(terminal)
}
