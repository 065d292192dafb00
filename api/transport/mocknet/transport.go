package mocknet

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/openmpc/partynet/api/transport"
)

// Errors returned by the mock transport. They mirror the tcpnet contract
// so code under test can be moved between the two without changes.
var (
	ErrInvalidParty = errors.New("party id out of range")
	ErrClosed       = errors.New("messenger closed")
	ErrEmptyPayload = errors.New("zero-length payload not allowed")
)

// MockMessenger is an in-memory transport.Network for one party. All
// parties of a mock network share memory; messages are delivered by
// pushing into the receiving party's per-sender FIFO queue.
type MockMessenger struct {
	partyID int
	peers   []*MockMessenger // indexed by party id - 1

	mu     sync.Mutex
	cond   *sync.Cond
	queues []list.List // inbound, indexed by sender id - 1
	closed bool
}

var _ transport.Network = (*MockMessenger)(nil)

func newMockMessenger(partyID int) *MockMessenger {
	m := &MockMessenger{partyID: partyID}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// setPeers wires this messenger to all parties of the network, itself
// included so loopback delivery uses the same path.
func (m *MockMessenger) setPeers(peers []*MockMessenger) {
	m.peers = peers
	m.queues = make([]list.List, len(peers))
}

// MessageSend delivers buffer into the receiver party's inbound queue.
// Sending to one's own id is the loopback path and is allowed.
func (m *MockMessenger) MessageSend(_ context.Context, receiver int, buffer []byte) error {
	if receiver < 1 || receiver > len(m.peers) {
		return fmt.Errorf("party id %d not in range 1..%d: %w", receiver, len(m.peers), ErrInvalidParty)
	}
	if len(buffer) == 0 {
		return fmt.Errorf("sending to party %d: %w", receiver, ErrEmptyPayload)
	}
	if m.isClosed() {
		return ErrClosed
	}
	peer := m.peers[receiver-1]
	peer.mu.Lock()
	if peer.closed {
		peer.mu.Unlock()
		return fmt.Errorf("sending to party %d: %w", receiver, ErrClosed)
	}
	peer.queues[m.partyID-1].PushBack(buffer)
	peer.mu.Unlock()
	peer.cond.Broadcast()
	return nil
}

// MessageReceive blocks until the next message from the sender party is
// available, the messenger is closed, or ctx is done.
func (m *MockMessenger) MessageReceive(ctx context.Context, sender int) ([]byte, error) {
	if sender < 1 || sender > len(m.peers) {
		return nil, fmt.Errorf("party id %d not in range 1..%d: %w", sender, len(m.peers), ErrInvalidParty)
	}
	if ctx.Done() != nil {
		stop := context.AfterFunc(ctx, m.cond.Broadcast)
		defer stop()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	queue := &m.queues[sender-1]
	for {
		if m.closed {
			return nil, ErrClosed
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if front := queue.Front(); front != nil {
			queue.Remove(front)
			return front.Value.([]byte), nil
		}
		m.cond.Wait()
	}
}

// MessagesReceive receives one message from each listed sender and
// returns them in the order of the senders slice. If any receive fails
// the remaining ones are cancelled.
func (m *MockMessenger) MessagesReceive(ctx context.Context, senders []int) ([][]byte, error) {
	msgs := make([][]byte, len(senders))
	g, ctx := errgroup.WithContext(ctx)
	for i, sender := range senders {
		g.Go(func() error {
			msg, err := m.MessageReceive(ctx, sender)
			if err != nil {
				return fmt.Errorf("receiving from party %d: %w", sender, err)
			}
			msgs[i] = msg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return msgs, nil
}

// NoOfParties returns the number of parties in the mock network.
func (m *MockMessenger) NoOfParties() int {
	return len(m.peers)
}

// Close marks this party's messenger closed and wakes all blocked
// receives. Idempotent.
func (m *MockMessenger) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.cond.Broadcast()
	return nil
}

// reopen clears queues and the closed flag so a runner can reuse the
// network across runs.
func (m *MockMessenger) reopen() {
	m.mu.Lock()
	m.closed = false
	for i := range m.queues {
		m.queues[i].Init()
	}
	m.mu.Unlock()
}

func (m *MockMessenger) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// NewMockNetwork creates a complete mock network with the specified
// number of parties, ids 1..nParties, already wired together.
func NewMockNetwork(nParties int) []*MockMessenger {
	messengers := make([]*MockMessenger, nParties)
	for i := 0; i < nParties; i++ {
		messengers[i] = newMockMessenger(i + 1)
	}
	for i := 0; i < nParties; i++ {
		messengers[i].setPeers(messengers)
	}
	return messengers
}
