package tcpnet

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/openmpc/partynet/api/transport"
)

// DefaultConnectTimeout bounds the bootstrap phase when the caller does
// not supply a timeout of their own.
const DefaultConnectTimeout = time.Minute

// Option configures a Network.
type Option func(*Network)

// WithLogger sets the logger used for connection and lifecycle events.
// The default is a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(n *Network) { n.log = log }
}

// WithMetrics wires Prometheus counters into the peer pipelines.
func WithMetrics(m *Metrics) Option {
	return func(n *Network) { n.metrics = m }
}

// Network is a point-to-point TCP transport between N numbered parties.
// Construction connects the whole network; afterwards every remote peer
// is served by one sender and one receiver goroutine, so sends are
// non-blocking and receives block only on the matching peer's inbound
// queue. Messages between any ordered pair of parties are delivered in
// send order; no ordering holds across pairs or between network and
// loopback traffic.
//
// A pipeline that fails is terminal for the session: there is no
// reconnect path, and the failure surfaces as ErrPeerGone on the next
// send or receive for that peer.
type Network struct {
	cfg       *Config
	log       zerolog.Logger
	metrics   *Metrics
	conns     map[int]net.Conn
	senders   map[int]*sender
	receivers map[int]*receiver
	self      *msgQueue

	mu     sync.Mutex
	closed bool
}

var _ transport.Network = (*Network)(nil)

// New connects the network and starts the per-peer pipelines. It blocks
// until every pairwise channel is established or the timeout elapses, in
// which case all partially opened sockets are closed and an error
// wrapping context.DeadlineExceeded is returned; no partial network is
// ever exposed. A non-positive timeout selects DefaultConnectTimeout.
//
// A single-party configuration skips the bootstrap entirely; only the
// loopback path is available.
func New(cfg *Config, timeout time.Duration, opts ...Option) (*Network, error) {
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	n := &Network{
		cfg:       cfg,
		log:       zerolog.Nop(),
		self:      newMsgQueue(),
		senders:   make(map[int]*sender, cfg.NoOfParties()-1),
		receivers: make(map[int]*receiver, cfg.NoOfParties()-1),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.log = n.log.With().Int("me", cfg.MyID()).Logger()

	if cfg.NoOfParties() > 1 {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		conns, err := connectAll(ctx, cfg, n.log)
		if err != nil {
			return nil, fmt.Errorf("connecting network: %w", err)
		}
		n.conns = conns
		for id, conn := range conns {
			snd := newSender(id, conn, n.metrics)
			rcv := newReceiver(id, conn, n.metrics)
			n.senders[id] = snd
			n.receivers[id] = rcv
			go snd.run()
			go rcv.run()
		}
	}
	n.log.Info().Int("parties", cfg.NoOfParties()).Msg("network connected")
	return n, nil
}

// MessageSend queues buffer for delivery to the receiver party. Sends to
// the local id go through the loopback queue and never touch the network;
// remote sends are queued on the peer's outbound pipeline and written
// asynchronously, so a nil return does not mean the peer has read the
// message. Zero-length payloads are rejected with ErrEmptyPayload.
func (n *Network) MessageSend(_ context.Context, receiver int, buffer []byte) error {
	if err := n.inRange(receiver); err != nil {
		return err
	}
	if len(buffer) == 0 {
		return fmt.Errorf("sending to party %d: %w", receiver, ErrEmptyPayload)
	}
	if n.isClosed() {
		return ErrClosed
	}
	if receiver == n.cfg.MyID() {
		n.self.push(buffer)
		return nil
	}
	snd := n.senders[receiver]
	if snd.terminated() {
		if snd.err != nil {
			return fmt.Errorf("sender for party %d: %w: %v", receiver, ErrPeerGone, snd.err)
		}
		return fmt.Errorf("sender for party %d: %w", receiver, ErrPeerGone)
	}
	snd.enqueue(buffer)
	return nil
}

// MessageReceive blocks until the next message from the sender party is
// available. Receives from the local id drain the loopback queue in send
// order. If the peer's receiver pipeline has terminated the call fails
// with ErrPeerGone instead of blocking forever, even when undelivered
// messages remain queued.
func (n *Network) MessageReceive(ctx context.Context, sender int) ([]byte, error) {
	if err := n.inRange(sender); err != nil {
		return nil, err
	}
	if n.isClosed() {
		return nil, ErrClosed
	}
	if sender == n.cfg.MyID() {
		return n.self.take(ctx)
	}
	return n.receivers[sender].inbound.take(ctx)
}

// MessagesReceive receives one message from each listed sender,
// concurrently, and returns them in the order of the senders slice.
func (n *Network) MessagesReceive(ctx context.Context, senders []int) ([][]byte, error) {
	msgs := make([][]byte, len(senders))
	g, ctx := errgroup.WithContext(ctx)
	for i, sender := range senders {
		g.Go(func() error {
			msg, err := n.MessageReceive(ctx, sender)
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

// NoOfParties returns N, fixed at construction.
func (n *Network) NoOfParties() int {
	return n.cfg.NoOfParties()
}

// Close shuts the network down: receivers are signalled, senders are
// unblocked and drained, sockets are closed (which terminates receivers
// blocked in a read), and all pipelines are awaited. Pipeline errors
// encountered during the drain are logged, never returned; Close is
// idempotent and always succeeds. Subsequent sends and receives fail
// fast with ErrClosed.
func (n *Network) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		n.log.Info().Msg("network already closed")
		return nil
	}
	n.closed = true
	n.mu.Unlock()

	n.self.close(ErrClosed)
	if n.cfg.NoOfParties() < 2 {
		n.log.Info().Msg("network closed")
		return nil
	}

	for _, rcv := range n.receivers {
		rcv.halt()
	}
	for _, snd := range n.senders {
		if !snd.terminated() {
			snd.unblock()
		}
	}
	for id, snd := range n.senders {
		<-snd.done
		if snd.err != nil {
			n.log.Warn().Int("party", id).Err(snd.err).Msg("failed sender detected while closing network")
		}
	}
	// Receivers may sit in a blocking read; closing the sockets is the
	// only way to unblock them.
	for id, conn := range n.conns {
		if err := conn.Close(); err != nil {
			n.log.Warn().Int("party", id).Err(err).Msg("closing channel")
		}
	}
	for id, rcv := range n.receivers {
		<-rcv.done
		if rcv.err != nil {
			n.log.Warn().Int("party", id).Err(rcv.err).Msg("failed receiver detected while closing network")
		}
	}
	n.log.Info().Msg("network closed")
	return nil
}

func (n *Network) inRange(id int) error {
	if id < 1 || id > n.cfg.NoOfParties() {
		return fmt.Errorf("party id %d not in range 1..%d: %w", id, n.cfg.NoOfParties(), ErrInvalidParty)
	}
	return nil
}

func (n *Network) isClosed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.closed
}
