package tcpnet

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	// The bootstrap handshake is a single byte: the dialer's party id.
	handshakeBytes = 1

	dialBackoffFloor = 1 * time.Millisecond
	dialBackoffCeil  = 1 * time.Second
)

// connectAll establishes exactly one duplex connection per remote party
// and returns them keyed by party id.
//
// The deadlock-avoidance invariant: the party with id i dials every party
// with id j > i and accepts a connection from every party with id j < i.
// For any unordered pair exactly one side initiates, so no two parties
// can both sit waiting to accept from each other.
//
// Both sub-tasks run under ctx; if either fails or ctx expires, every
// partially opened socket is closed and the error is returned. On success
// the listening socket has already been closed.
func connectAll(ctx context.Context, cfg *Config, log zerolog.Logger) (map[int]net.Conn, error) {
	var mu sync.Mutex
	conns := make(map[int]net.Conn, cfg.NoOfParties()-1)
	add := func(id int, c net.Conn) {
		mu.Lock()
		conns[id] = c
		mu.Unlock()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return dialHigher(ctx, cfg, log, add) })
	g.Go(func() error { return acceptLower(ctx, cfg, log, add) })
	if err := g.Wait(); err != nil {
		for _, c := range conns {
			c.Close()
		}
		return nil, err
	}
	return conns, nil
}

// dialHigher connects, as a client, to every party with a higher id.
// Refused connections are retried with a doubling backoff until ctx
// expires; the first byte written on a fresh connection is our own id.
func dialHigher(ctx context.Context, cfg *Config, log zerolog.Logger, add func(int, net.Conn)) error {
	var d net.Dialer
	for id := cfg.MyID() + 1; id <= cfg.NoOfParties(); id++ {
		p := cfg.Party(id)
		delay := dialBackoffFloor
		for {
			conn, err := d.DialContext(ctx, "tcp", p.Addr())
			if err == nil {
				if _, err := conn.Write([]byte{byte(cfg.MyID())}); err != nil {
					conn.Close()
					return fmt.Errorf("handshake with %s: %w", p, err)
				}
				add(id, conn)
				log.Info().Int("party", id).Str("addr", p.Addr()).Msg("connected")
				break
			}
			select {
			case <-ctx.Done():
				return fmt.Errorf("connecting to %s: %w", p, ctx.Err())
			case <-time.After(delay):
			}
			delay *= 2
			if delay > dialBackoffCeil {
				delay = dialBackoffCeil
			}
		}
	}
	return nil
}

// acceptLower binds the local address and accepts exactly one connection
// from every party with a lower id, learning each remote identity from
// the one-byte handshake. The listener is closed once all expected
// connections have arrived, or by ctx expiring, which unblocks Accept.
func acceptLower(ctx context.Context, cfg *Config, log zerolog.Logger, add func(int, net.Conn)) error {
	me := cfg.Me()
	ln, err := net.Listen("tcp", me.Addr())
	if err != nil {
		return fmt.Errorf("binding %s: %w", me.Addr(), err)
	}
	defer ln.Close()
	halt := context.AfterFunc(ctx, func() { ln.Close() })
	defer halt()
	log.Info().Str("addr", me.Addr()).Msg("listening")

	seen := make(map[int]bool, cfg.MyID()-1)
	for i := 1; i < cfg.MyID(); i++ {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("accepting connections: %w", ctx.Err())
			}
			return fmt.Errorf("accepting connections: %w", err)
		}
		var handshake [handshakeBytes]byte
		if _, err := io.ReadFull(conn, handshake[:]); err != nil {
			conn.Close()
			return fmt.Errorf("reading handshake id: %w", err)
		}
		id := int(handshake[0])
		if id < 1 || id >= cfg.MyID() || seen[id] {
			conn.Close()
			return fmt.Errorf("unexpected handshake id %d from %s", id, conn.RemoteAddr())
		}
		seen[id] = true
		add(id, conn)
		log.Info().Int("party", id).Msg("accepted connection")
	}
	return nil
}
