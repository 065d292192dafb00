package mocknet

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/openmpc/partynet/api/transport"
)

// PartyFunc is one party's side of a protocol run. It is handed the
// party's id and its view of the network and returns that party's output.
type PartyFunc func(partyID int, net transport.Network) ([]byte, error)

// Runner executes one function per party over a wired mock network and
// collects the outputs. It is reusable: queues and state are reset
// between runs.
type Runner struct {
	nParties   int
	messengers []*MockMessenger
}

// NewRunner creates a runner backed by a fresh mock network.
func NewRunner(nParties int) *Runner {
	if nParties < 1 {
		panic("NewRunner requires at least one party")
	}
	return &Runner{
		nParties:   nParties,
		messengers: NewMockNetwork(nParties),
	}
}

// NoOfParties returns the number of parties the runner drives.
func (r *Runner) NoOfParties() int { return r.nParties }

// Run executes f concurrently for every party and returns the per-party
// outputs indexed by party id - 1. If any party fails, all messengers are
// closed so parties blocked in a receive wake up, and the first error is
// returned.
func (r *Runner) Run(ctx context.Context, f PartyFunc) ([][]byte, error) {
	for _, m := range r.messengers {
		m.reopen()
	}

	outs := make([][]byte, r.nParties)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < r.nParties; i++ {
		g.Go(func() error {
			out, err := f(i+1, r.messengers[i])
			if err != nil {
				// Unblock the other parties before reporting.
				for _, m := range r.messengers {
					m.Close()
				}
				return fmt.Errorf("party %d: %w", i+1, err)
			}
			outs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outs, nil
}
