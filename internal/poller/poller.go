// Package poller runs a fetch on a fixed interval until its context ends.
package poller

import (
	"context"
	"time"
)

// Func is one poll. Errors are reported to the error handler and do not
// stop the loop.
type Func func(ctx context.Context) error

// Poller calls Fetch immediately and then every Interval.
type Poller struct {
	Interval time.Duration
	Fetch    Func
	OnError  func(error)
}

// New returns a poller. A non-positive interval is treated as one second.
func New(interval time.Duration, fetch Func) *Poller {
	if interval <= 0 {
		interval = time.Second
	}
	return &Poller{Interval: interval, Fetch: fetch}
}

// Run blocks until ctx is canceled and returns ctx.Err().
func (p *Poller) Run(ctx context.Context) error {
	t := time.NewTicker(p.Interval)
	defer t.Stop()

	// initial pass
	p.once(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			p.once(ctx)
		}
	}
}

func (p *Poller) once(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := p.Fetch(ctx); err != nil && p.OnError != nil {
		p.OnError(err)
	}
}
