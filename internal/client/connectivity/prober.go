package connectivity

import (
	"context"
	"time"

	"github.com/arogyahealth/arogya-go/internal/logging"
)

// ProbeFunc checks backend reachability; nil means reachable.
type ProbeFunc func(ctx context.Context) error

// Prober drives a Hub from a periodic reachability probe. It is the
// default stand-in for a platform network-change primitive: embedders
// that get real OS notifications can skip the Prober and call
// Hub.SetOnline directly.
type Prober struct {
	hub      *Hub
	probe    ProbeFunc
	interval time.Duration
	timeout  time.Duration
	logger   logging.Logger
}

// NewProber returns a Prober that probes every interval, giving each
// probe a 3 second budget.
func NewProber(hub *Hub, probe ProbeFunc, interval time.Duration, logger logging.Logger) *Prober {
	return &Prober{
		hub:      hub,
		probe:    probe,
		interval: interval,
		timeout:  3 * time.Second,
		logger:   logger,
	}
}

// Run probes immediately, then on every tick, until ctx is cancelled.
// It blocks; run it in a goroutine.
func (p *Prober) Run(ctx context.Context) {
	p.check(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.check(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Prober) check(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.probe(probeCtx)
	was := p.hub.Online()
	now := err == nil

	if was != now {
		if now {
			p.logger.Info(ctx, "backend reachable, switching to online mode")
		} else {
			p.logger.Info(ctx, "backend unreachable, switching to offline mode", "error", err)
		}
	}
	p.hub.SetOnline(now)
}
