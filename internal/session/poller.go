package session

import (
	"context"
	"time"

	"sales-assist-bff/internal/constant"
)

type PollConfig struct {
	IdleThreshold time.Duration
	Interval      time.Duration
	MaxDuration   time.Duration
}

func (c PollConfig) withDefaults() PollConfig {
	if c.IdleThreshold <= 0 {
		c.IdleThreshold = constant.DefaultPollIdleThreshold
	}
	if c.Interval <= 0 {
		c.Interval = constant.DefaultPollInterval
	}
	if c.MaxDuration <= 0 {
		c.MaxDuration = constant.DefaultPollMaxDuration
	}
	return c
}

type poller struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// startPoller waits IdleThreshold, then calls tick every Interval until tick reports
// completion, MaxDuration has passed or the poller is stopped.
func startPoller(cfg PollConfig, tick func(ctx context.Context) bool) *poller {
	ctx, cancel := context.WithCancel(context.Background())
	p := &poller{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(p.done)
		defer cancel()

		idle := time.NewTimer(cfg.IdleThreshold)
		defer idle.Stop()
		select {
		case <-idle.C:
		case <-ctx.Done():
			return
		}

		deadline := time.NewTimer(cfg.MaxDuration)
		defer deadline.Stop()
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if tick(ctx) {
					return
				}
			case <-deadline.C:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return p
}

func (p *poller) stop() {
	p.cancel()
}

func (p *poller) wait() {
	<-p.done
}
