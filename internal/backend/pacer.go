package backend

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// maxStretch caps how far repeated failures stretch the poll interval.
const maxStretch = 8

// pacer decides the gap before the next poll of one kind. Successful polls
// keep the watcher interval; consecutive failures grow the gap exponentially
// so an unreachable server is not hammered.
type pacer struct {
	interval time.Duration
	failures *backoff.ExponentialBackOff
	failing  bool
}

func newPacer(interval time.Duration) *pacer {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = interval
	b.RandomizationFactor = 0
	b.MaxInterval = maxStretch * interval
	b.MaxElapsedTime = 0
	b.Reset()
	return &pacer{interval: interval, failures: b}
}

// next reports the delay to wait after a poll that returned err.
func (p *pacer) next(err error) time.Duration {
	if err == nil {
		if p.failing {
			p.failures.Reset()
			p.failing = false
		}
		return p.interval
	}
	p.failing = true
	return p.failures.NextBackOff()
}
