package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Pacer spaces out Bot API round-trips so long history walks stay under
// Telegram's flood limits. All calls are sequential, so a single shared
// limiter is enough.
type Pacer struct {
	lim *rate.Limiter
}

// NewPacer creates a pacer allowing requestsPerSecond sustained calls with
// the given burst.
func NewPacer(requestsPerSecond float64, burst int) *Pacer {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 25
	}
	if burst < 1 {
		burst = 1
	}
	return &Pacer{lim: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

// Wait blocks until the next call is allowed or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.lim.Wait(ctx)
}
