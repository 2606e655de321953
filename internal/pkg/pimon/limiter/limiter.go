package limiter

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter paces point production in points per second. Producers call Wait
// before each Push, the watchdog moves the limit between minPPS and maxPPS
// depending on how deep the queue gets.
type Limiter struct {
	sync.RWMutex
	lmt    *rate.Limiter
	maxPPS int
	minPPS int
}

// New returns initialized Limiter, starting midway between min and max
func New(maxPPS, minPPS int) (*Limiter, error) {
	if minPPS > maxPPS {
		return nil, errors.New("minPPS must be <= maxPPS")
	}
	l := new(Limiter)
	l.Lock()
	defer l.Unlock()

	initial := maxPPS - ((maxPPS - minPPS) / 2)
	l.lmt = rate.NewLimiter(rate.Limit(initial), maxPPS)
	l.maxPPS = maxPPS
	l.minPPS = minPPS
	return l, nil
}

func (l *Limiter) modifyLimit(raise bool) int {
	target := 0
	current := l.Limit()
	if raise {
		// recover toward maxPPS slowly, in 100 steps
		target = current + ((l.maxPPS - l.minPPS) / 100)
		if target > l.maxPPS {
			target = l.maxPPS
		}
	} else {
		// back off toward minPPS fast, in 10 steps
		target = current - ((l.maxPPS - l.minPPS) / 10)
		if target < l.minPPS {
			target = l.minPPS
		}
	}
	l.lmt.SetLimit(rate.Limit(target))
	return target
}

// Limit returns the current points per second
func (l *Limiter) Limit() int {
	l.RLock()
	defer l.RUnlock()
	return int(l.lmt.Limit())
}

// Raise increases the pace
func (l *Limiter) Raise() int {
	return l.modifyLimit(true)
}

// Lower reduces the pace
func (l *Limiter) Lower() int {
	return l.modifyLimit(false)
}

// Wait blocks the caller until it may produce the next point
func (l *Limiter) Wait(ctx context.Context) error {
	return l.lmt.Wait(ctx)
}
