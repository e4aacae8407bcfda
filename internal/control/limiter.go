package control

import "golang.org/x/time/rate"

// Limiter wraps a token bucket capping accepted commands per second.
// A nil Limiter allows everything.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter allows perSecond commands per second with an equal burst.
// If perSecond is 0 or negative, returns nil (no limit).
func NewLimiter(perSecond int) *Limiter {
	if perSecond <= 0 {
		return nil
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(perSecond), perSecond),
	}
}

// Allow reports whether one more command may pass now.
func (l *Limiter) Allow() bool {
	if l == nil || l.limiter == nil {
		return true
	}
	return l.limiter.Allow()
}
