package discord

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// OwnersOnlyText is shown to users who may not run a restricted command.
const OwnersOnlyText = "This command is restricted to bot owners."

// OwnersOnly rejects users for which isOwner is false.
func OwnersOnly(isOwner func(userID string) bool) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *Request) error {
			if !isOwner(req.UserID) {
				req.Logger.Warn("rejected non-owner")
				return req.Interaction.Reply(ctx, OwnersOnlyText)
			}
			return next(ctx, req)
		}
	}
}

// Cooldown limits each user to one invocation per period.
type Cooldown struct {
	period time.Duration
	now    func() time.Time

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewCooldown creates a [Cooldown] of the given period.
func NewCooldown(period time.Duration) *Cooldown {
	return &Cooldown{
		period:   period,
		now:      time.Now,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Remaining takes a slot for userID. It returns zero when the user may proceed, otherwise
// the time left on the cooldown.
func (c *Cooldown) Remaining(userID string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	limiter, ok := c.limiters[userID]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(c.period), 1)
		c.limiters[userID] = limiter
	}

	now := c.now()
	reservation := limiter.ReserveN(now, 1)
	delay := reservation.DelayFrom(now)
	if delay > 0 {
		reservation.CancelAt(now)
	}
	return delay
}

// Middleware rejects invocations made during the user's cooldown.
func (c *Cooldown) Middleware() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *Request) error {
			if remaining := c.Remaining(req.UserID); remaining > 0 {
				req.Logger.Debug("cooldown active", "remaining", remaining)
				return req.Interaction.Reply(ctx, CooldownText(remaining))
			}
			return next(ctx, req)
		}
	}
}

// CooldownText tells the user how long to wait, rounded up to whole seconds.
func CooldownText(remaining time.Duration) string {
	return fmt.Sprintf("You're on cooldown, try again in %ds.", int(math.Ceil(remaining.Seconds())))
}

// Recover turns a panicking handler into an error.
func Recover() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *Request) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic in /%s: %v", req.Command, r)
				}
			}()
			return next(ctx, req)
		}
	}
}

// Logging logs every invocation with its duration.
func Logging() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *Request) error {
			start := time.Now()
			req.Logger.Info("command started")
			err := next(ctx, req)
			req.Logger.Info("command finished", "duration", time.Since(start).Round(time.Millisecond))
			return err
		}
	}
}
