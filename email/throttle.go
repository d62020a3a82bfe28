package email

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// DefaultImportInterval spaces out subscriptions during a bulk import. Each
// subscription may make up to four Mailjet calls.
const DefaultImportInterval = 250 * time.Millisecond

type Throttle interface {
	PauseBeforeNextRequest(context.Context) error
}

// IntervalThrottle ensures at least the configured interval passes between
// the start of consecutive requests. A zero interval never pauses.
type IntervalThrottle struct {
	limiter *rate.Limiter
}

func NewIntervalThrottle(interval time.Duration) *IntervalThrottle {
	return &IntervalThrottle{rate.NewLimiter(rate.Every(interval), 1)}
}

func (t *IntervalThrottle) PauseBeforeNextRequest(ctx context.Context) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("throttle interrupted: %w", err)
	}
	return nil
}
