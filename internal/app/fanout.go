package app

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dkeye/GuessWho/internal/core"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

const (
	defaultFanoutWorkers = 8
	defaultNotifyTimeout = 5 * time.Second
)

// Fanout delivers notices after the registry lock has been released.
type Fanout struct {
	Notifier core.Notifier
	Workers  int
	Timeout  time.Duration
}

func NewFanout(n core.Notifier, workers int, timeout time.Duration) *Fanout {
	if workers <= 0 {
		workers = defaultFanoutWorkers
	}
	if timeout <= 0 {
		timeout = defaultNotifyTimeout
	}
	return &Fanout{Notifier: n, Workers: workers, Timeout: timeout}
}

// Deliver sends every notice with at most Workers in flight. A failed
// recipient is logged and skipped; the rest still get their message.
// It returns how many deliveries failed.
func (f *Fanout) Deliver(ctx context.Context, notices []core.Notice) int {
	if len(notices) == 0 || f.Notifier == nil {
		return 0
	}
	var failed atomic.Int64
	p := pool.New().WithMaxGoroutines(max(f.Workers, 1))
	for _, n := range notices {
		p.Go(func() {
			nctx, cancel := context.WithTimeout(ctx, f.timeout())
			defer cancel()
			if err := f.Notifier.Notify(nctx, n.To, n.Text); err != nil {
				failed.Add(1)
				log.Warn().Err(err).Str("module", "app.fanout").Int64("to", int64(n.To)).Msg("notify failed")
			}
		})
	}
	p.Wait()

	if bad := failed.Load(); bad > 0 {
		log.Debug().Str("module", "app.fanout").Int("sent", len(notices)-int(bad)).Int64("failed", bad).Msg("fanout result")
	}
	return int(failed.Load())
}

func (f *Fanout) timeout() time.Duration {
	if f.Timeout <= 0 {
		return defaultNotifyTimeout
	}
	return f.Timeout
}
