// internal/app/system/workers/offersweep.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/mosqueconnect/internal/app/system/auditlog"
	"github.com/dalemusser/mosqueconnect/internal/app/system/cache"
	"go.uber.org/zap"
)

// Sweeper recomputes stored offer statuses against now.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (activated, expired int64, err error)
}

// OfferSweep is a background worker that keeps offer statuses in line with
// their validity windows.
type OfferSweep struct {
	offers   Sweeper
	cache    *cache.Helper
	audit    *auditlog.Logger
	log      *zap.Logger
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewOfferSweep creates a new offer sweep worker.
//
// Parameters:
//   - offers: the offers store (or anything that can sweep)
//   - ch: cache helper whose offer listings are invalidated after a change (may be nil)
//   - audit: audit logger that records each sweep that changed something (may be nil)
//   - logger: zap logger for logging
//   - interval: how often to run (e.g., 1 minute)
func NewOfferSweep(offers Sweeper, ch *cache.Helper, audit *auditlog.Logger, logger *zap.Logger, interval time.Duration) *OfferSweep {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &OfferSweep{
		offers:   offers,
		cache:    ch,
		audit:    audit,
		log:      logger,
		interval: interval,
		timeout:  30 * time.Second,
		now:      func() time.Time { return time.Now().UTC() },
		stopCh:   make(chan struct{}),
	}
}

// Start runs one sweep immediately and then begins the background loop.
func (w *OfferSweep) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("offer sweep worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish. It is safe
// to call more than once.
func (w *OfferSweep) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("offer sweep worker stopped")
	})
}

func (w *OfferSweep) run() {
	defer w.wg.Done()

	w.RunOnce()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.RunOnce()
		}
	}
}

// RunOnce performs a single sweep and reports how many offers changed.
func (w *OfferSweep) RunOnce() (activated, expired int64) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	activated, expired, err := w.offers.Sweep(ctx, w.now())
	if err != nil {
		w.log.Error("offer sweep failed", zap.Error(err))
		return activated, expired
	}
	if activated == 0 && expired == 0 {
		return 0, 0
	}

	w.log.Info("offer statuses swept",
		zap.Int64("activated", activated),
		zap.Int64("expired", expired))
	w.cache.Invalidate(ctx, cache.NSOffers, cache.NSStats)
	w.audit.OfferSweep(ctx, activated, expired)
	return activated, expired
}
