package hours

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type debounceKey struct {
	laborerID string
	date      string
}

type pendingWrite struct {
	hours float64
	timer *time.Timer
}

// Debouncer coalesces rapid successive SetHours calls for the same
// (laborerID, date) pair into a single write of the last value once the
// window elapses. This mirrors the edit coalescing the web client does
// before hitting the store; validation still happens at write time.
type Debouncer struct {
	svc    *Service
	window time.Duration
	logger *zap.Logger

	mu      sync.Mutex
	pending map[debounceKey]*pendingWrite
}

// NewDebouncer wraps svc with a coalescing window.
func NewDebouncer(svc *Service, window time.Duration, logger *zap.Logger) *Debouncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Debouncer{
		svc:     svc,
		window:  window,
		logger:  logger,
		pending: make(map[debounceKey]*pendingWrite),
	}
}

// Set schedules hours for (laborerID, date). A later Set for the same pair
// inside the window replaces the value and restarts the timer.
func (d *Debouncer) Set(laborerID, date string, hrs float64) {
	key := debounceKey{laborerID: laborerID, date: date}

	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pending[key]; ok {
		p.hours = hrs
		p.timer.Reset(d.window)
		return
	}

	p := &pendingWrite{hours: hrs}
	p.timer = time.AfterFunc(d.window, func() { d.flush(key) })
	d.pending[key] = p
}

func (d *Debouncer) flush(key debounceKey) {
	d.mu.Lock()
	p, ok := d.pending[key]
	if !ok {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	hrs := p.hours
	d.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := d.svc.SetHours(ctx, key.laborerID, key.date, hrs); err != nil {
		d.logger.Error("debounced hours write failed",
			zap.String("laborerId", key.laborerID),
			zap.String("date", key.date),
			zap.Error(err))
	}
}

// Flush writes every pending value immediately. Called on shutdown so
// coalesced edits are not lost.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	keys := make([]debounceKey, 0, len(d.pending))
	for key, p := range d.pending {
		p.timer.Stop()
		keys = append(keys, key)
	}
	d.mu.Unlock()

	for _, key := range keys {
		d.flush(key)
	}
}
