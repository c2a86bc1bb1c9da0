package dashboard

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultQuietPeriod is how long search input must be stable before it is queried.
const DefaultQuietPeriod = 300 * time.Millisecond

// Debouncer runs the most recently triggered func once input has been quiet
// for the configured delay.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn, replacing anything scheduled earlier.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop drops any pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// requestGuard hands out increasing tokens; only the newest token may commit.
type requestGuard struct {
	seq atomic.Uint64
}

func (g *requestGuard) next() uint64 {
	return g.seq.Add(1)
}

func (g *requestGuard) peek() uint64 {
	return g.seq.Load()
}

func (g *requestGuard) current(token uint64) bool {
	return g.seq.Load() == token
}
