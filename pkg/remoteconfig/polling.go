package remoteconfig

import (
	"sync"
	"time"

	"github.com/Alwanly/service-config-client/pkg/logger"
)

// poller owns the single deferred refresh timer. At most one timer is live
// per client: arming always cancels the previous timer first.
type poller struct {
	mu       sync.Mutex
	interval time.Duration
	timer    *time.Timer
	paused   bool
	fire     func()
	log      *logger.CanonicalLogger
}

func newPoller(interval time.Duration, fire func(), log *logger.CanonicalLogger) *poller {
	return &poller{
		interval: interval,
		fire:     fire,
		log:      log,
	}
}

// schedule arms the refresh timer. No-op when polling is disabled or paused.
func (p *poller) schedule() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.interval <= 0 || p.paused {
		return
	}

	p.cancelLocked()
	p.timer = time.AfterFunc(p.interval, p.fire)
	p.log.Debug("poll timer armed", logger.Duration(logger.FieldInterval, p.interval))
}

// cancel stops any pending timer without touching the paused flag.
func (p *poller) cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelLocked()
}

func (p *poller) cancelLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// pause suspends polling and cancels any pending timer. Idempotent.
func (p *poller) pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.paused = true
	p.cancelLocked()
	p.log.Debug("polling paused")
}

// resume re-arms the timer with the full interval. It never triggers an
// immediate refresh; the next fetch happens when the timer elapses.
func (p *poller) resume() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.paused = false
	if p.interval <= 0 {
		return
	}

	p.cancelLocked()
	p.timer = time.AfterFunc(p.interval, p.fire)
	p.log.Debug("polling resumed", logger.Duration(logger.FieldInterval, p.interval))
}
