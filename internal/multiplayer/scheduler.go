package multiplayer

import (
	"sync"
	"time"
)

// Scheduler runs recurring tasks. Each room gets its own task.
type Scheduler interface {
	// Every calls fn every interval until the returned cancel func is called.
	// Cancel is idempotent; a call to fn already in progress is allowed to finish.
	Every(interval time.Duration, fn func()) (cancel func())
}

// TickerScheduler runs every task on its own goroutine driven by a time.Ticker.
// Ticks that fall behind are coalesced by the ticker rather than queued.
type TickerScheduler struct{}

// Every implements Scheduler.
func (TickerScheduler) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	var once sync.Once

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	return func() {
		once.Do(func() {
			close(done)
		})
	}
}
