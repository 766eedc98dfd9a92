package stash

import (
	"sync"
	"time"
)

// SweepInterval is how often a cache proactively removes expired entries.
const SweepInterval = 60 * time.Second

// sweeper runs fn on a fixed period until stopped.
type sweeper struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func startSweeper(interval time.Duration, fn func()) *sweeper {
	s := &sweeper{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go s.run(interval, fn)
	return s
}

func (s *sweeper) run(interval time.Duration, fn func()) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fn()
		case <-s.stop:
			return
		}
	}
}

// Stop cancels future ticks and waits for an in-flight tick to finish.
// Safe to call more than once.
func (s *sweeper) Stop() {
	s.once.Do(func() {
		close(s.stop)
	})
	<-s.done
}
