package server

import (
	"log"
	"time"

	"github.com/gorhill/cronexpr"

	"github.com/mohammad-safakhou/histchat/session"
)

// Sweeper evicts sessions idle for longer than TTL. It only exists when a
// TTL is configured; without one, sessions live until explicit deletion or
// process exit.
type Sweeper struct {
	Store    session.Store
	TTL      time.Duration
	Schedule string
	Metrics  *Metrics
	Stop     chan struct{}

	logger    *log.Logger
	lastSweep *time.Time
}

func (s *Sweeper) Start() {
	if s.logger == nil {
		s.logger = log.New(log.Writer(), "[SWEEP] ", log.LstdFlags)
	}
	ticker := time.NewTicker(1 * time.Minute)
	go func() {
		for {
			select {
			case <-s.Stop:
				ticker.Stop()
				return
			case <-ticker.C:
				s.tick()
			}
		}
	}()
}

func (s *Sweeper) tick() {
	if !isDue(s.Schedule, s.lastSweep) {
		return
	}
	now := time.Now()
	s.lastSweep = &now

	evicted := s.Store.EvictIdle(s.TTL)
	if evicted > 0 {
		s.logger.Printf("evicted %d idle sessions (ttl %s)", evicted, s.TTL)
		if s.Metrics != nil {
			s.Metrics.SessionsEvicted.Add(float64(evicted))
		}
	}
}

// isDue determines whether a sweep scheduled by cronSpec should run now
// given the last sweep time. Supports "@daily", "@hourly", and standard
// 5-field cron expressions.
func isDue(cronSpec string, last *time.Time) bool {
	now := time.Now()
	switch cronSpec {
	case "@daily":
		if last == nil {
			return true
		}
		return now.Sub(*last) >= 24*time.Hour
	case "@hourly":
		if last == nil {
			return true
		}
		return now.Sub(*last) >= time.Hour
	default:
		expr, err := cronexpr.Parse(cronSpec)
		if err != nil {
			// Fallback: treat as @hourly if invalid
			if last == nil {
				return true
			}
			return now.Sub(*last) >= time.Hour
		}
		if last == nil {
			return true
		}
		next := expr.Next(*last)
		return !next.After(now)
	}
}
