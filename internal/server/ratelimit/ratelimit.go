// Package ratelimit provides a sliding-window request log limiter.
package ratelimit

import (
	"sync"
	"time"
)

// Window lengths.
const (
	Minute = time.Minute
	Hour   = time.Hour
	Day    = 24 * time.Hour
)

// Limits is the per-window request ceiling.
type Limits struct {
	PerMinute int `json:"perMinute"`
	PerHour   int `json:"perHour"`
	PerDay    int `json:"perDay"`
}

// Counts is the number of recorded requests inside each window, measured
// before the current request.
type Counts struct {
	Minute int `json:"minute"`
	Hour   int `json:"hour"`
	Day    int `json:"day"`
}

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limits     Limits
	Counts     Counts
	RetryAfter time.Duration
}

// Limiter keeps a time-ordered log of accepted requests for the last day and
// rejects a request when any window is full. A Limiter is shared by all
// clients of the server that owns it.
type Limiter struct {
	mu     sync.Mutex
	log    []time.Time
	config *Config
	now    func() time.Time
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig()
	}
	return &Limiter{config: config, now: time.Now}
}

// Config returns the limiter configuration.
func (l *Limiter) Config() *Config {
	return l.config
}

// Limits returns the configured ceilings.
func (l *Limiter) Limits() Limits {
	return Limits{PerMinute: l.config.PerMinute, PerHour: l.config.PerHour, PerDay: l.config.PerDay}
}

// Allow records the request and returns true if every window has room.
// Rejected requests are not recorded.
func (l *Limiter) Allow() (bool, Info) {
	if !l.config.Enabled {
		return true, Info{Allowed: true}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	counts := Counts{
		Minute: l.countSince(now.Add(-Minute)),
		Hour:   l.countSince(now.Add(-Hour)),
		Day:    len(l.log),
	}
	info := Info{Limits: l.Limits(), Counts: counts}

	if exceeds(counts.Minute, l.config.PerMinute) ||
		exceeds(counts.Hour, l.config.PerHour) ||
		exceeds(counts.Day, l.config.PerDay) {
		info.RetryAfter = l.config.RetryAfter
		return false, info
	}

	l.log = append(l.log, now)
	info.Allowed = true
	return true, info
}

// Counts returns the current window counts without recording a request.
func (l *Limiter) Counts() Counts {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)
	return Counts{
		Minute: l.countSince(now.Add(-Minute)),
		Hour:   l.countSince(now.Add(-Hour)),
		Day:    len(l.log),
	}
}

// prune drops entries at or beyond the daily window. Caller holds mu.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-Day)
	i := 0
	for i < len(l.log) && !l.log[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.log = append(l.log[:0], l.log[i:]...)
	}
}

// countSince counts entries strictly after cutoff, scanning from the newest.
func (l *Limiter) countSince(cutoff time.Time) int {
	n := 0
	for i := len(l.log) - 1; i >= 0; i-- {
		if !l.log[i].After(cutoff) {
			break
		}
		n++
	}
	return n
}

// exceeds treats a non-positive limit as unlimited.
func exceeds(count, limit int) bool {
	return limit > 0 && count >= limit
}
