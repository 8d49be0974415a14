package server

import (
	"context"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/matst80/slask-dashboard/pkg/dashboard"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "dashboard_sessions_active",
	Help: "The number of sessions holding a dashboard",
})

type DashboardFactory func(sessionId string, query url.Values) *dashboard.Dashboard

type session struct {
	dashboard *dashboard.Dashboard
	lastSeen  time.Time
}

// Sessions keeps one dashboard per session id and closes those that have
// been idle for longer than the ttl.
type Sessions struct {
	mu      sync.Mutex
	ttl     time.Duration
	items   map[string]*session
	factory DashboardFactory
	now     func() time.Time
}

func NewSessions(ttl time.Duration, factory DashboardFactory) *Sessions {
	return &Sessions{
		ttl:     ttl,
		items:   make(map[string]*session),
		factory: factory,
		now:     time.Now,
	}
}

// Get returns the session's dashboard, creating it from query when the
// session is new.
func (s *Sessions) Get(sessionId string, query url.Values) *dashboard.Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[sessionId]
	if !ok {
		item = &session{dashboard: s.factory(sessionId, query)}
		s.items[sessionId] = item
		activeSessions.Inc()
	}
	item.lastSeen = s.now()
	return item.dashboard
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Cleanup closes and forgets every expired session and returns how many
// were removed.
func (s *Sessions) Cleanup() int {
	s.mu.Lock()
	expired := make([]*dashboard.Dashboard, 0)
	cutoff := s.now().Add(-s.ttl)
	for id, item := range s.items {
		if item.lastSeen.Before(cutoff) {
			expired = append(expired, item.dashboard)
			delete(s.items, id)
		}
	}
	s.mu.Unlock()
	for _, d := range expired {
		d.Close()
	}
	activeSessions.Sub(float64(len(expired)))
	return len(expired)
}

// Run calls Cleanup every interval until ctx is done.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Cleanup(); n > 0 {
				log.Printf("Removed %d idle sessions", n)
			}
		}
	}
}

// Close shuts every dashboard down.
func (s *Sessions) Close() {
	s.mu.Lock()
	items := s.items
	s.items = make(map[string]*session)
	s.mu.Unlock()
	for _, item := range items {
		item.dashboard.Close()
	}
	activeSessions.Sub(float64(len(items)))
}
