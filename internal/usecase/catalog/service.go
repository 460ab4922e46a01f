// Package catalog serves the selector options backing the dashboard
// dropdowns. Reference data changes at most daily (the ingestion job runs
// overnight), so per-session snapshots are cached until the local day rolls
// over.
package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hansardlab/policyrag/internal/domain"
	domcat "github.com/hansardlab/policyrag/internal/domain/catalog"
	"github.com/hansardlab/policyrag/internal/domain/scope"
)

// Service handles catalog lookups with day-scoped caching.
type Service struct {
	repo Repository
	now  func() time.Time

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	day     string
	members []domcat.Member
}

// New creates a catalog service.
func New(repo Repository) *Service {
	return &Service{
		repo:  repo,
		now:   time.Now,
		cache: make(map[string]cacheEntry),
	}
}

// WithClock overrides the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Sessions returns the selectable session values, the fixed enumeration plus
// the unrestricted sentinel.
func (s *Service) Sessions() []string {
	out := make([]string, 0, len(scope.Sessions)+1)
	out = append(out, scope.Sessions...)
	out = append(out, scope.AllSessions)
	return out
}

// Options returns the selector options for one session, from the day's
// snapshot when available. A non-empty party narrows the member and
// constituency lists to that party; the party list itself stays complete so
// the dropdown keeps every choice.
func (s *Service) Options(ctx context.Context, session, party string) (domcat.Options, error) {
	if session == "" {
		session = scope.AllSessions
	}
	if sel := (scope.Selectors{Session: session}); !sel.KnownSession() {
		return domcat.Options{}, fmt.Errorf("session %q: %w", session, domain.ErrUnknownSession)
	}

	members, err := s.sessionMembers(ctx, session)
	if err != nil {
		return domcat.Options{}, err
	}

	opts := domcat.BuildOptions(domcat.FilterByParty(members, party))
	if party != "" {
		opts.Parties = domcat.BuildOptions(members).Parties
	}
	return opts, nil
}

func (s *Service) sessionMembers(ctx context.Context, session string) ([]domcat.Member, error) {
	day := s.now().Format("2006-01-02")

	s.mu.RLock()
	entry, ok := s.cache[session]
	s.mu.RUnlock()
	if ok && entry.day == day {
		return entry.members, nil
	}

	members, err := s.repo.Members(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w: %w", err, domain.ErrCatalogUnavailable)
	}

	s.mu.Lock()
	s.cache[session] = cacheEntry{day: day, members: members}
	s.mu.Unlock()

	return members, nil
}
