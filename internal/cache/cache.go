// Package cache provides the process-lifetime, TTL-based store that sits
// between the assembler and the external data sources. Entries expire
// lazily: an expired entry is removed on the next read of its key, never by
// a background sweep, so memory is bounded only by the number of distinct
// keys requested during the process lifetime.
package cache

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/openock/contexture/internal/clock"
	"go.uber.org/zap"
)

// Namespace partitions cache keys by data kind. Each namespace carries its
// own default TTL: slow-moving data (repository metadata) lives longer than
// fast-moving data (issue and PR state).
type Namespace string

const (
	CalendarEvents Namespace = "calendar_events"
	Repos          Namespace = "github_repos"
	Issues         Namespace = "github_issues"
	PullRequests   Namespace = "github_prs"
	Deployments    Namespace = "github_deployments"
	Commits        Namespace = "github_commits"
	UserInfo       Namespace = "github_user_info"
	TrackerIssues  Namespace = "tracker_issues"
	QueryResults   Namespace = "query_results"
)

// DefaultTTLs holds the default time-to-live per namespace.
var DefaultTTLs = map[Namespace]time.Duration{
	CalendarEvents: 5 * time.Minute,
	Repos:          time.Hour,
	Issues:         5 * time.Minute,
	PullRequests:   5 * time.Minute,
	Deployments:    10 * time.Minute,
	Commits:        5 * time.Minute,
	UserInfo:       time.Hour,
	TrackerIssues:  5 * time.Minute,
	QueryResults:   3 * time.Minute,
}

// fallbackTTL applies to namespaces without a configured default.
const fallbackTTL = 5 * time.Minute

// Params are the request parameters a cached value was fetched with. Keys
// with empty values are ignored so that logically identical requests always
// produce the same cache key.
type Params map[string]string

type entry struct {
	value      any
	insertedAt time.Time
	ttl        time.Duration
}

// Store is a namespaced TTL cache. All methods are safe for concurrent use;
// mutation is confined to Set, Invalidate, Clear, and the lazy eviction
// inside Get.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	ttls    map[Namespace]time.Duration
	clock   clock.Clock
	logger  *zap.Logger
}

// New creates an empty Store. A nil clock defaults to the system clock, a
// nil logger to a no-op logger, and nil ttls to DefaultTTLs.
func New(clk clock.Clock, ttls map[Namespace]time.Duration, logger *zap.Logger) *Store {
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttls == nil {
		ttls = DefaultTTLs
	}
	return &Store{
		entries: make(map[string]entry),
		ttls:    ttls,
		clock:   clk,
		logger:  logger,
	}
}

// Key builds the deterministic cache key for a namespace and parameter set:
// the namespace followed by every non-empty parameter in sorted key order.
// Identical logical requests always collide; requests differing in any
// non-empty parameter never do.
func Key(ns Namespace, params Params) string {
	parts := []string{string(ns)}

	names := make([]string, 0, len(params))
	for name, value := range params {
		if value == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		parts = append(parts, name+":"+params[name])
	}
	return strings.Join(parts, "|")
}

// Get returns the cached value for the namespace and parameters, or ok
// false on a miss. An entry whose TTL has elapsed counts as a miss and is
// evicted in place.
func (s *Store) Get(ns Namespace, params Params) (any, bool) {
	key := Key(ns, params)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, found := s.entries[key]
	if !found {
		return nil, false
	}
	if s.clock.Now().Sub(e.insertedAt) > e.ttl {
		delete(s.entries, key)
		s.logger.Debug("evicted expired cache entry", zap.String("key", key))
		return nil, false
	}
	return e.value, true
}

// Set stores a value under the namespace's default TTL.
func (s *Store) Set(ns Namespace, params Params, value any) {
	s.SetWithTTL(ns, params, value, s.defaultTTL(ns))
}

// SetWithTTL stores a value with an explicit TTL.
func (s *Store) SetWithTTL(ns Namespace, params Params, value any, ttl time.Duration) {
	key := Key(ns, params)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{
		value:      value,
		insertedAt: s.clock.Now(),
		ttl:        ttl,
	}
}

// Invalidate removes every entry in the given namespace.
func (s *Store) Invalidate(ns Namespace) {
	s.InvalidatePattern(string(ns))
}

// InvalidatePattern removes every entry whose key contains pattern.
func (s *Store) InvalidatePattern(pattern string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.entries {
		if strings.Contains(key, pattern) {
			delete(s.entries, key)
		}
	}
}

// Clear removes all entries.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]entry)
}

// Len reports the number of stored entries, including any that have expired
// but not yet been evicted.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

// Stats describes the store's current contents.
type Stats struct {
	// Entries is the total number of stored entries, expired or not.
	Entries int

	// PerNamespace counts entries by namespace.
	PerNamespace map[Namespace]int
}

// Stats reports entry counts for the whole store and per namespace.
// Expired-but-unevicted entries are included; only Get removes them.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{
		Entries:      len(s.entries),
		PerNamespace: make(map[Namespace]int),
	}
	for key := range s.entries {
		ns := key
		if i := strings.Index(key, "|"); i >= 0 {
			ns = key[:i]
		}
		stats.PerNamespace[Namespace(ns)]++
	}
	return stats
}

func (s *Store) defaultTTL(ns Namespace) time.Duration {
	if ttl, ok := s.ttls[ns]; ok {
		return ttl
	}
	return fallbackTTL
}
