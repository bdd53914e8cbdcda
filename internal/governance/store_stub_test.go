package governance

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ayatech/muslim-companion-api/internal/core/domain"
	"github.com/ayatech/muslim-companion-api/internal/core/port"
	"github.com/ayatech/muslim-companion-api/internal/repository"
)

type fakeEntry struct {
	value     string
	expiresAt time.Time
}

// fakeStore is an in-memory KeyValueStore honoring the same atomic-increment
// and TTL contract as the Redis implementation, driven by a manual clock.
type fakeStore struct {
	mu      sync.Mutex
	entries map[string]fakeEntry
	clock   func() time.Time
	failing bool
}

func newFakeStore(clock func() time.Time) *fakeStore {
	if clock == nil {
		clock = time.Now
	}
	return &fakeStore{
		entries: make(map[string]fakeEntry),
		clock:   clock,
	}
}

func (s *fakeStore) errIfFailing() error {
	if s.failing {
		return fmt.Errorf("fake store: %w", repository.ErrStoreUnavailable)
	}
	return nil
}

func (s *fakeStore) live(key string) (fakeEntry, bool) {
	entry, ok := s.entries[key]
	if !ok {
		return fakeEntry{}, false
	}
	if !entry.expiresAt.IsZero() && !s.clock().Before(entry.expiresAt) {
		delete(s.entries, key)
		return fakeEntry{}, false
	}
	return entry, true
}

func (s *fakeStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errIfFailing(); err != nil {
		return "", err
	}
	entry, ok := s.live(key)
	if !ok {
		return "", repository.ErrNotFound
	}
	return entry.value, nil
}

func (s *fakeStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errIfFailing(); err != nil {
		return err
	}
	entry := fakeEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = s.clock().Add(ttl)
	}
	s.entries[key] = entry
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errIfFailing(); err != nil {
		return err
	}
	delete(s.entries, key)
	return nil
}

func (s *fakeStore) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errIfFailing(); err != nil {
		return 0, err
	}
	deleted := 0
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			deleted++
		}
	}
	return deleted, nil
}

func (s *fakeStore) Increment(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errIfFailing(); err != nil {
		return 0, err
	}

	count := int64(0)
	expiresAt := time.Time{}
	if entry, ok := s.live(key); ok {
		count, _ = strconv.ParseInt(entry.value, 10, 64)
		expiresAt = entry.expiresAt
	}
	count++
	s.entries[key] = fakeEntry{value: strconv.FormatInt(count, 10), expiresAt: expiresAt}
	return count, nil
}

func (s *fakeStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errIfFailing(); err != nil {
		return err
	}
	if entry, ok := s.live(key); ok {
		entry.expiresAt = s.clock().Add(ttl)
		s.entries[key] = entry
	}
	return nil
}

func (s *fakeStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errIfFailing(); err != nil {
		return false, err
	}
	_, ok := s.live(key)
	return ok, nil
}

func (s *fakeStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errIfFailing(); err != nil {
		return 0, err
	}
	entry, ok := s.live(key)
	if !ok || entry.expiresAt.IsZero() {
		return 0, nil
	}
	return entry.expiresAt.Sub(s.clock()), nil
}

// keyCount reports how many live keys exist, used to assert whitelist bypass
// leaves no trace.
func (s *fakeStore) keyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for key := range s.entries {
		if _, ok := s.live(key); ok {
			count++
		}
	}
	return count
}

var _ port.KeyValueStore = (*fakeStore)(nil)

// capturingPublisher records published events for assertions.
type capturingPublisher struct {
	mu          sync.Mutex
	locked      []domain.AccountLockedEvent
	abuse       []domain.AbuseThresholdExceededEvent
	contentUpds []domain.ContentUpdatedEvent
}

func (p *capturingPublisher) PublishAccountLocked(_ context.Context, event domain.AccountLockedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.locked = append(p.locked, event)
	return nil
}

func (p *capturingPublisher) PublishAbuseThresholdExceeded(_ context.Context, event domain.AbuseThresholdExceededEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.abuse = append(p.abuse, event)
	return nil
}

func (p *capturingPublisher) PublishContentUpdated(_ context.Context, event domain.ContentUpdatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.contentUpds = append(p.contentUpds, event)
	return nil
}

var _ port.EventPublisher = (*capturingPublisher)(nil)
