package usecase

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

// memStore is a minimal in-memory KeyValueStore for service-level tests.
type memStore struct {
	mu      sync.Mutex
	values  map[string]string
	failing bool
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string]string)}
}

func (s *memStore) errIfFailing() error {
	if s.failing {
		return fmt.Errorf("mem store: %w", repository.ErrStoreUnavailable)
	}
	return nil
}

func (s *memStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errIfFailing(); err != nil {
		return "", err
	}
	val, ok := s.values[key]
	if !ok {
		return "", repository.ErrNotFound
	}
	return val, nil
}

func (s *memStore) Set(ctx context.Context, key, value string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errIfFailing(); err != nil {
		return err
	}
	s.values[key] = value
	return nil
}

func (s *memStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errIfFailing(); err != nil {
		return err
	}
	delete(s.values, key)
	return nil
}

func (s *memStore) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errIfFailing(); err != nil {
		return 0, err
	}
	deleted := 0
	for key := range s.values {
		if strings.HasPrefix(key, prefix) {
			delete(s.values, key)
			deleted++
		}
	}
	return deleted, nil
}

func (s *memStore) Increment(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errIfFailing(); err != nil {
		return 0, err
	}
	count, _ := strconv.ParseInt(s.values[key], 10, 64)
	count++
	s.values[key] = strconv.FormatInt(count, 10)
	return count, nil
}

func (s *memStore) Expire(ctx context.Context, key string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errIfFailing()
}

func (s *memStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errIfFailing(); err != nil {
		return false, err
	}
	_, ok := s.values[key]
	return ok, nil
}

func (s *memStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errIfFailing(); err != nil {
		return 0, err
	}
	return 0, nil
}

var _ port.KeyValueStore = (*memStore)(nil)

// fakeUserRepo serves accounts from a map keyed by lowercased email.
type fakeUserRepo struct {
	users map[string]domain.User
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := r.users[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := user
	return &found, nil
}

// fakeContentRepo counts reads so cache behavior is observable.
type fakeContentRepo struct {
	mu          sync.Mutex
	surahs      map[int]domain.Surah
	reciters    []domain.Reciter
	surahReads  int
	listReads   int
	updateCalls int
}

func (r *fakeContentRepo) GetSurah(_ context.Context, number int) (*domain.Surah, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.surahReads++
	surah, ok := r.surahs[number]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := surah
	return &found, nil
}

func (r *fakeContentRepo) UpdateSurahText(_ context.Context, surah domain.Surah) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCalls++
	if _, ok := r.surahs[surah.Number]; !ok {
		return repository.ErrNotFound
	}
	r.surahs[surah.Number] = surah
	return nil
}

func (r *fakeContentRepo) UpdateReciter(_ context.Context, reciter domain.Reciter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCalls++
	for i := range r.reciters {
		if r.reciters[i].ID == reciter.ID {
			r.reciters[i] = reciter
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeContentRepo) UpdateTranslation(_ context.Context, translation domain.Translation) error {
	return repository.ErrNotFound
}

func (r *fakeContentRepo) ListReciters(_ context.Context) ([]domain.Reciter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listReads++
	return append([]domain.Reciter(nil), r.reciters...), nil
}

func (r *fakeContentRepo) GetReciter(_ context.Context, id int) (*domain.Reciter, error) {
	for _, reciter := range r.reciters {
		if reciter.ID == id {
			found := reciter
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeContentRepo) ListTranslations(_ context.Context) ([]domain.Translation, error) {
	return nil, nil
}

func (r *fakeContentRepo) GetTranslation(_ context.Context, id int) (*domain.Translation, error) {
	return nil, repository.ErrNotFound
}

var _ port.ContentRepository = (*fakeContentRepo)(nil)

// fakeBookmarkRepo stores bookmarks in memory per user.
type fakeBookmarkRepo struct {
	mu        sync.Mutex
	bookmarks map[string][]domain.Bookmark
	listReads int
}

func newFakeBookmarkRepo() *fakeBookmarkRepo {
	return &fakeBookmarkRepo{bookmarks: make(map[string][]domain.Bookmark)}
}

func (r *fakeBookmarkRepo) ListByUser(_ context.Context, userID string) ([]domain.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listReads++
	return append([]domain.Bookmark(nil), r.bookmarks[userID]...), nil
}

func (r *fakeBookmarkRepo) Create(_ context.Context, bookmark domain.Bookmark) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookmarks[bookmark.UserID] = append(r.bookmarks[bookmark.UserID], bookmark)
	return nil
}

func (r *fakeBookmarkRepo) Delete(_ context.Context, userID, bookmarkID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.bookmarks[userID]
	for i, bookmark := range list {
		if bookmark.ID == bookmarkID {
			r.bookmarks[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

var _ port.BookmarkRepository = (*fakeBookmarkRepo)(nil)
