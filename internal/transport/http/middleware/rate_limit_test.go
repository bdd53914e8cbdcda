package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"

	"github.com/ayatech/muslim-companion-api/internal/governance"
	"github.com/ayatech/muslim-companion-api/internal/repository"
)

type stubStore struct {
	mu      sync.Mutex
	values  map[string]string
	failing bool
}

func newStubStore() *stubStore {
	return &stubStore{values: make(map[string]string)}
}

func (s *stubStore) errIfFailing() error {
	if s.failing {
		return fmt.Errorf("stub store: %w", repository.ErrStoreUnavailable)
	}
	return nil
}

func (s *stubStore) Get(ctx context.Context, key string) (string, error) {
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

func (s *stubStore) Set(ctx context.Context, key, value string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errIfFailing(); err != nil {
		return err
	}
	s.values[key] = value
	return nil
}

func (s *stubStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errIfFailing(); err != nil {
		return err
	}
	delete(s.values, key)
	return nil
}

func (s *stubStore) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
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

func (s *stubStore) Increment(ctx context.Context, key string) (int64, error) {
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

func (s *stubStore) Expire(ctx context.Context, key string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errIfFailing()
}

func (s *stubStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errIfFailing(); err != nil {
		return false, err
	}
	_, ok := s.values[key]
	return ok, nil
}

func (s *stubStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errIfFailing(); err != nil {
		return 0, err
	}
	return 30 * time.Second, nil
}

func newRateLimitedRouter(t *testing.T, store *stubStore, pre ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	limiter := governance.NewRateLimiter(store, governance.RateLimiterConfig{
		Window:    time.Minute,
		AnonLimit: 3,
		UserLimit: 100,
	}, zaptest.NewLogger(t))

	router := gin.New()
	router.Use(EnrichContext())
	router.Use(pre...)
	router.Use(RateLimit(limiter))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return router
}

func doPing(router *gin.Engine) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/ping", nil)
	request.RemoteAddr = "192.0.2.1:51000"
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestRateLimitSetsHeaders(t *testing.T) {
	router := newRateLimitedRouter(t, newStubStore())

	recorder := doPing(router)
	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", recorder.Code)
	}
	if got := recorder.Header().Get("X-RateLimit-Limit"); got != "3" {
		t.Fatalf("unexpected limit header %q", got)
	}
	if got := recorder.Header().Get("X-RateLimit-Remaining"); got != "2" {
		t.Fatalf("unexpected remaining header %q", got)
	}
	if recorder.Header().Get("X-RateLimit-Reset") == "" {
		t.Fatal("expected reset header")
	}
}

func TestRateLimitRejectsOverQuota(t *testing.T) {
	router := newRateLimitedRouter(t, newStubStore())

	for i := 0; i < 3; i++ {
		if recorder := doPing(router); recorder.Code != http.StatusOK {
			t.Fatalf("request %d: unexpected status %d", i+1, recorder.Code)
		}
	}

	recorder := doPing(router)
	if recorder.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", recorder.Code)
	}
	if recorder.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}

	var problem ProblemDetails
	if err := json.Unmarshal(recorder.Body.Bytes(), &problem); err != nil {
		t.Fatalf("unmarshal problem details: %v", err)
	}
	if problem.Status != http.StatusTooManyRequests || problem.Code != "RATE_LIMIT_EXCEEDED" {
		t.Fatalf("unexpected problem payload %+v", problem)
	}
	if problem.TraceID == "" {
		t.Fatal("expected trace id in problem payload")
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	store := newStubStore()
	store.failing = true
	router := newRateLimitedRouter(t, store)

	for i := 0; i < 10; i++ {
		if recorder := doPing(router); recorder.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 while store is down, got %d", i+1, recorder.Code)
		}
	}
}

func TestRateLimitUsesUserQuotaWhenAuthenticated(t *testing.T) {
	store := newStubStore()
	asUser := func(c *gin.Context) {
		c.Set(UserIDKey, "user-42")
		c.Next()
	}
	router := newRateLimitedRouter(t, store, asUser)

	recorder := doPing(router)
	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", recorder.Code)
	}
	if got := recorder.Header().Get("X-RateLimit-Limit"); got != "100" {
		t.Fatalf("expected user quota header, got %q", got)
	}

	if _, err := store.Get(context.Background(), governance.ThrottleKey("user", "user-42")); err != nil {
		t.Fatalf("expected per-user counter, got %v", err)
	}
}
