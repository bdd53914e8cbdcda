package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayatech/muslim-companion-api/internal/core/domain"
	"github.com/ayatech/muslim-companion-api/internal/core/port"
	"github.com/ayatech/muslim-companion-api/internal/governance"
)

// ErrSurahOutOfRange indicates a surah number outside 1-114.
var ErrSurahOutOfRange = errors.New("surah number out of range")

// ContentTTLs groups the cache lifetimes per content class.
type ContentTTLs struct {
	Static  time.Duration
	Dynamic time.Duration
}

// ContentService serves Quran content through the read-through cache and keeps
// cache entries coherent with administrative mutations.
type ContentService struct {
	content   port.ContentRepository
	bookmarks port.BookmarkRepository
	cache     *governance.CacheManager
	registry  *governance.InvalidationRegistry
	events    port.EventPublisher
	ttls      ContentTTLs
	logger    *zap.Logger
}

// NewContentService constructs a ContentService instance.
func NewContentService(
	content port.ContentRepository,
	bookmarks port.BookmarkRepository,
	cache *governance.CacheManager,
	registry *governance.InvalidationRegistry,
	events port.EventPublisher,
	ttls ContentTTLs,
	log *zap.Logger,
) *ContentService {
	if log == nil {
		log = zap.NewNop()
	}
	if ttls.Static <= 0 {
		ttls.Static = 168 * time.Hour
	}
	if ttls.Dynamic <= 0 {
		ttls.Dynamic = time.Hour
	}

	return &ContentService{
		content:   content,
		bookmarks: bookmarks,
		cache:     cache,
		registry:  registry,
		events:    events,
		ttls:      ttls,
		logger:    log,
	}
}

// GetSurah returns one surah with its verses, served from cache when possible.
func (s *ContentService) GetSurah(ctx context.Context, number int) (*domain.Surah, error) {
	if number < 1 || number > 114 {
		return nil, ErrSurahOutOfRange
	}

	return governance.GetOrComputeJSON(ctx, s.cache, governance.SurahKey(number), s.ttls.Static,
		func(ctx context.Context) (*domain.Surah, error) {
			return s.content.GetSurah(ctx, number)
		})
}

// ListReciters returns all reciters, served from cache when possible.
func (s *ContentService) ListReciters(ctx context.Context) ([]domain.Reciter, error) {
	return governance.GetOrComputeJSON(ctx, s.cache, governance.ReciterListKey(), s.ttls.Static,
		func(ctx context.Context) ([]domain.Reciter, error) {
			return s.content.ListReciters(ctx)
		})
}

// GetReciter returns one reciter, served from cache when possible.
func (s *ContentService) GetReciter(ctx context.Context, id int) (*domain.Reciter, error) {
	return governance.GetOrComputeJSON(ctx, s.cache, governance.ReciterKey(id), s.ttls.Static,
		func(ctx context.Context) (*domain.Reciter, error) {
			return s.content.GetReciter(ctx, id)
		})
}

// ListTranslations returns all translations, served from cache when possible.
func (s *ContentService) ListTranslations(ctx context.Context) ([]domain.Translation, error) {
	return governance.GetOrComputeJSON(ctx, s.cache, governance.TranslationListKey(), s.ttls.Static,
		func(ctx context.Context) ([]domain.Translation, error) {
			return s.content.ListTranslations(ctx)
		})
}

// GetTranslation returns one translation, served from cache when possible.
func (s *ContentService) GetTranslation(ctx context.Context, id int) (*domain.Translation, error) {
	return governance.GetOrComputeJSON(ctx, s.cache, governance.TranslationKey(id), s.ttls.Static,
		func(ctx context.Context) (*domain.Translation, error) {
			return s.content.GetTranslation(ctx, id)
		})
}

// UpdateSurahText persists an administrative text revision, invalidates the
// affected cache entries before returning, and emits a content event.
func (s *ContentService) UpdateSurahText(ctx context.Context, surah domain.Surah, updatedBy string) error {
	if surah.Number < 1 || surah.Number > 114 {
		return ErrSurahOutOfRange
	}

	if err := s.content.UpdateSurahText(ctx, surah); err != nil {
		return fmt.Errorf("update surah text: %w", err)
	}

	s.notifyContentUpdated(ctx, governance.ResourceSurah, strconv.Itoa(surah.Number), updatedBy)
	return nil
}

// UpdateReciter persists revised reciter metadata and invalidates the reciter
// cache entries before returning.
func (s *ContentService) UpdateReciter(ctx context.Context, reciter domain.Reciter, updatedBy string) error {
	if err := s.content.UpdateReciter(ctx, reciter); err != nil {
		return fmt.Errorf("update reciter: %w", err)
	}

	s.notifyContentUpdated(ctx, governance.ResourceReciter, strconv.Itoa(reciter.ID), updatedBy)
	return nil
}

// UpdateTranslation persists revised translation metadata and invalidates the
// translation cache entries before returning.
func (s *ContentService) UpdateTranslation(ctx context.Context, translation domain.Translation, updatedBy string) error {
	if err := s.content.UpdateTranslation(ctx, translation); err != nil {
		return fmt.Errorf("update translation: %w", err)
	}

	s.notifyContentUpdated(ctx, governance.ResourceTranslation, strconv.Itoa(translation.ID), updatedBy)
	return nil
}

// notifyContentUpdated runs the invalidation handlers synchronously and emits
// the content event best-effort.
func (s *ContentService) notifyContentUpdated(ctx context.Context, resource governance.ResourceType, identity, updatedBy string) {
	s.registry.NotifyChanged(ctx, resource, identity)

	if s.events == nil {
		return
	}

	event := domain.ContentUpdatedEvent{
		EventID:      uuid.NewString(),
		ResourceType: string(resource),
		ResourceID:   identity,
		UpdatedBy:    updatedBy,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.events.PublishContentUpdated(ctx, event); err != nil {
		s.logger.Warn("publish content event failed",
			zap.String("resource", string(resource)),
			zap.Error(err),
		)
	}
}

// ListBookmarks returns the user's bookmarks, cached for the dynamic TTL.
func (s *ContentService) ListBookmarks(ctx context.Context, userID string) ([]domain.Bookmark, error) {
	return governance.GetOrComputeJSON(ctx, s.cache, governance.UserBookmarkKey(userID), s.ttls.Dynamic,
		func(ctx context.Context) ([]domain.Bookmark, error) {
			return s.bookmarks.ListByUser(ctx, userID)
		})
}

// CreateBookmark stores a new bookmark and invalidates the user's cached list.
func (s *ContentService) CreateBookmark(ctx context.Context, userID string, surahNumber, verseNumber int, label string) (*domain.Bookmark, error) {
	if surahNumber < 1 || surahNumber > 114 {
		return nil, ErrSurahOutOfRange
	}

	bookmark := domain.Bookmark{
		ID:          uuid.NewString(),
		UserID:      userID,
		SurahNumber: surahNumber,
		VerseNumber: verseNumber,
		Label:       label,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.bookmarks.Create(ctx, bookmark); err != nil {
		return nil, fmt.Errorf("create bookmark: %w", err)
	}

	s.registry.NotifyChanged(ctx, governance.ResourceBookmark, userID)

	return &bookmark, nil
}

// DeleteBookmark removes a bookmark and invalidates the user's cached list.
func (s *ContentService) DeleteBookmark(ctx context.Context, userID, bookmarkID string) error {
	if err := s.bookmarks.Delete(ctx, userID, bookmarkID); err != nil {
		return err
	}

	s.registry.NotifyChanged(ctx, governance.ResourceBookmark, userID)
	return nil
}

// CacheStats exposes hit and miss counters for the admin surface.
func (s *ContentService) CacheStats(ctx context.Context) (governance.CacheStats, error) {
	return s.cache.Stats(ctx)
}

// WarmSurahCache preloads every surah into the cache. Called at startup when
// warm-up is enabled; failures are logged and skipped so a single bad row does
// not block boot.
func (s *ContentService) WarmSurahCache(ctx context.Context) {
	warmed := 0
	for number := 1; number <= 114; number++ {
		if _, err := s.GetSurah(ctx, number); err != nil {
			s.logger.Warn("surah warm-up skipped",
				zap.Int("surah", number),
				zap.Error(err),
			)
			continue
		}
		warmed++
	}

	s.logger.Info("surah cache warmed", zap.Int("surahs", warmed))
}
