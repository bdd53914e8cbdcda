package port

import (
	"context"

	"github.com/ayatech/muslim-companion-api/internal/core/domain"
)

// ContentRepository is the authoritative source for Quran content. The cache
// in front of it must always be reproducible from these reads.
type ContentRepository interface {
	GetSurah(ctx context.Context, number int) (*domain.Surah, error)
	UpdateSurahText(ctx context.Context, surah domain.Surah) error
	UpdateReciter(ctx context.Context, reciter domain.Reciter) error
	UpdateTranslation(ctx context.Context, translation domain.Translation) error
	ListReciters(ctx context.Context) ([]domain.Reciter, error)
	GetReciter(ctx context.Context, id int) (*domain.Reciter, error)
	ListTranslations(ctx context.Context) ([]domain.Translation, error)
	GetTranslation(ctx context.Context, id int) (*domain.Translation, error)
}

// BookmarkRepository persists per-user verse bookmarks.
type BookmarkRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Bookmark, error)
	Create(ctx context.Context, bookmark domain.Bookmark) error
	Delete(ctx context.Context, userID, bookmarkID string) error
}
