package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/ayatech/muslim-companion-api/internal/core/domain"
	"github.com/ayatech/muslim-companion-api/internal/governance"
)

func newContentFixture(t *testing.T) (*ContentService, *fakeContentRepo, *fakeBookmarkRepo) {
	t.Helper()

	content := &fakeContentRepo{
		surahs: map[int]domain.Surah{
			1: {
				Number:      1,
				NameArabic:  "الفاتحة",
				NameEnglish: "Al-Fatihah",
				VerseCount:  7,
				Verses: []domain.Verse{
					{Number: 1, Text: "بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ"},
				},
			},
			2: {Number: 2, NameEnglish: "Al-Baqarah", VerseCount: 286},
		},
		reciters: []domain.Reciter{
			{ID: 1, Name: "Mishary Alafasy", Style: "murattal", Language: "ar"},
		},
	}
	bookmarks := newFakeBookmarkRepo()

	store := newMemStore()
	cache := governance.NewCacheManager(store, zaptest.NewLogger(t))
	registry := governance.NewInvalidationRegistry(zaptest.NewLogger(t))
	governance.RegisterContentInvalidations(registry, cache)

	service := NewContentService(content, bookmarks, cache, registry, nil, ContentTTLs{
		Static:  time.Hour,
		Dynamic: time.Minute,
	}, zaptest.NewLogger(t))

	return service, content, bookmarks
}

func TestGetSurahCached(t *testing.T) {
	service, content, _ := newContentFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		surah, err := service.GetSurah(ctx, 1)
		if err != nil {
			t.Fatalf("GetSurah returned error: %v", err)
		}
		if surah.NameEnglish != "Al-Fatihah" || len(surah.Verses) != 1 {
			t.Fatalf("unexpected surah %+v", surah)
		}
	}

	if content.surahReads != 1 {
		t.Fatalf("expected one authoritative read, got %d", content.surahReads)
	}
}

func TestGetSurahOutOfRange(t *testing.T) {
	service, _, _ := newContentFixture(t)

	for _, number := range []int{0, 115, -3} {
		if _, err := service.GetSurah(context.Background(), number); !errors.Is(err, ErrSurahOutOfRange) {
			t.Fatalf("surah %d: expected ErrSurahOutOfRange, got %v", number, err)
		}
	}
}

func TestUpdateSurahServesRevisedText(t *testing.T) {
	service, content, _ := newContentFixture(t)
	ctx := context.Background()

	if _, err := service.GetSurah(ctx, 2); err != nil {
		t.Fatalf("GetSurah returned error: %v", err)
	}

	revised := content.surahs[2]
	revised.NameEnglish = "Al-Baqarah (revised)"
	if err := service.UpdateSurahText(ctx, revised, "admin-1"); err != nil {
		t.Fatalf("UpdateSurahText returned error: %v", err)
	}

	surah, err := service.GetSurah(ctx, 2)
	if err != nil {
		t.Fatalf("GetSurah returned error: %v", err)
	}
	if surah.NameEnglish != "Al-Baqarah (revised)" {
		t.Fatalf("expected revised text after update, got %q", surah.NameEnglish)
	}
}

func TestListRecitersCached(t *testing.T) {
	service, content, _ := newContentFixture(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		reciters, err := service.ListReciters(ctx)
		if err != nil {
			t.Fatalf("ListReciters returned error: %v", err)
		}
		if len(reciters) != 1 {
			t.Fatalf("unexpected reciters %+v", reciters)
		}
	}

	if content.listReads != 1 {
		t.Fatalf("expected one authoritative read, got %d", content.listReads)
	}
}

func TestUpdateReciterInvalidatesList(t *testing.T) {
	service, content, _ := newContentFixture(t)
	ctx := context.Background()

	if _, err := service.ListReciters(ctx); err != nil {
		t.Fatalf("ListReciters returned error: %v", err)
	}

	revised := content.reciters[0]
	revised.Style = "mujawwad"
	if err := service.UpdateReciter(ctx, revised, "admin-1"); err != nil {
		t.Fatalf("UpdateReciter returned error: %v", err)
	}

	reciters, err := service.ListReciters(ctx)
	if err != nil {
		t.Fatalf("ListReciters returned error: %v", err)
	}
	if reciters[0].Style != "mujawwad" {
		t.Fatalf("expected revised style after update, got %q", reciters[0].Style)
	}
	if content.listReads != 2 {
		t.Fatalf("expected list re-read after invalidation, got %d reads", content.listReads)
	}
}

func TestBookmarkLifecycleInvalidatesCache(t *testing.T) {
	service, _, bookmarks := newContentFixture(t)
	ctx := context.Background()

	if list, err := service.ListBookmarks(ctx, "user-1"); err != nil || len(list) != 0 {
		t.Fatalf("expected empty list, got %v err=%v", list, err)
	}

	created, err := service.CreateBookmark(ctx, "user-1", 2, 255, "Ayat al-Kursi")
	if err != nil {
		t.Fatalf("CreateBookmark returned error: %v", err)
	}

	list, err := service.ListBookmarks(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListBookmarks returned error: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("expected the created bookmark, got %+v", list)
	}

	if err := service.DeleteBookmark(ctx, "user-1", created.ID); err != nil {
		t.Fatalf("DeleteBookmark returned error: %v", err)
	}
	if list, err := service.ListBookmarks(ctx, "user-1"); err != nil || len(list) != 0 {
		t.Fatalf("expected empty list after delete, got %v err=%v", list, err)
	}

	if bookmarks.listReads != 3 {
		t.Fatalf("expected three authoritative reads, got %d", bookmarks.listReads)
	}
}

func TestCreateBookmarkValidatesSurah(t *testing.T) {
	service, _, _ := newContentFixture(t)

	if _, err := service.CreateBookmark(context.Background(), "user-1", 200, 1, ""); !errors.Is(err, ErrSurahOutOfRange) {
		t.Fatalf("expected ErrSurahOutOfRange, got %v", err)
	}
}
