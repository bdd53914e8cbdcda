package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/ayatech/muslim-companion-api/internal/core/domain"
	"github.com/ayatech/muslim-companion-api/internal/repository"
)

func TestContentRepository_GetSurah(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewContentRepository(mock)

	updatedAt := time.Now().UTC()

	mock.ExpectQuery(`SELECT .+ FROM quran\.surahs`).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows([]string{
			"number", "name_arabic", "name_english", "revelation_type", "verse_count", "updated_at",
		}).AddRow(1, "الفاتحة", "Al-Fatihah", "meccan", 7, updatedAt))

	mock.ExpectQuery(`SELECT .+ FROM quran\.verses`).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows([]string{"number", "text"}).
			AddRow(1, "بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ").
			AddRow(2, "الْحَمْدُ لِلَّهِ رَبِّ الْعَالَمِينَ"))

	surah, err := repo.GetSurah(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetSurah returned error: %v", err)
	}
	if surah.NameEnglish != "Al-Fatihah" {
		t.Fatalf("unexpected surah %+v", surah)
	}
	if len(surah.Verses) != 2 || surah.Verses[1].Number != 2 {
		t.Fatalf("unexpected verses %+v", surah.Verses)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestContentRepository_GetSurahNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewContentRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM quran\.surahs`).
		WithArgs(115).
		WillReturnRows(pgxmock.NewRows([]string{
			"number", "name_arabic", "name_english", "revelation_type", "verse_count", "updated_at",
		}))

	if _, err := repo.GetSurah(context.Background(), 115); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestContentRepository_ListReciters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewContentRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM quran\.reciters`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "style", "language", "audio_base"}).
			AddRow(1, "Mishary Alafasy", "murattal", "ar", "https://audio.example.com/alafasy").
			AddRow(2, "Saad Al-Ghamdi", "murattal", "ar", "https://audio.example.com/ghamdi"))

	reciters, err := repo.ListReciters(context.Background())
	if err != nil {
		t.Fatalf("ListReciters returned error: %v", err)
	}
	if len(reciters) != 2 || reciters[0].Name != "Mishary Alafasy" {
		t.Fatalf("unexpected reciters %+v", reciters)
	}
}

func TestUserRepository_GetByEmailLowercasesLookup(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	createdAt := time.Now().UTC()
	mock.ExpectQuery(`SELECT .+ FROM quran\.users`).
		WithArgs("reader@example.com").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "email", "display_name", "password_hash", "status", "is_admin", "created_at",
		}).AddRow("user-1", "reader@example.com", "Reader", "argon2id$...", domain.UserStatusActive, false, createdAt))

	user, err := repo.GetByEmail(context.Background(), "Reader@Example.COM")
	if err != nil {
		t.Fatalf("GetByEmail returned error: %v", err)
	}
	if user.ID != "user-1" {
		t.Fatalf("unexpected user %+v", user)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookmarkRepository_DeleteNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewBookmarkRepository(mock)

	mock.ExpectExec(`DELETE FROM quran\.bookmarks`).
		WithArgs("bm-1", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.Delete(context.Background(), "user-1", "bm-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
