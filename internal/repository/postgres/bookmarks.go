package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayatech/muslim-companion-api/internal/core/domain"
	"github.com/ayatech/muslim-companion-api/internal/repository"
)

// BookmarkRepository implements port.BookmarkRepository using PostgreSQL.
type BookmarkRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewBookmarkRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewBookmarkRepository(exec pgExecutor) *BookmarkRepository {
	repo := &BookmarkRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// ListByUser returns the user's bookmarks, newest first.
func (r *BookmarkRepository) ListByUser(ctx context.Context, userID string) ([]domain.Bookmark, error) {
	stmt, args, err := r.builder.
		Select("id", "user_id", "surah_number", "verse_number", "label", "created_at").
		From("quran.bookmarks").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select bookmarks sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []domain.Bookmark
	for rows.Next() {
		var bookmark domain.Bookmark
		if err := rows.Scan(
			&bookmark.ID,
			&bookmark.UserID,
			&bookmark.SurahNumber,
			&bookmark.VerseNumber,
			&bookmark.Label,
			&bookmark.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, bookmark)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookmarks: %w", err)
	}

	return bookmarks, nil
}

// Create inserts a new bookmark row.
func (r *BookmarkRepository) Create(ctx context.Context, bookmark domain.Bookmark) error {
	stmt, args, err := r.builder.
		Insert("quran.bookmarks").
		Columns("id", "user_id", "surah_number", "verse_number", "label", "created_at").
		Values(
			bookmark.ID,
			bookmark.UserID,
			bookmark.SurahNumber,
			bookmark.VerseNumber,
			bookmark.Label,
			bookmark.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert bookmark sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert bookmark: %w", err)
	}

	return nil
}

// Delete removes a bookmark, scoped to its owner.
func (r *BookmarkRepository) Delete(ctx context.Context, userID, bookmarkID string) error {
	stmt, args, err := r.builder.
		Delete("quran.bookmarks").
		Where(squirrel.Eq{"id": bookmarkID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete bookmark sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}
