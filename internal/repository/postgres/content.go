package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayatech/muslim-companion-api/internal/core/domain"
	"github.com/ayatech/muslim-companion-api/internal/repository"
)

type pgExecutor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ContentRepository implements port.ContentRepository using PostgreSQL.
type ContentRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewContentRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewContentRepository(exec pgExecutor) *ContentRepository {
	repo := &ContentRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *ContentRepository) WithTx(tx pgx.Tx) *ContentRepository {
	if tx == nil {
		return r
	}
	return &ContentRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// GetSurah retrieves a surah with its full verse text.
func (r *ContentRepository) GetSurah(ctx context.Context, number int) (*domain.Surah, error) {
	stmt, args, err := r.builder.
		Select(
			"number",
			"name_arabic",
			"name_english",
			"revelation_type",
			"verse_count",
			"updated_at",
		).
		From("quran.surahs").
		Where(squirrel.Eq{"number": number}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select surah sql: %w", err)
	}

	var surah domain.Surah
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&surah.Number,
		&surah.NameArabic,
		&surah.NameEnglish,
		&surah.RevelationType,
		&surah.VerseCount,
		&surah.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan surah: %w", err)
	}

	verses, err := r.listVerses(ctx, number)
	if err != nil {
		return nil, err
	}
	surah.Verses = verses

	return &surah, nil
}

func (r *ContentRepository) listVerses(ctx context.Context, surahNumber int) ([]domain.Verse, error) {
	stmt, args, err := r.builder.
		Select("number", "text").
		From("quran.verses").
		Where(squirrel.Eq{"surah_number": surahNumber}).
		OrderBy("number ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select verses sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query verses: %w", err)
	}
	defer rows.Close()

	var verses []domain.Verse
	for rows.Next() {
		var verse domain.Verse
		if err := rows.Scan(&verse.Number, &verse.Text); err != nil {
			return nil, fmt.Errorf("scan verse: %w", err)
		}
		verses = append(verses, verse)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verses: %w", err)
	}

	return verses, nil
}

// UpdateSurahText replaces the verse text of a surah inside one transaction.
func (r *ContentRepository) UpdateSurahText(ctx context.Context, surah domain.Surah) error {
	tx, err := r.exec.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update surah: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repo := r.WithTx(tx)

	stmt, args, err := repo.builder.
		Update("quran.surahs").
		Set("name_arabic", surah.NameArabic).
		Set("name_english", surah.NameEnglish).
		Set("revelation_type", surah.RevelationType).
		Set("verse_count", len(surah.Verses)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"number": surah.Number}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update surah sql: %w", err)
	}

	tag, err := tx.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update surah: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	deleteStmt, deleteArgs, err := repo.builder.
		Delete("quran.verses").
		Where(squirrel.Eq{"surah_number": surah.Number}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete verses sql: %w", err)
	}
	if _, err := tx.Exec(ctx, deleteStmt, deleteArgs...); err != nil {
		return fmt.Errorf("delete verses: %w", err)
	}

	insert := repo.builder.
		Insert("quran.verses").
		Columns("surah_number", "number", "text")
	for _, verse := range surah.Verses {
		insert = insert.Values(surah.Number, verse.Number, verse.Text)
	}

	insertStmt, insertArgs, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert verses sql: %w", err)
	}
	if _, err := tx.Exec(ctx, insertStmt, insertArgs...); err != nil {
		return fmt.Errorf("insert verses: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update surah: %w", err)
	}

	return nil
}

// UpdateReciter revises an existing reciter's metadata.
func (r *ContentRepository) UpdateReciter(ctx context.Context, reciter domain.Reciter) error {
	stmt, args, err := r.builder.
		Update("quran.reciters").
		Set("name", reciter.Name).
		Set("style", reciter.Style).
		Set("language", reciter.Language).
		Set("audio_base", reciter.AudioBase).
		Where(squirrel.Eq{"id": reciter.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update reciter sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update reciter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdateTranslation revises an existing translation's metadata.
func (r *ContentRepository) UpdateTranslation(ctx context.Context, translation domain.Translation) error {
	stmt, args, err := r.builder.
		Update("quran.translations").
		Set("name", translation.Name).
		Set("language", translation.Language).
		Set("translator", translation.Translator).
		Where(squirrel.Eq{"id": translation.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update translation sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update translation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListReciters returns all reciters ordered by name.
func (r *ContentRepository) ListReciters(ctx context.Context) ([]domain.Reciter, error) {
	stmt, args, err := r.builder.
		Select("id", "name", "style", "language", "audio_base").
		From("quran.reciters").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select reciters sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query reciters: %w", err)
	}
	defer rows.Close()

	var reciters []domain.Reciter
	for rows.Next() {
		var reciter domain.Reciter
		if err := rows.Scan(
			&reciter.ID,
			&reciter.Name,
			&reciter.Style,
			&reciter.Language,
			&reciter.AudioBase,
		); err != nil {
			return nil, fmt.Errorf("scan reciter: %w", err)
		}
		reciters = append(reciters, reciter)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reciters: %w", err)
	}

	return reciters, nil
}

// GetReciter retrieves one reciter by id.
func (r *ContentRepository) GetReciter(ctx context.Context, id int) (*domain.Reciter, error) {
	stmt, args, err := r.builder.
		Select("id", "name", "style", "language", "audio_base").
		From("quran.reciters").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select reciter sql: %w", err)
	}

	var reciter domain.Reciter
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&reciter.ID,
		&reciter.Name,
		&reciter.Style,
		&reciter.Language,
		&reciter.AudioBase,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan reciter: %w", err)
	}

	return &reciter, nil
}

// ListTranslations returns all published translations ordered by language.
func (r *ContentRepository) ListTranslations(ctx context.Context) ([]domain.Translation, error) {
	stmt, args, err := r.builder.
		Select("id", "name", "language", "translator").
		From("quran.translations").
		OrderBy("language ASC", "name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select translations sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query translations: %w", err)
	}
	defer rows.Close()

	var translations []domain.Translation
	for rows.Next() {
		var translation domain.Translation
		if err := rows.Scan(
			&translation.ID,
			&translation.Name,
			&translation.Language,
			&translation.Translator,
		); err != nil {
			return nil, fmt.Errorf("scan translation: %w", err)
		}
		translations = append(translations, translation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate translations: %w", err)
	}

	return translations, nil
}

// GetTranslation retrieves one translation by id.
func (r *ContentRepository) GetTranslation(ctx context.Context, id int) (*domain.Translation, error) {
	stmt, args, err := r.builder.
		Select("id", "name", "language", "translator").
		From("quran.translations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select translation sql: %w", err)
	}

	var translation domain.Translation
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&translation.ID,
		&translation.Name,
		&translation.Language,
		&translation.Translator,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan translation: %w", err)
	}

	return &translation, nil
}
