package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Content   *ContentRepository
	Bookmarks *BookmarkRepository
	Users     *UserRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Content:   NewContentRepository(pool),
		Bookmarks: NewBookmarkRepository(pool),
		Users:     NewUserRepository(pool),
	}
}
