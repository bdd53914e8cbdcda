package governance

import (
	"fmt"
	"strings"
)

// Cache and counter keys are always derived through these builders so the
// writer and the invalidator of an entry can never disagree on its name.

// SurahKey returns the cache key for a surah's text, e.g. "quran:surah:2".
func SurahKey(number int) string {
	return fmt.Sprintf("quran:surah:%d", number)
}

// QuranNamespace is the shared prefix of all surah text entries, used for bulk
// invalidation after a full content re-import.
const QuranNamespace = "quran:"

// ReciterListKey returns the cache key for the reciter catalogue.
func ReciterListKey() string {
	return "reciters:list"
}

// ReciterKey returns the cache key for a single reciter's details.
func ReciterKey(id int) string {
	return fmt.Sprintf("reciter:%d", id)
}

// TranslationListKey returns the cache key for the translation catalogue.
func TranslationListKey() string {
	return "translations:list"
}

// TranslationKey returns the cache key for a single translation's details.
func TranslationKey(id int) string {
	return fmt.Sprintf("translation:%d", id)
}

// UserBookmarkKey returns the cache key for a user's bookmark list.
func UserBookmarkKey(userID string) string {
	return fmt.Sprintf("user:%s:bookmarks", userID)
}

// ThrottleKey returns the counter key for a rate-limit window.
func ThrottleKey(scope Scope, identity string) string {
	return fmt.Sprintf("throttle:%s:%s", scope, identity)
}

// ViolationKey returns the hourly rate-limit violation counter for an identity.
func ViolationKey(identity string) string {
	return fmt.Sprintf("rate_violations:%s:hour", identity)
}

// AttemptKey returns the failed-login counter key for an account.
func AttemptKey(email string) string {
	return fmt.Sprintf("auth:attempts:%s", strings.ToLower(strings.TrimSpace(email)))
}

// LockoutKey returns the lockout marker key for an account.
func LockoutKey(email string) string {
	return fmt.Sprintf("auth:lockout:%s", strings.ToLower(strings.TrimSpace(email)))
}
