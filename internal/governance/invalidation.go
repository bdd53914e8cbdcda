package governance

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

// ResourceType names the authoritative resources whose mutation must
// invalidate cache entries.
type ResourceType string

const (
	ResourceSurah       ResourceType = "surah"
	ResourceReciter     ResourceType = "reciter"
	ResourceTranslation ResourceType = "translation"
	ResourceBookmark    ResourceType = "bookmark"
)

// InvalidationFunc handles one changed resource, identified by its id.
type InvalidationFunc func(ctx context.Context, identity string)

// InvalidationRegistry decouples cache invalidation from any particular
// mutation mechanism: writers announce "resource X with identity Y changed"
// and registered handlers derive and delete the affected cache keys.
type InvalidationRegistry struct {
	mu       sync.RWMutex
	handlers map[ResourceType][]InvalidationFunc
	logger   *zap.Logger
}

// NewInvalidationRegistry constructs an empty registry.
func NewInvalidationRegistry(logger *zap.Logger) *InvalidationRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &InvalidationRegistry{
		handlers: make(map[ResourceType][]InvalidationFunc),
		logger:   logger,
	}
}

// Register appends a handler for the resource type.
func (r *InvalidationRegistry) Register(resource ResourceType, fn InvalidationFunc) {
	if fn == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[resource] = append(r.handlers[resource], fn)
}

// NotifyChanged invokes every handler registered for the resource type,
// synchronously, so the invalidation lands before the mutating call returns.
func (r *InvalidationRegistry) NotifyChanged(ctx context.Context, resource ResourceType, identity string) {
	r.mu.RLock()
	handlers := r.handlers[resource]
	r.mu.RUnlock()

	for _, fn := range handlers {
		fn(ctx, identity)
	}

	r.logger.Debug("invalidation handlers notified",
		zap.String("resource", string(resource)),
		zap.String("identity", identity),
		zap.Int("handlers", len(handlers)),
	)
}

// RegisterContentInvalidations wires the standard handlers: each mutation
// deletes exactly the keys the content service caches under, derived with the
// same key builders.
func RegisterContentInvalidations(registry *InvalidationRegistry, cache *CacheManager) {
	registry.Register(ResourceSurah, func(ctx context.Context, identity string) {
		if number, err := strconv.Atoi(identity); err == nil {
			cache.Invalidate(ctx, SurahKey(number))
			return
		}
		// Unknown surah identity, e.g. a bulk re-import: clear the namespace.
		cache.InvalidateNamespace(ctx, QuranNamespace)
	})

	registry.Register(ResourceReciter, func(ctx context.Context, identity string) {
		cache.Invalidate(ctx, ReciterListKey())
		if id, err := strconv.Atoi(identity); err == nil {
			cache.Invalidate(ctx, ReciterKey(id))
		}
	})

	registry.Register(ResourceTranslation, func(ctx context.Context, identity string) {
		cache.Invalidate(ctx, TranslationListKey())
		if id, err := strconv.Atoi(identity); err == nil {
			cache.Invalidate(ctx, TranslationKey(id))
		}
	})

	registry.Register(ResourceBookmark, func(ctx context.Context, identity string) {
		cache.Invalidate(ctx, UserBookmarkKey(identity))
	})
}
