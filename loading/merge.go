package loading

import (
	"context"

	"github.com/samber/lo"
)

// Merge appends page to existing and drops items whose identifier was already seen.
// The first occurrence wins and the original order is preserved. A nil id disables deduplication.
func Merge[T any](existing, page []T, id func(T) string) []T {
	merged := make([]T, 0, len(existing)+len(page))
	merged = append(merged, existing...)
	merged = append(merged, page...)

	if id == nil {
		return merged
	}

	return lo.UniqBy(merged, id)
}

// Unpaged adapts a loader of a whole list to a Fetcher. Page zero returns everything, later pages are empty.
func Unpaged[T any](load func(ctx context.Context) ([]T, error)) Fetcher[T] {
	return func(ctx context.Context, page int) ([]T, error) {
		if page > 0 {
			return nil, nil
		}
		return load(ctx)
	}
}
