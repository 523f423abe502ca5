package ports

import (
	"context"

	"ordercore/internal/core/domain/model/kernel"
)

// IdempotencyStore deduplicates externally supplied operation keys, so a
// retried request records its side effects at most once.
type IdempotencyStore interface {
	// Begin claims the key for this attempt. Returns true when the key was
	// already claimed or completed, in which case the caller must not
	// repeat the operation.
	Begin(ctx context.Context, storeID kernel.StoreID, key string) (alreadySeen bool, err error)

	// MarkDone records successful completion so later attempts short-circuit.
	MarkDone(ctx context.Context, storeID kernel.StoreID, key string) error

	// Release frees a claimed key after a failed attempt so the caller can
	// retry.
	Release(ctx context.Context, storeID kernel.StoreID, key string) error
}
