package redisstore

import (
	"testing"

	"ordercore/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisKey_ScopedByStore(t *testing.T) {
	store42, err := kernel.NewStoreID(42)
	require.NoError(t, err)
	store77, err := kernel.NewStoreID(77)
	require.NoError(t, err)

	assert.Equal(t, "idempotency:42:fulfill-abc", redisKey(store42, "fulfill-abc"))
	assert.NotEqual(t, redisKey(store42, "fulfill-abc"), redisKey(store77, "fulfill-abc"))
}
