package fulfillment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordercore/internal/core/domain/model/fulfillment"
	"ordercore/internal/core/domain/model/kernel"
)

func id(t *testing.T, value int64) kernel.ID {
	t.Helper()
	v, err := kernel.NewID(value)
	require.NoError(t, err)
	return v
}

func storeID(t *testing.T) kernel.StoreID {
	t.Helper()
	s, err := kernel.NewStoreID(42)
	require.NoError(t, err)
	return s
}

func TestNewFulfillment(t *testing.T) {
	t.Run("should create successful fulfillment", func(t *testing.T) {
		l, err := fulfillment.NewLine(id(t, 50), id(t, 500), id(t, 11), 2)
		require.NoError(t, err)

		f, err := fulfillment.NewFulfillment(storeID(t), id(t, 1),
			fulfillment.NewTrackingInfo("UPS", "1Z999", "https://track.example/1Z999"),
			[]*fulfillment.Line{l})

		require.NoError(t, err)
		require.NoError(t, f.Validate())
		assert.Equal(t, fulfillment.StatusSuccess, f.Status())
		assert.Equal(t, "UPS", f.Tracking().Company())
		assert.Equal(t, 2, f.TotalQuantity())
		assert.True(t, f.ID().IsZero())
	})

	t.Run("should fail without lines", func(t *testing.T) {
		f, err := fulfillment.NewFulfillment(storeID(t), id(t, 1), fulfillment.TrackingInfo{}, nil)

		require.Error(t, err)
		assert.Nil(t, f)
		assert.Contains(t, err.Error(), "fulfillment lines")
	})

	t.Run("line should fail with zero quantity", func(t *testing.T) {
		l, err := fulfillment.NewLine(id(t, 50), id(t, 500), id(t, 11), 0)

		require.Error(t, err)
		assert.Nil(t, l)
		assert.Contains(t, err.Error(), "0 is not greater than 0")
	})
}

func TestFulfillmentAssignIdentifiers(t *testing.T) {
	t.Run("should assign FIFO", func(t *testing.T) {
		first, err := fulfillment.NewLine(id(t, 50), id(t, 500), id(t, 11), 2)
		require.NoError(t, err)
		second, err := fulfillment.NewLine(id(t, 50), id(t, 501), id(t, 12), 1)
		require.NoError(t, err)
		f, err := fulfillment.NewFulfillment(storeID(t), id(t, 1), fulfillment.TrackingInfo{},
			[]*fulfillment.Line{first, second})
		require.NoError(t, err)

		err = f.AssignIdentifiers(id(t, 70), []kernel.ID{id(t, 701), id(t, 702)})

		require.NoError(t, err)
		assert.True(t, f.ID().IsEqual(id(t, 70)))
		assert.True(t, f.Lines()[0].ID().IsEqual(id(t, 701)))
		assert.True(t, f.Lines()[1].ID().IsEqual(id(t, 702)))
	})

	t.Run("should fail on count mismatch", func(t *testing.T) {
		l, err := fulfillment.NewLine(id(t, 50), id(t, 500), id(t, 11), 2)
		require.NoError(t, err)
		f, err := fulfillment.NewFulfillment(storeID(t), id(t, 1), fulfillment.TrackingInfo{},
			[]*fulfillment.Line{l})
		require.NoError(t, err)

		err = f.AssignIdentifiers(id(t, 70), nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "identifier batch sizes")
	})
}

func TestFulfillmentCancel(t *testing.T) {
	t.Run("pending can cancel, success cannot", func(t *testing.T) {
		l, err := fulfillment.RestoreLine(id(t, 701), id(t, 50), id(t, 500), id(t, 11), 2)
		require.NoError(t, err)

		pending, err := fulfillment.RestoreFulfillment(id(t, 70), storeID(t), id(t, 1),
			fulfillment.StatusPending, fulfillment.TrackingInfo{}, []*fulfillment.Line{l})
		require.NoError(t, err)
		require.NoError(t, pending.Cancel())
		assert.Equal(t, fulfillment.StatusCancelled, pending.Status())

		succeeded, err := fulfillment.RestoreFulfillment(id(t, 71), storeID(t), id(t, 1),
			fulfillment.StatusSuccess, fulfillment.TrackingInfo{}, []*fulfillment.Line{l})
		require.NoError(t, err)
		require.Error(t, succeeded.Cancel())
	})
}
