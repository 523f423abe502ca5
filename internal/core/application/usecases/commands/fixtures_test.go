package commands_test

import (
	"testing"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/core/ports"

	"github.com/stretchr/testify/require"
)

func testStoreID(t *testing.T) kernel.StoreID {
	t.Helper()
	sid, err := kernel.NewStoreID(42)
	require.NoError(t, err)
	return sid
}

func testID(t *testing.T, value int64) kernel.ID {
	t.Helper()
	id, err := kernel.NewID(value)
	require.NoError(t, err)
	return id
}

func usd(t *testing.T) kernel.Currency {
	t.Helper()
	currency, err := kernel.NewCurrency("USD", 2)
	require.NoError(t, err)
	return currency
}

func usdMoney(t *testing.T, amount string) kernel.Money {
	t.Helper()
	m, err := kernel.MoneyFromString(amount, usd(t))
	require.NoError(t, err)
	return m
}

// testOrder builds an order with one variant line (variant 100, product 200)
// already carrying identifiers: order 1, line item 11.
func testOrder(t *testing.T, quantity int, price string) *order.Order {
	t.Helper()

	li, err := order.NewLineItem(testID(t, 100), testID(t, 200), "Aeron Chair", quantity, usdMoney(t, price), true, true)
	require.NoError(t, err)

	o, err := order.NewOrder(testStoreID(t), "#1001", usd(t), false, []*order.LineItem{li}, nil)
	require.NoError(t, err)
	require.NoError(t, o.AssignIdentifiers(testID(t, 1), []kernel.ID{testID(t, 11)}, nil, nil))
	o.ClearPendingEvents()
	return o
}

// batchOf builds an identifier batch with the given values per kind.
func batchOf(t *testing.T, ids map[ports.IDKind][]int64) *ports.IDBatch {
	t.Helper()

	queues := make(map[ports.IDKind][]kernel.ID, len(ids))
	for kind, values := range ids {
		queue := make([]kernel.ID, 0, len(values))
		for _, v := range values {
			queue = append(queue, testID(t, v))
		}
		queues[kind] = queue
	}
	return ports.NewIDBatch(queues)
}
