package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/core/domain/model/orderedit"
	"ordercore/internal/core/domain/services"
	"ordercore/internal/pkg/errs"
)

func committerOrder(t *testing.T) *order.Order {
	t.Helper()
	li, err := order.NewLineItem(id(t, 100), id(t, 200), "Aeron Chair", 5, money(t, "100.00"), true, true)
	require.NoError(t, err)
	o, err := order.NewOrder(storeID(t), "#1001", usd(t), false, []*order.LineItem{li}, nil)
	require.NoError(t, err)
	require.NoError(t, o.AssignIdentifiers(id(t, 1), []kernel.ID{id(t, 11)}, nil, nil))
	o.ClearPendingEvents()
	return o
}

func assignedEdit(t *testing.T, orderID kernel.ID, changes ...*orderedit.Change) *orderedit.OrderEdit {
	t.Helper()
	e, err := orderedit.NewOrderEdit(storeID(t), orderID)
	require.NoError(t, err)
	for _, c := range changes {
		require.NoError(t, e.StageChange(c))
	}
	changeIDs := make([]kernel.ID, e.PendingChangeIdentifierCount())
	for i := range changeIDs {
		changeIDs[i] = id(t, int64(601+i))
	}
	require.NoError(t, e.AssignIdentifiers(id(t, 60), changeIDs))
	return e
}

func variantInfo(t *testing.T, variantID, productID int64, title, price string) services.VariantInfo {
	t.Helper()
	return services.VariantInfo{
		VariantID:        id(t, variantID),
		ProductID:        id(t, productID),
		Title:            title,
		Price:            money(t, price),
		Taxable:          true,
		RequiresShipping: true,
	}
}

func TestEditCommitterCommit(t *testing.T) {
	committer := services.NewEditCommitter()

	t.Run("applies staged changes in order and records the event", func(t *testing.T) {
		o := committerOrder(t)
		addVariant, err := orderedit.NewAddVariantChange(id(t, 101), 2, nil, false)
		require.NoError(t, err)
		setQuantity, err := orderedit.NewSetItemQuantityChange(id(t, 11), 3, false)
		require.NoError(t, err)
		edit := assignedEdit(t, o.ID(), addVariant, setQuantity)

		err = committer.Commit(o, edit, services.CommitInput{
			Variants: map[int64]services.VariantInfo{
				101: variantInfo(t, 101, 201, "Desk Lamp", "40.00"),
			},
		})

		require.NoError(t, err)
		assert.Equal(t, orderedit.StatusCommitted, edit.Status())
		require.Len(t, o.LineItems(), 2)
		assert.Equal(t, 3, o.LineItems()[0].Quantity())
		assert.Equal(t, "Desk Lamp", o.LineItems()[1].Title())
		// 300 + 80
		assert.True(t, o.Subtotal().IsEqual(money(t, "380.00")))

		var applied *order.EditAppliedEvent
		for _, event := range o.PendingEvents() {
			if e, ok := event.(*order.EditAppliedEvent); ok {
				applied = e
			}
		}
		require.NotNil(t, applied)
		assert.True(t, applied.OrderEditID.IsEqual(edit.ID()))
	})

	t.Run("applies a staged discount with an allocated application id", func(t *testing.T) {
		o := committerOrder(t)
		percent := decimal.NewFromInt(10)
		discount, err := orderedit.NewSetItemDiscountChange(id(t, 11), "VIP10", nil, &percent)
		require.NoError(t, err)
		edit := assignedEdit(t, o.ID(), discount)

		err = committer.Commit(o, edit, services.CommitInput{
			DiscountApplicationIDs: []kernel.ID{id(t, 800)},
		})

		require.NoError(t, err)
		assert.True(t, o.TotalDiscounts().IsEqual(money(t, "50.00")))
		assert.True(t, o.Total().IsEqual(money(t, "450.00")))
	})

	t.Run("unknown target line fails the whole commit and leaves everything untouched", func(t *testing.T) {
		o := committerOrder(t)
		addVariant, err := orderedit.NewAddVariantChange(id(t, 101), 2, nil, false)
		require.NoError(t, err)
		setQuantity, err := orderedit.NewSetItemQuantityChange(id(t, 999), 1, false)
		require.NoError(t, err)
		edit := assignedEdit(t, o.ID(), addVariant, setQuantity)

		err = committer.Commit(o, edit, services.CommitInput{
			Variants: map[int64]services.VariantInfo{
				101: variantInfo(t, 101, 201, "Desk Lamp", "40.00"),
			},
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Equal(t, orderedit.StatusOpen, edit.Status())
		assert.Len(t, o.LineItems(), 1)
		assert.Equal(t, 5, o.LineItems()[0].Quantity())
		assert.Empty(t, o.PendingEvents())
	})

	t.Run("missing variant metadata fails the commit", func(t *testing.T) {
		o := committerOrder(t)
		addVariant, err := orderedit.NewAddVariantChange(id(t, 101), 2, nil, false)
		require.NoError(t, err)
		edit := assignedEdit(t, o.ID(), addVariant)

		err = committer.Commit(o, edit, services.CommitInput{})

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Equal(t, orderedit.StatusOpen, edit.Status())
	})

	t.Run("quantity undercutting fulfilled units fails the commit", func(t *testing.T) {
		o := committerOrder(t)
		require.NoError(t, o.RecordFulfillment(id(t, 500),
			[]order.FulfillmentQuantity{{LineItemID: id(t, 11), Quantity: 3}}))
		o.ClearPendingEvents()
		setQuantity, err := orderedit.NewSetItemQuantityChange(id(t, 11), 2, false)
		require.NoError(t, err)
		edit := assignedEdit(t, o.ID(), setQuantity)

		err = committer.Commit(o, edit, services.CommitInput{})

		require.Error(t, err)
		var violation *errs.DomainRuleViolationError
		require.ErrorAs(t, err, &violation)
		assert.Equal(t, "set-item-quantity", violation.Rule)
		assert.Equal(t, orderedit.StatusOpen, edit.Status())
		assert.Equal(t, 5, o.LineItems()[0].Quantity())
	})

	t.Run("rejects edit targeting a different order", func(t *testing.T) {
		o := committerOrder(t)
		addVariant, err := orderedit.NewAddVariantChange(id(t, 101), 1, nil, false)
		require.NoError(t, err)
		edit := assignedEdit(t, id(t, 999), addVariant)

		err = committer.Commit(o, edit, services.CommitInput{
			Variants: map[int64]services.VariantInfo{
				101: variantInfo(t, 101, 201, "Desk Lamp", "40.00"),
			},
		})

		require.Error(t, err)
		var violation *errs.DomainRuleViolationError
		require.ErrorAs(t, err, &violation)
		assert.Equal(t, "commit-edit", violation.Rule)
	})

	t.Run("rejects already committed edit", func(t *testing.T) {
		o := committerOrder(t)
		addVariant, err := orderedit.NewAddVariantChange(id(t, 101), 1, nil, false)
		require.NoError(t, err)
		edit := assignedEdit(t, o.ID(), addVariant)
		input := services.CommitInput{
			Variants: map[int64]services.VariantInfo{
				101: variantInfo(t, 101, 201, "Desk Lamp", "40.00"),
			},
		}
		require.NoError(t, committer.Commit(o, edit, input))

		err = committer.Commit(o, edit, input)

		require.Error(t, err)
		var violation *errs.DomainRuleViolationError
		require.ErrorAs(t, err, &violation)
		assert.Equal(t, "commit-edit", violation.Rule)
	})
}
