package commands_test

import (
	"testing"

	"ordercore/internal/core/application/usecases/commands"
	"ordercore/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/require"
)

func validLineInputs(t *testing.T) []commands.LineItemInput {
	t.Helper()
	variantID := testID(t, 100)
	productID := testID(t, 200)
	return []commands.LineItemInput{{
		VariantID:        &variantID,
		ProductID:        &productID,
		Title:            "Aeron Chair",
		Quantity:         2,
		Price:            usdMoney(t, "10.00"),
		Taxable:          true,
		RequiresShipping: true,
	}}
}

func TestNewCreateOrderCommand_Success(t *testing.T) {
	cmd, err := commands.NewCreateOrderCommand(testStoreID(t), "#1001", usd(t), validLineInputs(t), nil)

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	require.Equal(t, "#1001", cmd.Name())
	require.Len(t, cmd.LineItems(), 1)
}

func TestNewCreateOrderCommand_EmptyName(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(testStoreID(t), "", usd(t), validLineInputs(t), nil)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrOrderNameIsRequired)
}

func TestNewCreateOrderCommand_NoLineItems(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(testStoreID(t), "#1001", usd(t), nil, nil)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrLineItemsAreRequired)
}

func TestNewCreateOrderCommand_InvalidStore(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.StoreID{}, "#1001", usd(t), validLineInputs(t), nil)

	require.Error(t, err)
}

func TestCreateOrderCommand_NotConstructed(t *testing.T) {
	var cmd commands.CreateOrderCommand

	err := cmd.Validate()

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
}

func TestCreateOrderCommand_WithCustomer(t *testing.T) {
	customerID := testID(t, 900)
	cmd, err := commands.NewCreateOrderCommand(testStoreID(t), "#1001", usd(t), validLineInputs(t), nil)
	require.NoError(t, err)

	cmd = cmd.WithCustomer(&customerID, nil, nil)

	require.NoError(t, cmd.Validate())
	require.NotNil(t, cmd.CustomerID())
	require.Equal(t, customerID, *cmd.CustomerID())
	require.Nil(t, cmd.BillingAddressID())
}
