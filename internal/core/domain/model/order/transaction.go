package order

import (
	"errors"
	"fmt"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/errs"
)

// ErrTransactionIsNotConstructed is returned when a Transaction was not
// created through NewTransaction or RestoreTransaction.
var ErrTransactionIsNotConstructed = errors.New("Transaction must be created via NewTransaction or RestoreTransaction")

// TransactionKind discriminates entries in the order's monetary ledger.
type TransactionKind int

const (
	TransactionKindUnknown TransactionKind = iota
	TransactionKindSale
	TransactionKindRefund
	TransactionKindVoid
)

// String returns the lowercase name of the transaction kind.
func (k TransactionKind) String() string {
	switch k {
	case TransactionKindSale:
		return "sale"
	case TransactionKindRefund:
		return "refund"
	case TransactionKindVoid:
		return "void"
	default:
		return "unknown"
	}
}

// Validate checks if the TransactionKind is valid.
func (k TransactionKind) Validate() error {
	if k != TransactionKindSale && k != TransactionKindRefund && k != TransactionKindVoid {
		return errs.NewValueIsInvalidErrorWithCause("transaction kind",
			fmt.Errorf("%d is not a valid transaction kind", k))
	}
	return nil
}

// TransactionStatus records the gateway outcome of a transaction.
type TransactionStatus int

const (
	TransactionStatusUnknown TransactionStatus = iota
	TransactionStatusSuccess
	TransactionStatusFailure
)

// String returns the lowercase name of the transaction status.
func (s TransactionStatus) String() string {
	switch s {
	case TransactionStatusSuccess:
		return "success"
	case TransactionStatusFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Validate checks if the TransactionStatus is valid.
func (s TransactionStatus) Validate() error {
	if s != TransactionStatusSuccess && s != TransactionStatusFailure {
		return errs.NewValueIsInvalidErrorWithCause("transaction status",
			fmt.Errorf("%d is not a valid transaction status", s))
	}
	return nil
}

// Transaction is a nested entity in the order's monetary ledger. Refund
// transactions reference the sale transaction they reverse via the parent
// transaction id.
type Transaction struct {
	id                  kernel.ID
	kind                TransactionKind
	status              TransactionStatus
	amount              kernel.Money
	gateway             string
	parentTransactionID *kernel.ID

	isConstructed bool
}

// NewTransaction creates a ledger entry. The amount must be a constructed,
// non-negative Money; refunds reference their originating sale via parentID.
func NewTransaction(kind TransactionKind, status TransactionStatus, amount kernel.Money, gateway string, parentID *kernel.ID) (*Transaction, error) {
	tx := &Transaction{isConstructed: true}

	if err := errors.Join(
		kind.Validate(),
		status.Validate(),
		tx.setAmount(amount),
		tx.setGateway(gateway),
	); err != nil {
		return nil, err
	}

	if parentID != nil {
		if err := parentID.Validate(); err != nil {
			return nil, err
		}
	}

	tx.kind = kind
	tx.status = status
	tx.parentTransactionID = parentID
	return tx, nil
}

// RestoreTransaction reconstructs a ledger entry from persistence.
func RestoreTransaction(id kernel.ID, kind TransactionKind, status TransactionStatus, amount kernel.Money, gateway string, parentID *kernel.ID) (*Transaction, error) {
	tx, err := NewTransaction(kind, status, amount, gateway, parentID)
	if err != nil {
		return nil, err
	}
	if err = id.Validate(); err != nil {
		return nil, err
	}

	tx.id = id
	return tx, nil
}

// Validate ensures the Transaction was created through a constructor.
func (t *Transaction) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTransactionIsNotConstructed
	}
	return nil
}

// ID returns the transaction identifier; zero until assigned.
func (t *Transaction) ID() kernel.ID {
	return t.id
}

// Kind returns the ledger entry kind.
func (t *Transaction) Kind() TransactionKind {
	return t.kind
}

// Status returns the gateway outcome.
func (t *Transaction) Status() TransactionStatus {
	return t.status
}

// Amount returns the transaction amount.
func (t *Transaction) Amount() kernel.Money {
	return t.amount
}

// Gateway returns the payment gateway name.
func (t *Transaction) Gateway() string {
	return t.gateway
}

// ParentTransactionID returns the originating transaction for refunds and
// voids, or nil.
func (t *Transaction) ParentTransactionID() *kernel.ID {
	return t.parentTransactionID
}

// IsSuccessfulSale reports whether the entry captured money.
func (t *Transaction) IsSuccessfulSale() bool {
	return t.kind == TransactionKindSale && t.status == TransactionStatusSuccess
}

// IsSuccessfulRefund reports whether the entry returned money.
func (t *Transaction) IsSuccessfulRefund() bool {
	return t.kind == TransactionKindRefund && t.status == TransactionStatusSuccess
}

func (t *Transaction) assignID(id kernel.ID) error {
	if !t.id.IsZero() {
		return errs.NewValueIsInvalidError("transaction id already assigned")
	}
	if err := id.Validate(); err != nil {
		return err
	}
	t.id = id
	return nil
}

func (t *Transaction) setAmount(amount kernel.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if amount.IsNegative() {
		return errs.NewValueIsInvalidError("transaction amount")
	}
	t.amount = amount
	return nil
}

func (t *Transaction) setGateway(gateway string) error {
	if gateway == "" {
		return errs.NewValueIsRequiredError("transaction gateway")
	}
	t.gateway = gateway
	return nil
}
