package ledger

import "fmt"

// Wire names of the transaction kinds.
const (
	KindDeposit    = "deposit"
	KindWithdrawal = "withdrawal"
	KindTransfer   = "transfer"
)

// Kind is the closed set of transaction kinds. The unexported marker method
// keeps implementations inside this package; switch on the concrete type.
type Kind interface {
	Name() string
	kind()
}

// Deposit credits the source account.
type Deposit struct{}

// Withdrawal debits the source account.
type Withdrawal struct{}

// Transfer debits the source account and credits DestinationID.
type Transfer struct {
	DestinationID string
}

func (Deposit) Name() string    { return KindDeposit }
func (Withdrawal) Name() string { return KindWithdrawal }
func (Transfer) Name() string   { return KindTransfer }

func (Deposit) kind()    {}
func (Withdrawal) kind() {}
func (Transfer) kind()   {}

// ParseKind builds a Kind from its wire name. destinationID is only read for
// transfers.
func ParseKind(name, destinationID string) (Kind, error) {
	switch name {
	case KindDeposit:
		return Deposit{}, nil
	case KindWithdrawal:
		return Withdrawal{}, nil
	case KindTransfer:
		return Transfer{DestinationID: destinationID}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, name)
	}
}

// IsValidKindName reports whether name is one of the wire names.
func IsValidKindName(name string) bool {
	switch name {
	case KindDeposit, KindWithdrawal, KindTransfer:
		return true
	}
	return false
}

// destinationOf returns the credited account of a transfer, or "".
func destinationOf(k Kind) string {
	if t, ok := k.(Transfer); ok {
		return t.DestinationID
	}
	return ""
}
