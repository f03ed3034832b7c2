package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"household/internal/domain/account"
)

// Effect is the signed balance change a transaction applies to one account.
type Effect struct {
	AccountID string
	Delta     decimal.Decimal
}

// Effects returns the signed effects of t, source first.
func Effects(t *Transaction) []Effect {
	switch k := t.Kind.(type) {
	case Deposit:
		return []Effect{{AccountID: t.AccountID, Delta: t.Amount}}
	case Withdrawal:
		return []Effect{{AccountID: t.AccountID, Delta: t.Amount.Neg()}}
	case Transfer:
		return []Effect{
			{AccountID: t.AccountID, Delta: t.Amount.Neg()},
			{AccountID: k.DestinationID, Delta: t.Amount},
		}
	default:
		panic(fmt.Sprintf("ledger: unhandled kind %T", t.Kind))
	}
}

// Accounts is a set of locked accounts keyed by ID.
type Accounts map[string]*account.Account

// Apply adds the effects of t to the accounts in set. Withdrawals and
// transfers require the source balance to cover the amount; on failure no
// account is modified.
func Apply(set Accounts, t *Transaction) error {
	effects := Effects(t)
	if err := set.require(effects); err != nil {
		return err
	}

	switch t.Kind.(type) {
	case Withdrawal, Transfer:
		if set[t.AccountID].Balance.LessThan(t.Amount) {
			return ErrInsufficientFunds
		}
	}

	for _, e := range effects {
		a := set[e.AccountID]
		a.Balance = a.Balance.Add(e.Delta)
	}
	return nil
}

// Revert undoes the effects of t. It is never funds-checked.
func Revert(set Accounts, t *Transaction) error {
	effects := Effects(t)
	if err := set.require(effects); err != nil {
		return err
	}

	for _, e := range effects {
		a := set[e.AccountID]
		a.Balance = a.Balance.Sub(e.Delta)
	}
	return nil
}

func (s Accounts) require(effects []Effect) error {
	for _, e := range effects {
		if s[e.AccountID] == nil {
			return fmt.Errorf("%w: %s", account.ErrAccountNotFound, e.AccountID)
		}
	}
	return nil
}

// SumEffects folds the effects of txns on accountID.
func SumEffects(accountID string, txns []*Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		for _, e := range Effects(t) {
			if e.AccountID == accountID {
				total = total.Add(e.Delta)
			}
		}
	}
	return total
}
