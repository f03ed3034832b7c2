package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"household/internal/domain/account"
)

var (
	ledgerTracer  = otel.Tracer("household/ledger")
	ledgerMeter   = otel.Meter("household/ledger")
	opDuration, _ = ledgerMeter.Float64Histogram("ledger.operation.duration", metric.WithDescription("Ledger operation duration in seconds"), metric.WithUnit("s"))
	opTotal, _    = ledgerMeter.Int64Counter("ledger.operation.total", metric.WithDescription("Ledger operations by outcome"))
)

// Config tunes an Engine.
type Config struct {
	// OpTimeout bounds each unit of work; exceeding it rolls the unit back.
	OpTimeout       time.Duration
	DefaultCurrency string
}

// Engine keeps account balances equal to the sum of their transaction
// effects. Every mutation runs in a single unit of work that locks the
// transaction row first and then the affected accounts in ascending ID order.
type Engine struct {
	store  Store
	repo   Repository
	cfg    Config
	now    func() time.Time
	logger *log.Logger
}

// NewEngine creates a ledger engine.
func NewEngine(store Store, repo Repository, cfg Config) *Engine {
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = 5 * time.Second
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "KRW"
	}
	return &Engine{
		store:  store,
		repo:   repo,
		cfg:    cfg,
		now:    time.Now,
		logger: log.Default().WithPrefix("ledger"),
	}
}

// Create records a new transaction for userID and applies its effects.
func (e *Engine) Create(ctx context.Context, userID int64, p CreateParams) (*Transaction, error) {
	now := e.now().UTC()
	t := &Transaction{
		ID:              uuid.NewString(),
		UserID:          userID,
		AccountID:       p.AccountID,
		Kind:            p.Kind,
		CategoryID:      p.CategoryID,
		Amount:          p.Amount,
		Currency:        strings.ToUpper(p.Currency),
		Description:     p.Description,
		TransactionDate: p.TransactionDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if t.Currency == "" {
		t.Currency = e.cfg.DefaultCurrency
	}
	if t.TransactionDate.IsZero() {
		t.TransactionDate = now
	}
	t.canonicalize()
	if err := t.Validate(); err != nil {
		return nil, err
	}

	err := e.run(ctx, "create", func(ctx context.Context, tx Tx) error {
		set, err := lockAccounts(ctx, tx, t.AccountIDs())
		if err != nil {
			return err
		}
		if err := checkTarget(set, userID, t); err != nil {
			return err
		}
		if err := Apply(set, t); err != nil {
			return err
		}
		t.BalanceAfter = set[t.AccountID].Balance

		if err := tx.InsertTransaction(ctx, t); err != nil {
			return err
		}
		return saveBalances(ctx, tx, set)
	})
	if err != nil {
		return nil, err
	}

	e.logger.Debug("transaction created", "id", t.ID, "kind", t.Kind.Name(), "amount", t.Amount)
	return t, nil
}

// Update changes a transaction. The old effects are reverted before the new
// ones are checked and applied, so the funds check sees post-revert balances.
func (e *Engine) Update(ctx context.Context, userID int64, txID string, p UpdateParams) (*Transaction, error) {
	var updated *Transaction

	err := e.run(ctx, "update", func(ctx context.Context, tx Tx) error {
		old, err := ownedTransaction(ctx, tx, userID, txID)
		if err != nil {
			return err
		}

		next, err := p.applyTo(old)
		if err != nil {
			return err
		}
		if err := next.Validate(); err != nil {
			return err
		}
		next.UpdatedAt = e.now().UTC()

		if !affectsBalances(old, next) {
			if err := tx.UpdateTransaction(ctx, next); err != nil {
				return err
			}
			updated = next
			return nil
		}

		set, err := lockAccounts(ctx, tx, append(old.AccountIDs(), next.AccountIDs()...))
		if err != nil {
			return err
		}
		if err := checkExisting(set, old); err != nil {
			return err
		}
		if err := checkTarget(set, userID, next); err != nil {
			return err
		}

		if err := Revert(set, old); err != nil {
			return err
		}
		if err := Apply(set, next); err != nil {
			return err
		}
		next.BalanceAfter = set[next.AccountID].Balance

		if err := tx.UpdateTransaction(ctx, next); err != nil {
			return err
		}
		if err := saveBalances(ctx, tx, set); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Debug("transaction updated", "id", updated.ID, "kind", updated.Kind.Name(), "amount", updated.Amount)
	return updated, nil
}

// Delete reverts a transaction's effects and removes it.
func (e *Engine) Delete(ctx context.Context, userID int64, txID string) error {
	err := e.run(ctx, "delete", func(ctx context.Context, tx Tx) error {
		old, err := ownedTransaction(ctx, tx, userID, txID)
		if err != nil {
			return err
		}

		set, err := lockAccounts(ctx, tx, old.AccountIDs())
		if err != nil {
			return err
		}
		if err := checkExisting(set, old); err != nil {
			return err
		}
		if err := Revert(set, old); err != nil {
			return err
		}
		if err := saveBalances(ctx, tx, set); err != nil {
			return err
		}
		return tx.DeleteTransaction(ctx, old.ID)
	})
	if err != nil {
		return err
	}

	e.logger.Debug("transaction deleted", "id", txID)
	return nil
}

// Get returns a transaction owned by userID.
func (e *Engine) Get(ctx context.Context, userID int64, txID string) (*Transaction, error) {
	t, err := e.repo.GetByID(ctx, txID)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, ErrTransactionNotFound
	}
	return t, nil
}

// List returns userID's transactions on active accounts, newest first.
func (e *Engine) List(ctx context.Context, userID int64, filter ListFilter) ([]*Transaction, error) {
	if err := filter.Normalize(); err != nil {
		return nil, err
	}
	return e.repo.List(ctx, userID, filter)
}

// Reconcile compares an account's stored balance with the sum of its
// transaction effects. When fix is set a drifted balance is overwritten.
func (e *Engine) Reconcile(ctx context.Context, accountID string, fix bool) (*Drift, error) {
	var drift *Drift

	err := e.run(ctx, "reconcile", func(ctx context.Context, tx Tx) error {
		acc, err := tx.GetAccountForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		computed, err := tx.SumEffects(ctx, accountID)
		if err != nil {
			return err
		}

		drift = &Drift{AccountID: accountID, Stored: acc.Balance, Computed: computed}
		if drift.InSync() || !fix {
			return nil
		}

		acc.Balance = computed
		if err := tx.SaveAccountBalance(ctx, acc); err != nil {
			return err
		}
		drift.Fixed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if drift.Fixed {
		e.logger.Warn("balance corrected", "account", accountID, "stored", drift.Stored, "computed", drift.Computed)
	}
	return drift, nil
}

// run executes fn in a bounded unit of work with tracing and metrics.
func (e *Engine) run(ctx context.Context, op string, fn func(ctx context.Context, tx Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.OpTimeout)
	defer cancel()

	ctx, span := ledgerTracer.Start(ctx, "ledger."+op, trace.WithAttributes(
		attribute.String("ledger.operation", op),
	))
	defer span.End()

	start := time.Now()
	err := e.store.WithinTx(ctx, fn)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%w after %s: %v", ErrTimeout, e.cfg.OpTimeout, err)
	}

	outcome := outcomeOf(err)
	attrs := metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	)
	opDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	opTotal.Add(ctx, 1, attrs)

	if err != nil {
		span.RecordError(err)
		if outcome == "error" {
			span.SetStatus(codes.Error, err.Error())
		}
	}
	return err
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrInvalidTransfer),
		errors.Is(err, ErrAccountNotOwned),
		errors.Is(err, ErrAccountInactive),
		errors.Is(err, ErrTransactionNotFound),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidKind),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, account.ErrAccountNotFound):
		return "rejected"
	default:
		return "error"
	}
}

func ownedTransaction(ctx context.Context, tx Tx, userID int64, txID string) (*Transaction, error) {
	t, err := tx.GetTransactionForUpdate(ctx, txID)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, ErrTransactionNotFound
	}
	return t, nil
}

// lockAccounts locks each distinct account in ascending ID order. The set is
// keyed by the stored account ID, so two spellings of one account share a
// single entry. Accounts that do not exist are left out of the returned set.
func lockAccounts(ctx context.Context, tx Tx, ids []string) (Accounts, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Strings(unique)

	set := make(Accounts, len(unique))
	for _, id := range unique {
		acc, err := tx.GetAccountForUpdate(ctx, id)
		if errors.Is(err, account.ErrAccountNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if _, dup := set[acc.ID]; dup {
			continue
		}
		set[acc.ID] = acc
	}
	return set, nil
}

// checkTarget validates the accounts a transaction is about to be applied to.
func checkTarget(set Accounts, userID int64, t *Transaction) error {
	src := set[t.AccountID]
	if src == nil {
		return account.ErrAccountNotFound
	}
	if !src.OwnedBy(userID) {
		return ErrAccountNotOwned
	}
	if !src.IsActive() {
		return ErrAccountInactive
	}

	if dstID := t.DestinationID(); dstID != "" {
		dst := set[dstID]
		switch {
		case dst == nil:
			return fmt.Errorf("%w: destination account not found", ErrInvalidTransfer)
		case !dst.OwnedBy(userID):
			return fmt.Errorf("%w: destination account belongs to another user", ErrInvalidTransfer)
		case !dst.IsActive():
			return fmt.Errorf("%w: destination account is deactivated", ErrInvalidTransfer)
		}
	}
	return nil
}

// checkExisting validates the accounts a stored transaction will be reverted
// from. Deactivated accounts keep their last balance, so they cannot be touched.
func checkExisting(set Accounts, t *Transaction) error {
	for _, id := range t.AccountIDs() {
		acc := set[id]
		if acc == nil {
			return fmt.Errorf("%w: %s", account.ErrAccountNotFound, id)
		}
		if !acc.IsActive() {
			return ErrAccountInactive
		}
	}
	return nil
}

func saveBalances(ctx context.Context, tx Tx, set Accounts) error {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if err := tx.SaveAccountBalance(ctx, set[id]); err != nil {
			return err
		}
	}
	return nil
}
