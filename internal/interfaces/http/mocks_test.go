package http

import (
	"context"
	"time"

	"household/internal/domain/account"
	"household/internal/domain/analysis"
	"household/internal/domain/category"
	"household/internal/domain/ledger"
	"household/internal/domain/notification"
	"household/internal/domain/user"
	"household/internal/interfaces/scheduler"
	"household/internal/shared/middleware"
)

func withUser(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, middleware.UserIDKey, userID)
}

// MockAccountRepo implements account.Repository for testing
type MockAccountRepo struct {
	CreateFunc       func(ctx context.Context, params account.CreateParams) (*account.Account, error)
	GetByIDFunc      func(ctx context.Context, id string) (*account.Account, error)
	ListByUserIDFunc func(ctx context.Context, userID int64, includeInactive bool) ([]*account.Account, error)
	SetStatusFunc    func(ctx context.Context, id string, status account.Status) (*account.Account, error)
}

func (m *MockAccountRepo) Create(ctx context.Context, params account.CreateParams) (*account.Account, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockAccountRepo) GetByID(ctx context.Context, id string) (*account.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, account.ErrAccountNotFound
}

func (m *MockAccountRepo) ListByUserID(ctx context.Context, userID int64, includeInactive bool) ([]*account.Account, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID, includeInactive)
	}
	return nil, nil
}

func (m *MockAccountRepo) SetStatus(ctx context.Context, id string, status account.Status) (*account.Account, error) {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, id, status)
	}
	return nil, nil
}

// MockCategoryRepo implements category.Repository for testing
type MockCategoryRepo struct {
	CreateFunc       func(ctx context.Context, userID int64, params category.CreateCategoryParams) (*category.Category, error)
	GetByIDFunc      func(ctx context.Context, id string) (*category.Category, error)
	ListByUserIDFunc func(ctx context.Context, userID int64, typ category.Type) ([]*category.Category, error)
	UpdateFunc       func(ctx context.Context, id string, params category.UpdateCategoryParams) (*category.Category, error)
	DeleteFunc       func(ctx context.Context, id string) error
}

func (m *MockCategoryRepo) Create(ctx context.Context, userID int64, params category.CreateCategoryParams) (*category.Category, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, params)
	}
	return nil, nil
}

func (m *MockCategoryRepo) GetByID(ctx context.Context, id string) (*category.Category, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, category.ErrCategoryNotFound
}

func (m *MockCategoryRepo) ListByUserID(ctx context.Context, userID int64, typ category.Type) ([]*category.Category, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID, typ)
	}
	return nil, nil
}

func (m *MockCategoryRepo) Update(ctx context.Context, id string, params category.UpdateCategoryParams) (*category.Category, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, nil
}

func (m *MockCategoryRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockUserRepo implements user.Repository for testing
type MockUserRepo struct {
	CreateFunc     func(ctx context.Context, params user.CreateUserParams, categories []category.CreateCategoryParams) (*user.User, error)
	GetByIDFunc    func(ctx context.Context, id int64) (*user.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*user.User, error)
	ListActiveFunc func(ctx context.Context) ([]*user.User, error)
}

func (m *MockUserRepo) Create(ctx context.Context, params user.CreateUserParams, categories []category.CreateCategoryParams) (*user.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params, categories)
	}
	return nil, nil
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, user.ErrUserNotFound
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, user.ErrUserNotFound
}

func (m *MockUserRepo) ListActive(ctx context.Context) ([]*user.User, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return nil, nil
}

// MockNotificationRepo implements notification.Repository for testing
type MockNotificationRepo struct {
	CreateFunc     func(ctx context.Context, params notification.CreateNotificationParams) (*notification.Notification, error)
	ListUnreadFunc func(ctx context.Context, userID int64) ([]*notification.Notification, error)
	MarkReadFunc   func(ctx context.Context, id, userID int64) error
}

func (m *MockNotificationRepo) Create(ctx context.Context, params notification.CreateNotificationParams) (*notification.Notification, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockNotificationRepo) ListUnread(ctx context.Context, userID int64) ([]*notification.Notification, error) {
	if m.ListUnreadFunc != nil {
		return m.ListUnreadFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockNotificationRepo) MarkRead(ctx context.Context, id, userID int64) error {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, id, userID)
	}
	return nil
}

// MockAnalysisRepo implements analysis.Repository for testing
type MockAnalysisRepo struct {
	TotalsFunc  func(ctx context.Context, userID int64, from, until time.Time) (analysis.Totals, error)
	UpsertFunc  func(ctx context.Context, a *analysis.SpendingAnalysis) (bool, error)
	GetByIDFunc func(ctx context.Context, id int64) (*analysis.SpendingAnalysis, error)
	ListFunc    func(ctx context.Context, userID int64, typ analysis.Type, limit int) ([]*analysis.SpendingAnalysis, error)
}

func (m *MockAnalysisRepo) Totals(ctx context.Context, userID int64, from, until time.Time) (analysis.Totals, error) {
	if m.TotalsFunc != nil {
		return m.TotalsFunc(ctx, userID, from, until)
	}
	return analysis.Totals{}, nil
}

func (m *MockAnalysisRepo) Upsert(ctx context.Context, a *analysis.SpendingAnalysis) (bool, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, a)
	}
	return false, nil
}

func (m *MockAnalysisRepo) GetByID(ctx context.Context, id int64) (*analysis.SpendingAnalysis, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, analysis.ErrAnalysisNotFound
}

func (m *MockAnalysisRepo) List(ctx context.Context, userID int64, typ analysis.Type, limit int) ([]*analysis.SpendingAnalysis, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, typ, limit)
	}
	return nil, nil
}

// MockLedger implements Ledger for testing
type MockLedger struct {
	CreateFunc func(ctx context.Context, userID int64, p ledger.CreateParams) (*ledger.Transaction, error)
	UpdateFunc func(ctx context.Context, userID int64, txID string, p ledger.UpdateParams) (*ledger.Transaction, error)
	DeleteFunc func(ctx context.Context, userID int64, txID string) error
	GetFunc    func(ctx context.Context, userID int64, txID string) (*ledger.Transaction, error)
	ListFunc   func(ctx context.Context, userID int64, filter ledger.ListFilter) ([]*ledger.Transaction, error)
}

func (m *MockLedger) Create(ctx context.Context, userID int64, p ledger.CreateParams) (*ledger.Transaction, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, p)
	}
	return nil, nil
}

func (m *MockLedger) Update(ctx context.Context, userID int64, txID string, p ledger.UpdateParams) (*ledger.Transaction, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, userID, txID, p)
	}
	return nil, nil
}

func (m *MockLedger) Delete(ctx context.Context, userID int64, txID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, txID)
	}
	return nil
}

func (m *MockLedger) Get(ctx context.Context, userID int64, txID string) (*ledger.Transaction, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID, txID)
	}
	return nil, ledger.ErrTransactionNotFound
}

func (m *MockLedger) List(ctx context.Context, userID int64, filter ledger.ListFilter) ([]*ledger.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, filter)
	}
	return nil, nil
}

// MockCategoryOwnership implements CategoryOwnership for testing
type MockCategoryOwnership struct {
	EnsureOwnedFunc func(ctx context.Context, id string, userID int64) error
}

func (m *MockCategoryOwnership) EnsureOwned(ctx context.Context, id string, userID int64) error {
	if m.EnsureOwnedFunc != nil {
		return m.EnsureOwnedFunc(ctx, id, userID)
	}
	return nil
}

// MockSubmitter implements JobSubmitter for testing
type MockSubmitter struct {
	SubmitFunc func(job scheduler.Job) error
	Jobs       []scheduler.Job
}

func (m *MockSubmitter) Submit(job scheduler.Job) error {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(job)
	}
	m.Jobs = append(m.Jobs, job)
	return nil
}

// MockPinger implements Pinger for testing
type MockPinger struct {
	Err error
}

func (m *MockPinger) PingContext(ctx context.Context) error {
	return m.Err
}
