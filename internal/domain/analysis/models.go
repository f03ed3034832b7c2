package analysis

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeWeekly  Type = "weekly"
	TypeMonthly Type = "monthly"
)

func (t Type) Valid() bool {
	return t == TypeWeekly || t == TypeMonthly
}

// Display returns the label shown to users.
func (t Type) Display() string {
	switch t {
	case TypeWeekly:
		return "주간"
	case TypeMonthly:
		return "월간"
	}
	return string(t)
}

var (
	ErrAnalysisNotFound = errors.New("analysis not found")
	ErrInvalidType      = errors.New("analysis type must be 'weekly' or 'monthly'")
	ErrUserInactive     = errors.New("user is not active")
)

// ParseTypes expands a CLI or API selector into analysis types. "both" and
// the empty string select weekly and monthly.
func ParseTypes(s string) ([]Type, error) {
	switch s {
	case "", "both":
		return []Type{TypeWeekly, TypeMonthly}, nil
	case string(TypeWeekly):
		return []Type{TypeWeekly}, nil
	case string(TypeMonthly):
		return []Type{TypeMonthly}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidType, s)
}

// SpendingAnalysis is one owner's totals over a calendar period.
type SpendingAnalysis struct {
	ID               int64           `json:"id"`
	UserID           int64           `json:"-"`
	Type             Type            `json:"analysisType"`
	StartDate        time.Time       `json:"startDate"`
	EndDate          time.Time       `json:"endDate"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpense     decimal.Decimal `json:"totalExpense"`
	NetAmount        decimal.Decimal `json:"netAmount"`
	TransactionCount int             `json:"transactionCount"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// Period is an inclusive range of calendar days. Start and End are
// midnight in the analysis location.
type Period struct {
	Start time.Time
	End   time.Time
}

// Until returns the exclusive upper bound, midnight after End.
func (p Period) Until() time.Time {
	return p.End.AddDate(0, 0, 1)
}

func (p Period) String() string {
	return p.Start.Format(time.DateOnly) + " ~ " + p.End.Format(time.DateOnly)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekOf returns Monday through Sunday of the week containing ref.
func WeekOf(ref time.Time) Period {
	day := midnight(ref)
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return Period{Start: start, End: start.AddDate(0, 0, 6)}
}

// MonthOf returns the first through last day of the month containing ref.
func MonthOf(ref time.Time) Period {
	y, m, _ := ref.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, ref.Location())
	return Period{Start: start, End: start.AddDate(0, 1, -1)}
}

func PeriodOf(t Type, ref time.Time) (Period, error) {
	switch t {
	case TypeWeekly:
		return WeekOf(ref), nil
	case TypeMonthly:
		return MonthOf(ref), nil
	}
	return Period{}, ErrInvalidType
}

// Totals are the raw sums read for one owner and period. Transfers count
// toward Count only.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Count   int
}

// ComparisonEntry is one row of the comparison view.
type ComparisonEntry struct {
	Period           string          `json:"period"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpense     decimal.Decimal `json:"totalExpense"`
	NetAmount        decimal.Decimal `json:"netAmount"`
	TransactionCount int             `json:"transactionCount"`
}

type Comparison struct {
	Weekly  []ComparisonEntry `json:"weekly"`
	Monthly []ComparisonEntry `json:"monthly"`
}

const (
	comparisonWeeks  = 4
	comparisonMonths = 3
)

// Result summarises one generation run.
type Result struct {
	Users   int
	Created int
	Updated int
	Errors  []error
}
