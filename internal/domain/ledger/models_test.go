package ledger

import (
	"errors"
	"testing"
	"time"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		name    string
		dest    string
		want    Kind
		wantErr bool
	}{
		{name: "deposit", dest: "ignored", want: Deposit{}},
		{name: "withdrawal", want: Withdrawal{}},
		{name: "transfer", dest: "acc-2", want: Transfer{DestinationID: "acc-2"}},
		{name: "Deposit", wantErr: true},
		{name: "refund", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKind(tt.name, tt.dest)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidKind) {
					t.Fatalf("ParseKind(%q) error = %v, want %v", tt.name, err, ErrInvalidKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKind(%q) error = %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %#v, want %#v", tt.name, got, tt.want)
			}
		})
	}
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		amount  string
		wantErr bool
	}{
		{"0.01", false},
		{"1", false},
		{"12.5", false},
		{"9999999999999.99", false},
		{"0", true},
		{"0.009", true},
		{"-5.00", true},
		{"1.001", true},
		{"10000000000000.00", true},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			err := ValidateAmount(d(tt.amount))
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAmount(%s) error = %v, wantErr %v", tt.amount, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("ValidateAmount(%s) error = %v, want %v", tt.amount, err, ErrInvalidAmount)
			}
		})
	}
}

func TestUpdateParams_ApplyTo(t *testing.T) {
	orig := &Transaction{
		ID:        "tx-1",
		UserID:    1,
		AccountID: "acc-a",
		Kind:      Transfer{DestinationID: "acc-b"},
		Amount:    d("10.00"),
		Currency:  "KRW",
	}

	t.Run("keeps destination when only amount changes", func(t *testing.T) {
		next, err := UpdateParams{Amount: ptr(d("20.00"))}.applyTo(orig)
		if err != nil {
			t.Fatalf("applyTo() error = %v", err)
		}
		if next.DestinationID() != "acc-b" {
			t.Errorf("DestinationID = %q, want acc-b", next.DestinationID())
		}
		if !orig.Amount.Equal(d("10.00")) {
			t.Error("original transaction mutated")
		}
	})

	t.Run("changes destination only", func(t *testing.T) {
		next, err := UpdateParams{DestinationID: ptr("acc-c")}.applyTo(orig)
		if err != nil {
			t.Fatalf("applyTo() error = %v", err)
		}
		if next.DestinationID() != "acc-c" {
			t.Errorf("DestinationID = %q, want acc-c", next.DestinationID())
		}
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := UpdateParams{KindName: ptr("loan")}.applyTo(orig)
		if !errors.Is(err, ErrInvalidKind) {
			t.Errorf("applyTo() error = %v, want %v", err, ErrInvalidKind)
		}
	})

	t.Run("uppercases currency", func(t *testing.T) {
		next, _ := UpdateParams{Currency: ptr("usd")}.applyTo(orig)
		if next.Currency != "USD" {
			t.Errorf("Currency = %q, want USD", next.Currency)
		}
	})
}

func TestCanonicalID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"7f1c2a3e-8b4d-4c5e-9f60-112233445566", "7f1c2a3e-8b4d-4c5e-9f60-112233445566"},
		{"7F1C2A3E-8B4D-4C5E-9F60-112233445566", "7f1c2a3e-8b4d-4c5e-9f60-112233445566"},
		{" 7F1C2A3E8B4D4C5E9F60112233445566 ", "7f1c2a3e-8b4d-4c5e-9f60-112233445566"},
		{"acc-a", "acc-a"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CanonicalID(tt.in); got != tt.want {
				t.Errorf("CanonicalID(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTransaction_ValidateCurrency(t *testing.T) {
	for _, c := range []string{"KRW", "USD"} {
		tx := &Transaction{UserID: 1, AccountID: "acc-a", Kind: Deposit{}, Amount: d("1.00"), Currency: c}
		if err := tx.Validate(); err != nil {
			t.Errorf("Validate() with %q error = %v", c, err)
		}
	}
	for _, c := range []string{"123", "$$$", "KR", "krw", "KRWX", "K1W"} {
		tx := &Transaction{UserID: 1, AccountID: "acc-a", Kind: Deposit{}, Amount: d("1.00"), Currency: c}
		if err := tx.Validate(); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Validate() with %q error = %v, want %v", c, err, ErrInvalidInput)
		}
	}
}

func TestListFilter_Normalize(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		filter    ListFilter
		wantErr   bool
		wantLimit int
	}{
		{name: "defaults", filter: ListFilter{}, wantLimit: DefaultListLimit},
		{name: "caps limit", filter: ListFilter{Limit: 10000}, wantLimit: MaxListLimit},
		{name: "bad kind", filter: ListFilter{KindName: "refund"}, wantErr: true},
		{name: "inverted amounts", filter: ListFilter{MinAmount: ptr(d("10")), MaxAmount: ptr(d("1"))}, wantErr: true},
		{name: "inverted dates", filter: ListFilter{StartDate: &start, EndDate: &end}, wantErr: true},
		{name: "negative offset", filter: ListFilter{Offset: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.filter
			err := f.Normalize()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && f.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", f.Limit, tt.wantLimit)
			}
		})
	}
}
