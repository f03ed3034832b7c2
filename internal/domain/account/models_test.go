package account

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCreateParams_Validate(t *testing.T) {
	valid := CreateParams{ID: "acc-1", UserID: 1, Name: "Main", BankName: "Woori", AccountNumber: "1002-123"}

	tests := []struct {
		name    string
		mutate  func(p *CreateParams)
		wantErr bool
	}{
		{name: "valid", mutate: func(p *CreateParams) {}},
		{name: "missing id", mutate: func(p *CreateParams) { p.ID = "" }, wantErr: true},
		{name: "missing name", mutate: func(p *CreateParams) { p.Name = "" }, wantErr: true},
		{name: "long name", mutate: func(p *CreateParams) { p.Name = strings.Repeat("가", 101) }, wantErr: true},
		{name: "name at limit", mutate: func(p *CreateParams) { p.Name = strings.Repeat("가", 100) }},
		{name: "long account number", mutate: func(p *CreateParams) { p.AccountNumber = strings.Repeat("1", 51) }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAccount_Clone(t *testing.T) {
	orig := &Account{ID: "a", Balance: decimal.NewFromInt(100)}
	c := orig.Clone()
	c.Balance = c.Balance.Add(decimal.NewFromInt(1))

	if !orig.Balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("original balance mutated to %s", orig.Balance)
	}
}
