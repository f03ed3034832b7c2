package category

import (
	"errors"
	"strings"
	"time"
)

// Type separates income categories from expense categories.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrForbidden         = errors.New("forbidden: category does not belong to user")
	ErrCategoryInUse     = errors.New("category is referenced by transactions")
	ErrDuplicateCategory = errors.New("category with this name and type already exists")
	ErrInvalidType       = errors.New("category type must be 'income' or 'expense'")
	ErrInvalidInput      = errors.New("invalid input")
)

const maxNameLength = 100

type Category struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"-"`
	Name      string    `json:"name"`
	Type      Type      `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateCategoryParams struct {
	Name string
	Type Type
}

func (p *CreateCategoryParams) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return errors.New("name is required")
	}
	if len([]rune(p.Name)) > maxNameLength {
		return errors.New("name must be 100 characters or less")
	}
	if !p.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

type UpdateCategoryParams struct {
	Name *string
	Type *Type
}

func (p *UpdateCategoryParams) Validate() error {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return errors.New("name cannot be empty")
		}
		if len([]rune(name)) > maxNameLength {
			return errors.New("name must be 100 characters or less")
		}
		p.Name = &name
	}
	if p.Type != nil && !p.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

var (
	defaultIncome  = []string{"월급", "상여", "부수입", "금융소득", "용돈", "기타"}
	defaultExpense = []string{"식비", "교통비", "문화생활", "생활용품", "주거/통신", "패션/미용", "헬스케어", "교육", "기타"}
)

// Defaults returns the categories every new user starts with.
func Defaults() []CreateCategoryParams {
	out := make([]CreateCategoryParams, 0, len(defaultIncome)+len(defaultExpense))
	for _, name := range defaultIncome {
		out = append(out, CreateCategoryParams{Name: name, Type: TypeIncome})
	}
	for _, name := range defaultExpense {
		out = append(out, CreateCategoryParams{Name: name, Type: TypeExpense})
	}
	return out
}
