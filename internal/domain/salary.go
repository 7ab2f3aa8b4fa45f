package domain

import "fmt"

// Salary is an optional amount with an optional currency. Either part may be absent.
type Salary struct {
	Amount   *int64
	Currency *Currency
}

// NewSalary validates the amount and parses the currency. An unrecognized or
// empty currency is treated as absent.
func NewSalary(amount *int64, currency string) (Salary, error) {
	var s Salary
	if amount != nil {
		if *amount < 0 {
			return Salary{}, invalid("salary", fmt.Sprintf("amount must not be negative, got %d", *amount))
		}
		a := *amount
		s.Amount = &a
	}
	if c, ok := ParseCurrency(currency); ok {
		s.Currency = &c
	}
	return s, nil
}

// Comparable reports whether both amount and currency are present.
func (s Salary) Comparable() bool {
	return s.Amount != nil && s.Currency != nil
}

func (s Salary) IsZero() bool {
	return s.Amount == nil && s.Currency == nil
}

func (s Salary) String() string {
	switch {
	case s.Amount == nil && s.Currency == nil:
		return "unspecified"
	case s.Currency == nil:
		return fmt.Sprintf("%d", *s.Amount)
	case s.Amount == nil:
		return string(*s.Currency)
	}
	return fmt.Sprintf("%d %s", *s.Amount, *s.Currency)
}
