package models

// Money is an amount stamped with the date it was created on. Amounts
// from different dates are not comparable until run through a
// currency.Converter.
type Money struct {
	Amount      float32
	WhenCreated Date
}

// NewMoney builds a Money value.
func NewMoney(amount float32, when Date) Money {
	return Money{Amount: amount, WhenCreated: when}
}
