// Package currency converts Money values created at one date to their
// equivalent at another, via a monthly inflation index.
package currency

import (
	"fmt"

	"github.com/vtuos/housingmarket/internal/models"
)

// MissingRateError is returned when either endpoint of a conversion has
// no configured inflation rate.
type MissingRateError struct {
	Month int
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("currency: missing inflation rate for month %d", e.Month)
}

// Converter holds an inflation rate indexed by absolute month number
// (Date.MonthsSinceEpoch). A Converter with no configured rates passes
// amounts through unchanged, just re-stamping the date: the documented
// behavior when no inflation series is supplied.
type Converter struct {
	rates map[int]float64
}

// NewConverter builds a Converter from a month -> rate series.
func NewConverter(rates map[int]float64) *Converter {
	c := &Converter{rates: make(map[int]float64, len(rates))}
	for m, r := range rates {
		c.rates[m] = r
	}
	return c
}

// NewEmptyConverter builds a Converter with no configured rates; Convert
// will pass amounts through unchanged.
func NewEmptyConverter() *Converter {
	return &Converter{rates: map[int]float64{}}
}

func (c *Converter) rate(d models.Date) float64 {
	return c.rates[d.MonthsSinceEpoch()]
}

// Convert scales m to the equivalent amount at date `to`.
func (c *Converter) Convert(m models.Money, to models.Date) (models.Money, error) {
	if len(c.rates) == 0 {
		return models.NewMoney(m.Amount, to), nil
	}

	toRate := c.rate(to)
	fromRate := c.rate(m.WhenCreated)
	if toRate == 0 {
		return models.Money{}, &MissingRateError{Month: to.MonthsSinceEpoch()}
	}
	if fromRate == 0 {
		return models.Money{}, &MissingRateError{Month: m.WhenCreated.MonthsSinceEpoch()}
	}

	scaled := m.Amount * float32(toRate/fromRate)
	return models.NewMoney(scaled, to), nil
}
