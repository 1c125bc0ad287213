package currency

import (
	"errors"
	"testing"

	"github.com/vtuos/housingmarket/internal/models"
)

func TestConvert_EmptyConverterPassesThroughUnchanged(t *testing.T) {
	c := NewEmptyConverter()
	m := models.NewMoney(1000, models.NewDate(2000, 0))

	got, err := c.Convert(m, models.NewDate(2005, 6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Amount != 1000 {
		t.Errorf("Amount = %v, want 1000", got.Amount)
	}
	if got.WhenCreated != models.NewDate(2005, 6) {
		t.Errorf("WhenCreated = %v, want 2005-07", got.WhenCreated)
	}
}

func TestConvert_ScalesByRateRatio(t *testing.T) {
	from := models.NewDate(2000, 0)
	to := models.NewDate(2001, 0)
	c := NewConverter(map[int]float64{
		from.MonthsSinceEpoch(): 1.0,
		to.MonthsSinceEpoch():   1.1,
	})

	got, err := c.Convert(models.NewMoney(1000, from), to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := float32(1100); got.Amount != want {
		t.Errorf("Amount = %v, want %v", got.Amount, want)
	}
}

func TestConvert_MissingRateErrors(t *testing.T) {
	from := models.NewDate(2000, 0)
	to := models.NewDate(2001, 0)
	c := NewConverter(map[int]float64{from.MonthsSinceEpoch(): 1.0})

	_, err := c.Convert(models.NewMoney(1000, from), to)
	if err == nil {
		t.Fatal("expected error for missing destination rate")
	}
	var missing *MissingRateError
	if !errors.As(err, &missing) {
		t.Errorf("error = %v, want *MissingRateError", err)
	}
}
