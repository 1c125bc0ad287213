package models

import "testing"

func TestID_Valid(t *testing.T) {
	if NoID.Valid() {
		t.Error("NoID should not be valid")
	}
	if !ID(1).Valid() {
		t.Error("ID(1) should be valid")
	}
}

func TestDwelling_SetID(t *testing.T) {
	var d Dwelling
	if d.ID.Valid() {
		t.Error("zero-value Dwelling should have an invalid ID")
	}
	d.SetID(7)
	if d.ID != 7 {
		t.Errorf("ID = %d, want 7", d.ID)
	}
}
