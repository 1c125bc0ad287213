package supply

import (
	"testing"

	"github.com/vtuos/housingmarket/internal/models"
	"github.com/vtuos/housingmarket/internal/repository"
	"github.com/vtuos/housingmarket/internal/rng"
	"github.com/vtuos/housingmarket/internal/simcontext"
)

func TestGenerate_InsertsUnownedUnlistedDwellings(t *testing.T) {
	dwellings := repository.New[*models.Dwelling]()
	sc := &simcontext.Context{Dwellings: dwellings}
	stream := rng.NewRoot(42)

	Generate(sc, stream, 2000, 25)

	if dwellings.Len() != 25 {
		t.Fatalf("Len() = %d, want 25", dwellings.Len())
	}

	dwellings.Iter(func(_ models.ID, d *models.Dwelling) bool {
		if !d.Exists {
			t.Errorf("dwelling.Exists = false, want true")
		}
		if d.CurrentHousehold != models.NoID {
			t.Errorf("dwelling.CurrentHousehold = %v, want NoID", d.CurrentHousehold)
		}
		if d.Listed {
			t.Errorf("dwelling.Listed = true, want false")
		}
		if d.Rooms <= 0 {
			t.Errorf("dwelling.Rooms = %d, want > 0", d.Rooms)
		}
		// year 2000 is 14 years above the 1986 baseline.
		wantValue := float32(87000 + 50000*14)
		if d.Value.Amount != wantValue {
			t.Errorf("dwelling.Value.Amount = %v, want %v", d.Value.Amount, wantValue)
		}
		return true
	})
}

func TestGenerate_ValueFlooredAtBaseBeforeBaseYear(t *testing.T) {
	dwellings := repository.New[*models.Dwelling]()
	sc := &simcontext.Context{Dwellings: dwellings}
	stream := rng.NewRoot(7)

	Generate(sc, stream, 1970, 1)

	d := dwellings.Get(1)
	if d.Value.Amount != 87000 {
		t.Errorf("dwelling.Value.Amount = %v, want 87000", d.Value.Amount)
	}
}
