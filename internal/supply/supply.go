// Package supply implements the yearly new-construction generator:
// before the first monthly clear of each year, it draws a configured
// number of new dwellings into the dwelling repository.
package supply

import (
	"github.com/vtuos/housingmarket/internal/models"
	"github.com/vtuos/housingmarket/internal/rng"
	"github.com/vtuos/housingmarket/internal/simcontext"
)

// typeWeights is the categorical distribution new dwellings are drawn
// from.
var typeWeights = []struct {
	t models.DwellingType
	w float64
}{
	{models.Detached, 0.40},
	{models.SemiDetached, 0.20},
	{models.Attached, 0.20},
	{models.ApartmentLow, 0.15},
	{models.ApartmentHigh, 0.05},
}

// roomRange is the type-dependent uniform room-count range a new
// dwelling's size is drawn from.
var roomRange = map[models.DwellingType][2]int{
	models.Detached:     {3, 6},
	models.SemiDetached:  {2, 5},
	models.Attached:      {2, 4},
	models.ApartmentLow:  {1, 3},
	models.ApartmentHigh: {1, 2},
}

const (
	baseValue         = 87000
	valuePerYearAbove = 50000
	baseYear          = 1986
	zoneCount         = 5
)

// Generate draws count new dwellings for the given year and inserts
// them into the repository, unowned and unlisted.
func Generate(sc *simcontext.Context, stream *rng.Stream, year, count int) {
	value := baseValue
	if year > baseYear {
		value += valuePerYearAbove * (year - baseYear)
	}
	valueDate := models.NewDate(year, 0)

	for i := 0; i < count; i++ {
		t := sampleType(stream)
		rng2 := roomRange[t]
		rooms := rng2[0]
		if rng2[1] > rng2[0] {
			rooms += stream.Intn(rng2[1] - rng2[0] + 1)
		}
		sqft := float64(rooms*200) + stream.Float64()*float64(rooms*200)

		zone := stream.Intn(zoneCount)

		sc.Dwellings.AddNew(&models.Dwelling{
			Exists:           true,
			Type:             t,
			Rooms:            rooms,
			SquareFootage:    sqft,
			Zone:             zone,
			Value:            models.NewMoney(float32(value), valueDate),
			CurrentHousehold: models.NoID,
			Listed:           false,
		})
	}
}

func sampleType(stream *rng.Stream) models.DwellingType {
	draw := stream.Float64()
	var cumulative float64
	for _, tw := range typeWeights {
		cumulative += tw.w
		if draw < cumulative {
			return tw.t
		}
	}
	return typeWeights[len(typeWeights)-1].t
}
