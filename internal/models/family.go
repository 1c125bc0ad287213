package models

// Family is an ordered group of persons sharing finances within a
// household. FemaleHead is NoID when the family has no designated female
// head.
type Family struct {
	ID          ID
	PersonIDs   []ID
	FemaleHead  ID
	Savings     float64
	LiquidAssets float64
	HouseholdID ID
}

// Size returns the number of persons in the family.
func (f *Family) Size() int {
	return len(f.PersonIDs)
}

// SetID assigns the repository-issued ID. Called once, by Repository.AddNew.
func (f *Family) SetID(id ID) {
	f.ID = id
}
