package models

// Tenure describes a household's relationship to its dwelling.
type Tenure string

const (
	TenureOwn   Tenure = "OWN"
	TenureRent  Tenure = "RENT"
	TenureOther Tenure = "OTHER"
)

// Household is an ordered group of families sharing a dwelling. DwellingID
// is NoID when the household currently has no dwelling.
type Household struct {
	ID         ID
	FamilyIDs  []ID
	Tenure     Tenure
	DwellingID ID
}

// ContainedPersons sums family sizes across the household. famSize looks
// up a family's size by ID (normally simcontext.Context.FamilySize).
func (h *Household) ContainedPersons(famSize func(ID) int) int {
	total := 0
	for _, fid := range h.FamilyIDs {
		total += famSize(fid)
	}
	return total
}

// HasDwelling reports whether the household currently occupies a dwelling.
func (h *Household) HasDwelling() bool {
	return h.DwellingID.Valid()
}

// SetID assigns the repository-issued ID. Called once, by Repository.AddNew.
func (h *Household) SetID(id ID) {
	h.ID = id
}
