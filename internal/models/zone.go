package models

// LandUse holds the share of a zone's area devoted to each use. Shares
// are not required to sum to 1; the core only reads them as independent
// covariates.
type LandUse struct {
	Residential float64
	Commercial  float64
	Open        float64
	Industrial  float64
}

// ZoneSystem is a bijection between contiguous internal zone indices
// (0..N-1, used everywhere inside the core) and the external zone
// numbers the surrounding simulation assigns.
type ZoneSystem struct {
	externalByInternal []int
	internalByExternal map[int]int
}

// NewZoneSystem builds a ZoneSystem over the given external zone numbers;
// the internal index of externals[i] is i.
func NewZoneSystem(externals []int) *ZoneSystem {
	zs := &ZoneSystem{
		externalByInternal: append([]int(nil), externals...),
		internalByExternal: make(map[int]int, len(externals)),
	}
	for i, ext := range externals {
		zs.internalByExternal[ext] = i
	}
	return zs
}

// Count returns the number of zones.
func (zs *ZoneSystem) Count() int {
	return len(zs.externalByInternal)
}

// External maps an internal zone index to its external zone number.
func (zs *ZoneSystem) External(internal int) (int, bool) {
	if internal < 0 || internal >= len(zs.externalByInternal) {
		return 0, false
	}
	return zs.externalByInternal[internal], true
}

// Internal maps an external zone number to its internal zone index.
func (zs *ZoneSystem) Internal(external int) (int, bool) {
	idx, ok := zs.internalByExternal[external]
	return idx, ok
}
