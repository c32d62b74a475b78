package models

// Region is a trade-bloc label derived from a country code.
type Region string

const (
	RegionSADC  Region = "SADC"
	RegionEU    Region = "EU"
	RegionAsia  Region = "Asia"
	RegionOther Region = "Other"
)

// Regions lists every region in classification priority order, Other last.
var Regions = []Region{RegionSADC, RegionEU, RegionAsia, RegionOther}

// Rank returns the position of r in Regions, used for deterministic ordering.
// Unknown labels sort after Other.
func (r Region) Rank() int {
	for i, candidate := range Regions {
		if candidate == r {
			return i
		}
	}
	return len(Regions)
}

// String returns the region label.
func (r Region) String() string {
	return string(r)
}
