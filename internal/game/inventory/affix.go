package inventory

import "fmt"

// SecondaryStat names one of the three diminishing-returns stats.
type SecondaryStat string

// SecondaryStat constants.
const (
	StatCritical SecondaryStat = "critical"
	StatHaste    SecondaryStat = "haste"
	StatMastery  SecondaryStat = "mastery"
)

// Affix is a named modifier granting exactly two secondary stats.
type Affix struct {
	Name  string
	Stats [2]SecondaryStat
}

var affixTable = []Affix{
	{Name: "of the Tiger", Stats: [2]SecondaryStat{StatCritical, StatHaste}},
	{Name: "of the Wolf", Stats: [2]SecondaryStat{StatCritical, StatMastery}},
	{Name: "of the Eagle", Stats: [2]SecondaryStat{StatHaste, StatMastery}},
}

// Affixes returns every known affix.
func Affixes() []Affix {
	out := make([]Affix, len(affixTable))
	copy(out, affixTable)
	return out
}

// LookupAffix returns the affix named name.
func LookupAffix(name string) (Affix, bool) {
	for _, a := range affixTable {
		if a.Name == name {
			return a, true
		}
	}
	return Affix{}, false
}

// MustAffix returns the affix named name or panics.
func MustAffix(name string) Affix {
	a, ok := LookupAffix(name)
	if !ok {
		panic(fmt.Sprintf("inventory: unknown affix %q", name))
	}
	return a
}

// SecondaryStats holds flat secondary stat points.
type SecondaryStats struct {
	Critical float64 `json:"critical"`
	Haste    float64 `json:"haste"`
	Mastery  float64 `json:"mastery"`
}

// Add credits v points to stat.
func (s *SecondaryStats) Add(stat SecondaryStat, v float64) {
	switch stat {
	case StatCritical:
		s.Critical += v
	case StatHaste:
		s.Haste += v
	case StatMastery:
		s.Mastery += v
	default:
		panic(fmt.Sprintf("inventory: unknown secondary stat %q", stat))
	}
}
