package locate

// CountryPolicy decides the tree country when photos disagree.
type CountryPolicy string

const (
	// CountryFirst keeps the country of the first record that has one.
	CountryFirst CountryPolicy = "first"
	// CountryMajority keeps the most frequent country; ties go to the one seen first.
	CountryMajority CountryPolicy = "majority"
)

// Accumulator builds a Tree from per-photo records.
type Accumulator struct {
	policy       CountryPolicy
	areas        []AreaCount
	areaIndex    map[string]int
	placeIndex   []map[string]int
	countryOrder []string
	countryVotes map[string]int
	samples      int
}

// NewAccumulator returns an empty accumulator. Unknown policies fall back to
// CountryFirst.
func NewAccumulator(policy CountryPolicy) *Accumulator {
	if policy != CountryMajority {
		policy = CountryFirst
	}
	return &Accumulator{
		policy:       policy,
		areaIndex:    make(map[string]int),
		countryVotes: make(map[string]int),
	}
}

// Add folds rec into the tree. Records without a country are discarded and
// Add reports false. A record with a country but no area only votes for the
// country.
func (a *Accumulator) Add(rec Record) bool {
	if !rec.HasCountry() {
		return false
	}
	a.samples++
	if _, seen := a.countryVotes[rec.Country]; !seen {
		a.countryOrder = append(a.countryOrder, rec.Country)
	}
	a.countryVotes[rec.Country]++

	if rec.Area == "" {
		return true
	}
	a.EnsureArea(rec.Area)
	if rec.Place != "" {
		a.IncrementPlace(rec.Area, rec.Place)
	}
	return true
}

// EnsureArea creates area with no places if it has not been seen.
func (a *Accumulator) EnsureArea(area string) {
	if _, ok := a.areaIndex[area]; ok {
		return
	}
	a.areaIndex[area] = len(a.areas)
	a.areas = append(a.areas, AreaCount{Name: area, Places: []PlaceCount{}})
	a.placeIndex = append(a.placeIndex, make(map[string]int))
}

// IncrementPlace adds one occurrence of place under area, creating either as
// needed.
func (a *Accumulator) IncrementPlace(area, place string) {
	a.EnsureArea(area)
	idx := a.areaIndex[area]
	places := a.placeIndex[idx]
	if p, ok := places[place]; ok {
		a.areas[idx].Places[p].Count++
		return
	}
	places[place] = len(a.areas[idx].Places)
	a.areas[idx].Places = append(a.areas[idx].Places, PlaceCount{Name: place, Count: 1})
}

// Samples returns how many records carried a country.
func (a *Accumulator) Samples() int { return a.samples }

// Countries returns the distinct countries seen, first-seen order.
func (a *Accumulator) Countries() []string {
	return append([]string(nil), a.countryOrder...)
}

// Tree returns the aggregated tree, or nil when no record had a country.
func (a *Accumulator) Tree() *Tree {
	if len(a.countryOrder) == 0 {
		return nil
	}
	tree := &Tree{Country: a.country(), Areas: make([]AreaCount, len(a.areas))}
	for i, area := range a.areas {
		tree.Areas[i] = AreaCount{Name: area.Name, Places: append([]PlaceCount{}, area.Places...)}
	}
	return tree
}

func (a *Accumulator) country() string {
	winner := a.countryOrder[0]
	if a.policy != CountryMajority {
		return winner
	}
	for _, c := range a.countryOrder[1:] {
		if a.countryVotes[c] > a.countryVotes[winner] {
			winner = c
		}
	}
	return winner
}
