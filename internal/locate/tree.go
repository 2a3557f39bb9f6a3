package locate

// PlaceCount is a named place and the number of photos resolved to it.
type PlaceCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AreaCount is an area with its places in first-seen order. Places may be
// empty: an area with no named places still appears in the tree.
type AreaCount struct {
	Name   string       `json:"name"`
	Places []PlaceCount `json:"places"`
}

// Tree is the aggregated location of one directory. Areas keep first-seen
// order. A nil *Tree means the location could not be determined.
type Tree struct {
	Country string      `json:"country"`
	Areas   []AreaCount `json:"areas"`
}

// Area returns the named area, or nil.
func (t *Tree) Area(name string) *AreaCount {
	if t == nil {
		return nil
	}
	for i := range t.Areas {
		if t.Areas[i].Name == name {
			return &t.Areas[i]
		}
	}
	return nil
}

// Count returns how many photos resolved to place within area.
func (t *Tree) Count(area, place string) int {
	a := t.Area(area)
	if a == nil {
		return 0
	}
	for _, p := range a.Places {
		if p.Name == place {
			return p.Count
		}
	}
	return 0
}

// AreaNames lists areas in first-seen order.
func (t *Tree) AreaNames() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.Areas))
	for _, a := range t.Areas {
		names = append(names, a.Name)
	}
	return names
}

// Clone returns a deep copy.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	out := &Tree{Country: t.Country, Areas: make([]AreaCount, len(t.Areas))}
	for i, a := range t.Areas {
		out.Areas[i] = AreaCount{Name: a.Name, Places: append([]PlaceCount{}, a.Places...)}
	}
	return out
}
