package locate

import (
	"slices"
	"testing"
)

func TestAccumulatorCountsPlaces(t *testing.T) {
	acc := NewAccumulator(CountryFirst)
	for i := 0; i < 3; i++ {
		acc.Add(Record{Country: "Seychelles", Area: "Praslin", Place: "Fond Ferdinand Nature Reserve"})
	}
	tree := acc.Tree()
	if tree == nil {
		t.Fatal("expected tree")
	}
	if got := tree.Count("Praslin", "Fond Ferdinand Nature Reserve"); got != 3 {
		t.Fatalf("count = %d, want 3", got)
	}
	if acc.Samples() != 3 {
		t.Fatalf("samples = %d, want 3", acc.Samples())
	}
}

func TestAccumulatorKeepsEmptyAreasInOrder(t *testing.T) {
	acc := NewAccumulator(CountryFirst)
	acc.Add(Record{Country: "Seychelles", Area: "Praslin", Place: "Anse Lazio"})
	acc.Add(Record{Country: "Seychelles", Area: "La Digue"})
	acc.Add(Record{Country: "Seychelles", Area: "Mahe", Place: "Victoria Market"})
	acc.Add(Record{Country: "Seychelles", Area: "Praslin", Place: "Anse Lazio"})

	tree := acc.Tree()
	if got := tree.AreaNames(); !slices.Equal(got, []string{"Praslin", "La Digue", "Mahe"}) {
		t.Fatalf("areas = %v", got)
	}
	digue := tree.Area("La Digue")
	if digue == nil || len(digue.Places) != 0 {
		t.Fatalf("expected empty La Digue area, got %+v", digue)
	}
	if tree.Count("Praslin", "Anse Lazio") != 2 {
		t.Fatalf("unexpected Praslin counts %+v", tree.Area("Praslin"))
	}
}

func TestAccumulatorDiscardsCountrylessRecords(t *testing.T) {
	acc := NewAccumulator(CountryFirst)
	if acc.Add(Record{Area: "Atlantis", Place: "Gate"}) {
		t.Fatal("record without country should be discarded")
	}
	if acc.Tree() != nil {
		t.Fatal("expected nil tree when no record has a country")
	}
}

func TestAccumulatorCountryOnlyRecordSeedsTree(t *testing.T) {
	acc := NewAccumulator(CountryFirst)
	acc.Add(Record{Country: "Antarctica"})
	tree := acc.Tree()
	if tree == nil || tree.Country != "Antarctica" || len(tree.Areas) != 0 {
		t.Fatalf("unexpected tree %+v", tree)
	}
}

func TestAccumulatorCountryPolicy(t *testing.T) {
	records := []Record{
		{Country: "France", Area: "Menton"},
		{Country: "Monaco", Area: "Monte Carlo"},
		{Country: "Monaco", Area: "Monte Carlo"},
	}
	tests := []struct {
		policy CountryPolicy
		want   string
	}{
		{policy: CountryFirst, want: "France"},
		{policy: CountryMajority, want: "Monaco"},
		{policy: "bogus", want: "France"},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			acc := NewAccumulator(tt.policy)
			for _, rec := range records {
				acc.Add(rec)
			}
			tree := acc.Tree()
			if tree.Country != tt.want {
				t.Fatalf("country = %q, want %q", tree.Country, tt.want)
			}
			if !slices.Equal(tree.AreaNames(), []string{"Menton", "Monte Carlo"}) {
				t.Fatalf("areas = %v", tree.AreaNames())
			}
			if !slices.Equal(acc.Countries(), []string{"France", "Monaco"}) {
				t.Fatalf("countries = %v", acc.Countries())
			}
		})
	}
}

func TestMajorityTieGoesToFirstSeen(t *testing.T) {
	acc := NewAccumulator(CountryMajority)
	acc.Add(Record{Country: "Italy"})
	acc.Add(Record{Country: "Vatican City"})
	if got := acc.Tree().Country; got != "Italy" {
		t.Fatalf("country = %q, want Italy", got)
	}
}
