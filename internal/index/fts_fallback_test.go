//go:build !sqlite_fts5

package index

import (
	"testing"

	"github.com/starford/pactum/internal/models"
)

func TestFallbackSearch_WildcardsAreLiteral(t *testing.T) {
	db := testDB(t)
	doc := &models.Document{
		Title:        "Price Schedule",
		ContractType: models.DefaultContractType,
		Sections: []models.Section{
			{Title: "Fees", Clauses: []models.Clause{
				{Text: "a discount of 100% applies", Label: "a", Index: 0},
				{Text: "delivery of 1000 units", Label: "b", Index: 1},
				{Text: "see clause fee_schedule", Label: "c", Index: 2},
				{Text: "see clause feeXschedule", Label: "d", Index: 3},
			}},
		},
	}
	if err := db.UpsertDocument(meta("prices.txt", "p"), doc); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		query      string
		wantLabels []string
	}{
		{"100%", []string{"a"}},
		{"fee_schedule", []string{"c"}},
		{"%", []string{"a"}},
		{"units", []string{"b"}},
	}
	for _, c := range cases {
		hits, err := db.SearchClauses(c.query, 10)
		if err != nil {
			t.Fatalf("SearchClauses(%q): %v", c.query, err)
		}
		var got []string
		for _, h := range hits {
			got = append(got, h.Label)
		}
		if len(got) != len(c.wantLabels) || (len(got) > 0 && got[0] != c.wantLabels[0]) {
			t.Errorf("SearchClauses(%q) labels = %v, want %v", c.query, got, c.wantLabels)
		}
	}
}
