package services

import (
	"testing"
)

func TestRank(t *testing.T) {
	entries := []RankingEntry{
		{ID: "a", Name: "Ricardo Silva", Team: "Equipe da Comunicação", Role: "Leader", CompletedCount: 5},
		{ID: "b", Name: "Ana Paula", Team: "Equipe do Externo", Role: "Leader", CompletedCount: 8},
		{ID: "c", Name: "Juliana Mendes", Team: "Equipe do Externo", Role: "Leader", CompletedCount: 5},
		{ID: "d", Name: "Pedro Queiroz", Team: "Equipe da Comunicação", Role: "Coordinator", CompletedCount: 7},
	}

	testCases := []struct {
		name       string
		teamFilter string
		roleFilter string
		wantIDs    []string
	}{
		{name: "no filters orders by count then id", wantIDs: []string{"b", "d", "a", "c"}},
		{name: "Todos disables the team filter", teamFilter: RankingFilterAll, wantIDs: []string{"b", "d", "a", "c"}},
		{name: "team filter", teamFilter: "Equipe do Externo", wantIDs: []string{"b", "c"}},
		{name: "role filter", roleFilter: "Leader", wantIDs: []string{"b", "a", "c"}},
		{name: "team and role filters combine", teamFilter: "Equipe da Comunicação", roleFilter: "Coordinator", wantIDs: []string{"d"}},
		{name: "unknown team matches nothing", teamFilter: "Equipe Fantasma", wantIDs: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Rank(entries, tc.teamFilter, tc.roleFilter)
			if len(got) != len(tc.wantIDs) {
				t.Fatalf("Rank() returned %d entries, want %d", len(got), len(tc.wantIDs))
			}
			for i, want := range tc.wantIDs {
				if got[i].ID != want {
					t.Errorf("Rank()[%d].ID = %q, want %q", i, got[i].ID, want)
				}
			}
		})
	}
}

// Equal counts tie-break by ascending id no matter how the input arrives.
func TestRankTieBreakDeterministic(t *testing.T) {
	forward := []RankingEntry{
		{ID: "a", CompletedCount: 5},
		{ID: "b", CompletedCount: 8},
		{ID: "c", CompletedCount: 5},
	}
	reversed := []RankingEntry{
		{ID: "c", CompletedCount: 5},
		{ID: "b", CompletedCount: 8},
		{ID: "a", CompletedCount: 5},
	}

	for _, input := range [][]RankingEntry{forward, reversed} {
		got := Rank(input, "", "")
		want := []string{"b", "a", "c"}
		for i, id := range want {
			if got[i].ID != id {
				t.Errorf("Rank()[%d].ID = %q, want %q (input order should not matter)", i, got[i].ID, id)
			}
		}
	}
}

// Rank must not mutate its input.
func TestRankLeavesInputUntouched(t *testing.T) {
	entries := []RankingEntry{
		{ID: "a", CompletedCount: 1},
		{ID: "b", CompletedCount: 9},
	}
	Rank(entries, "", "")
	if entries[0].ID != "a" || entries[1].ID != "b" {
		t.Errorf("input reordered: %+v", entries)
	}
}
