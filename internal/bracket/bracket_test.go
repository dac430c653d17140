package bracket

import (
	"math/rand"
	"strings"
	"testing"

	"courtsched/internal/team"
)

func teams(n int) []team.Team {
	out := make([]team.Team, n)
	for i := 0; i < n; i++ {
		out[i] = team.New(letterName(i)+"1", letterName(i)+"2")
	}
	return out
}

func letterName(i int) string {
	return string(rune('A' + i))
}

func TestGenerate_RejectsDuplicatePlayers(t *testing.T) {
	cfg := CategoryConfig{
		Name:  "Cat",
		Type:  TypeSingleElim,
		Teams: []team.Team{team.New("a", "b"), team.New("a", "c")},
	}
	_, err := Generate(cfg, nil)
	if err == nil {
		t.Fatal("expected error for duplicate player")
	}
}

func TestGenerate_SingleElimRequiresPowerOfTwo(t *testing.T) {
	cfg := CategoryConfig{Name: "Cat", Type: TypeSingleElim, Teams: teams(6)}
	if _, err := Generate(cfg, nil); err == nil {
		t.Fatal("expected error for non-power-of-two team count")
	}
}

func TestGenerate_SingleElim8Teams(t *testing.T) {
	cfg := CategoryConfig{
		Name:    "Cat",
		Type:    TypeSingleElim,
		Teams:   teams(8),
		Seeding: SeedOrder,
	}
	b, err := Generate(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var round1, semis, final int
	for _, m := range b.Playoffs {
		switch m.Stage {
		case StageQuarter:
			round1++
		case StageSemifinal:
			semis++
		case StageFinal:
			final++
		}
	}
	if round1 != 4 || semis != 2 || final != 1 {
		t.Fatalf("expected 4 quarterfinals, 2 semis, 1 final; got %d/%d/%d", round1, semis, final)
	}
}

func TestGenerate_GroupsRequirePowerOfTwoQualifiers(t *testing.T) {
	cfg := CategoryConfig{
		Name: "Cat", Type: TypeGroups, Teams: teams(9),
		GroupCount: 3, AdvancePerGroup: 1,
	}
	if _, err := Generate(cfg, nil); err == nil {
		t.Fatal("expected error: 3 qualifiers is not a power of two")
	}
}

func TestGenerate_Groups4x2ProducesCanonicalSemis(t *testing.T) {
	cfg := CategoryConfig{
		Name: "Cat", Type: TypeGroups, Teams: teams(16),
		GroupCount: 4, AdvancePerGroup: 2, Seeding: SeedOrder,
	}
	b, err := Generate(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.GroupOrder) != 4 {
		t.Fatalf("expected 4 groups, got %d", len(b.GroupOrder))
	}
	for _, key := range b.GroupOrder {
		if len(b.Groups[key]) != 6 {
			t.Fatalf("expected 6 round-robin matches per group of 4, got %d for %s", len(b.Groups[key]), key)
		}
	}
	var quarters int
	for _, m := range b.Playoffs {
		if m.Stage == StageQuarter {
			quarters++
		}
	}
	if quarters != 4 {
		t.Fatalf("expected 4 quarterfinals from 8 qualifiers, got %d", quarters)
	}

	byID := make(map[string]*PlayoffMatch)
	for _, m := range b.Playoffs {
		byID[m.ID] = m
	}
	if m := byID["Cat-R1-Jogo2"]; m == nil || m.Placeholder1 != "2º do Cat-GroupB" || m.Placeholder2 != "1º do Cat-GroupC" {
		t.Fatalf("expected quarterfinal 2 to be 2B vs 1C, got %+v", m)
	}
	wantSemis := map[string][2]string{
		"Cat-R2-Jogo1": {"Vencedor Cat-R1-Jogo1", "Vencedor Cat-R1-Jogo4"},
		"Cat-R2-Jogo2": {"Vencedor Cat-R1-Jogo3", "Vencedor Cat-R1-Jogo2"},
	}
	for id, want := range wantSemis {
		m := byID[id]
		if m == nil || m.Stage != StageSemifinal || m.Placeholder1 != want[0] || m.Placeholder2 != want[1] {
			t.Fatalf("semifinal %s: got %+v, want %v", id, m, want)
		}
	}
}

func TestGenerate_DoubleElim6TeamsOrderSeedingGrantsTopTwoByes(t *testing.T) {
	cfg := CategoryConfig{
		Name: "Cat", Type: TypeDoubleElim, Teams: teams(6), Seeding: SeedOrder,
	}
	b, err := Generate(cfg, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var upperR1 int
	for _, m := range b.Playoffs {
		if strings.Contains(m.ID, "-U-R1-") {
			upperR1++
		}
	}
	if upperR1 != 2 {
		t.Fatalf("expected 2 upper-bracket round-1 matches (2 byes among 6 teams in an 8-slot bracket), got %d", upperR1)
	}
}

func TestGenerate_DoubleElimEveryUpperLoserReachesLowerBracket(t *testing.T) {
	cfg := CategoryConfig{
		Name: "Cat", Type: TypeDoubleElim, Teams: teams(6), Seeding: SeedOrder,
	}
	b, err := Generate(cfg, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	upperLosers := make(map[string]bool)
	for _, m := range b.Playoffs {
		if strings.Contains(m.ID, "-U-") {
			upperLosers["Perdedor "+m.ID] = false
		}
	}

	for _, m := range b.Playoffs {
		for _, placeholder := range []string{m.Placeholder1, m.Placeholder2} {
			if _, ok := upperLosers[placeholder]; ok {
				upperLosers[placeholder] = true
			}
		}
	}

	for loser, referenced := range upperLosers {
		if !referenced {
			t.Errorf("%s from the upper bracket is never referenced by a lower-bracket or grand-final match", loser)
		}
	}
}

func TestGenerate_DoubleElimHasGrandFinal(t *testing.T) {
	cfg := CategoryConfig{Name: "Cat", Type: TypeDoubleElim, Teams: teams(4), Seeding: SeedOrder}
	b, err := Generate(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, m := range b.Playoffs {
		if strings.Contains(m.ID, "-GF-") {
			found = true
			if m.Placeholder1 == "" || m.Placeholder2 == "" {
				t.Fatal("grand final must have both placeholders set")
			}
		}
	}
	if !found {
		t.Fatal("expected a grand final match")
	}
}

func TestBracketPositions_KeepsTopSeedsApart(t *testing.T) {
	pos := bracketPositions(8)
	if len(pos) != 8 {
		t.Fatalf("expected 8 positions, got %d", len(pos))
	}
	seen := make(map[int]bool)
	for _, p := range pos {
		if seen[p] {
			t.Fatalf("duplicate seed index %d in bracket positions", p)
		}
		seen[p] = true
	}
	half := make(map[int]int)
	for slot, p := range pos {
		half[p] = slot / 4
	}
	if half[0] == half[1] {
		t.Fatalf("seeds 0 and 1 share a half of the bracket: %v", pos)
	}
	for i := 0; i < len(pos); i += 2 {
		if pos[i]+pos[i+1] != 7 {
			t.Fatalf("slot pair %d/%d holds seeds %d and %d; want seeds summing to 7", i, i+1, pos[i], pos[i+1])
		}
	}
}
