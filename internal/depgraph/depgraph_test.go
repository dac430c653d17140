package depgraph

import (
	"testing"

	"courtsched/internal/bracket"
)

func TestReady_BlockedUntilPrerequisiteMatchFinishes(t *testing.T) {
	r1 := &bracket.PlayoffMatch{ID: "Cat-R1-Jogo1"}
	final := &bracket.PlayoffMatch{ID: "Cat-R2-Jogo1", Placeholder1: "Vencedor Cat-R1-Jogo1", Placeholder2: "bye"}
	b := &bracket.Bracket{Playoffs: []*bracket.PlayoffMatch{r1, final}}
	g := Build(b)

	byID := map[string]*bracket.PlayoffMatch{"Cat-R1-Jogo1": r1, "Cat-R2-Jogo1": final}
	if g.Ready("Cat-R2-Jogo1", byID, nil) {
		t.Fatal("expected final to be blocked before r1 finishes")
	}

	s1, s2 := 2, 0
	r1.Score1, r1.Score2 = &s1, &s2
	if !g.Ready("Cat-R2-Jogo1", byID, nil) {
		t.Fatal("expected final to be ready once r1 finishes")
	}
}

func TestReady_BlockedUntilGroupFinishes(t *testing.T) {
	po := &bracket.PlayoffMatch{ID: "Cat-R1-Jogo1", Placeholder1: "1º do Cat-GroupA", Placeholder2: "2º do Cat-GroupA"}
	b := &bracket.Bracket{Playoffs: []*bracket.PlayoffMatch{po}}
	g := Build(b)

	groups := map[string][]*bracket.GroupMatch{"GroupA": {{ID: "Cat-GroupA-Jogo1"}}}
	if g.Ready("Cat-R1-Jogo1", nil, groups) {
		t.Fatal("expected match to be blocked before the group finishes")
	}

	s1, s2 := 2, 1
	groups["GroupA"][0].Score1, groups["GroupA"][0].Score2 = &s1, &s2
	if !g.Ready("Cat-R1-Jogo1", nil, groups) {
		t.Fatal("expected match to be ready once the group finishes")
	}
}
