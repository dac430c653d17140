package standings

import (
	"testing"

	"courtsched/internal/bracket"
	"courtsched/internal/team"
)

func score(a, b int) (*int, *int) {
	return &a, &b
}

func TestCompute_RanksByWinsThenSetDifference(t *testing.T) {
	t1, t2, t3 := team.New("a1", "a2"), team.New("b1", "b2"), team.New("c1", "c2")
	s1a, s1b := score(2, 0)
	s2a, s2b := score(2, 1)
	s3a, s3b := score(0, 2)
	matches := []*bracket.GroupMatch{
		{Team1: t1, Team2: t2, Score1: s1a, Score2: s1b},
		{Team1: t1, Team2: t3, Score1: s2a, Score2: s2b},
		{Team1: t2, Team2: t3, Score1: s3a, Score2: s3b},
	}
	rows := Compute(matches)
	if rows[0].Team.Key() != t1.Key() {
		t.Fatalf("expected %s to rank first, got %s", t1.Key(), rows[0].Team.Key())
	}
	if !IsGroupFinished(matches) {
		t.Fatal("expected group to be finished")
	}
}

func TestIsGroupFinished_FalseWithUnplayedMatch(t *testing.T) {
	t1, t2 := team.New("a1", "a2"), team.New("b1", "b2")
	matches := []*bracket.GroupMatch{{Team1: t1, Team2: t2}}
	if IsGroupFinished(matches) {
		t.Fatal("expected group to be unfinished")
	}
	if _, ok := TeamAtRank(matches, 1); ok {
		t.Fatal("expected TeamAtRank to fail on unfinished group")
	}
}
