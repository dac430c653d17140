package scheduler

import (
	"testing"

	"courtsched/internal/bracket"
	"courtsched/internal/slot"
	"courtsched/internal/team"
)

func oneCourtSettings(start, end, duration int) slot.GlobalSettings {
	return slot.GlobalSettings{
		StartTime:              start,
		EndTime:                end,
		EstimatedMatchDuration: duration,
		Courts: []slot.Court{
			{Name: "Court 1", Priority: 1, Slots: []slot.Window{{Start: start, End: end}}},
		},
	}
}

func TestReschedule_SingleCourtTwoCategories(t *testing.T) {
	settings := oneCourtSettings(9*60, 11*60, 20)

	catA, err := bracket.Generate(bracket.CategoryConfig{
		Name: "CatA", Type: bracket.TypeSingleElim, Teams: teams(4), Seeding: bracket.SeedOrder,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	catB, err := bracket.Generate(bracket.CategoryConfig{
		Name: "CatB", Type: bracket.TypeSingleElim, Teams: teams(4), Seeding: bracket.SeedOrder,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := Reschedule(settings, []CategoryInput{
		{Name: "CatA", CategoryPriority: 1, Bracket: catA},
		{Name: "CatB", CategoryPriority: 2, Bracket: catB},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Unscheduled) != 0 {
		t.Fatalf("expected all matches scheduled, got %d unscheduled: %+v", len(result.Unscheduled), result.Unscheduled)
	}

	for _, m := range catA.Playoffs {
		if m.Time == nil || m.Court == nil {
			t.Fatalf("expected match %s to be scheduled", m.ID)
		}
	}
}

func TestReschedule_SharedPlayerNeverDoubleBooked(t *testing.T) {
	settings := slot.GlobalSettings{
		StartTime: 9 * 60, EndTime: 12 * 60, EstimatedMatchDuration: 20,
		Courts: []slot.Court{
			{Name: "Court 1", Priority: 1, Slots: []slot.Window{{Start: 9 * 60, End: 12 * 60}}},
			{Name: "Court 2", Priority: 2, Slots: []slot.Window{{Start: 9 * 60, End: 12 * 60}}},
		},
	}

	shared := team.New("shared1", "shared2")
	other1 := team.New("o1", "o2")
	other2 := team.New("o3", "o4")
	other3 := team.New("o5", "o6")

	b := &bracket.Bracket{
		Category:   "Cat",
		GroupOrder: []string{"GroupA"},
		Groups: map[string][]*bracket.GroupMatch{
			"GroupA": {
				{ID: "Cat-GroupA-Jogo1", GroupKey: "GroupA", Team1: shared, Team2: other1},
				{ID: "Cat-GroupA-Jogo2", GroupKey: "GroupA", Team1: shared, Team2: other2},
				{ID: "Cat-GroupA-Jogo3", GroupKey: "GroupA", Team1: other1, Team2: other3},
			},
		},
	}

	result, err := Reschedule(settings, []CategoryInput{{Name: "Cat", Bracket: b}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Unscheduled) != 0 {
		t.Fatalf("expected all matches scheduled, got unscheduled: %+v", result.Unscheduled)
	}

	times := make(map[string][]string)
	for _, m := range b.Groups["GroupA"] {
		times[*m.Time] = append(times[*m.Time], m.ID)
	}
	for tm, ids := range times {
		if len(ids) > 1 {
			m1 := findMatch(b, ids[0])
			m2 := findMatch(b, ids[1])
			if sharesPlayer(m1, m2) {
				t.Fatalf("matches %v at time %s share a player", ids, tm)
			}
		}
	}
}

func findMatch(b *bracket.Bracket, id string) *bracket.GroupMatch {
	for _, m := range b.Groups["GroupA"] {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func sharesPlayer(a, b *bracket.GroupMatch) bool {
	players := make(map[string]bool)
	for _, p := range append(a.Team1.Players(), a.Team2.Players()...) {
		players[p] = true
	}
	for _, p := range append(b.Team1.Players(), b.Team2.Players()...) {
		if players[p] {
			return true
		}
	}
	return false
}

func TestRankReady_RestBreaksStageAndCategoryTies(t *testing.T) {
	rested := &item{id: "rested", stage: bracket.StageGroup, players: []string{"p1", "p2"}}
	tired := &item{id: "tired", stage: bracket.StageGroup, players: []string{"p3", "p4"}}

	playerNextAvailable := map[string]int{
		"p1": 0,   // rested since the start of the day
		"p2": 0,
		"p3": 580, // just finished a match
		"p4": 580,
	}

	ready := []*item{tired, rested}
	rankReady(ready, 600, playerNextAvailable)

	if ready[0].id != "rested" {
		t.Fatalf("expected the more-rested match first, got order %v", []string{ready[0].id, ready[1].id})
	}
}

func TestRankReady_MinimumRestBreaksTotalRestTies(t *testing.T) {
	// Both matches accumulate the same total rest (220 minutes across two
	// players), but "balanced" splits it evenly while "lopsided" has one
	// player who just barely rested enough and another who rested a lot
	// longer; the quaternary key should prefer the more evenly rested pair.
	balanced := &item{id: "balanced", stage: bracket.StageGroup, players: []string{"p1", "p2"}}
	lopsided := &item{id: "lopsided", stage: bracket.StageGroup, players: []string{"p3", "p4"}}

	playerNextAvailable := map[string]int{
		"p1": 490, "p2": 490, // rest = 110 each, total 220, min 110
		"p3": 580, "p4": 400, // rest = 20 and 200, total 220, min 20
	}

	ready := []*item{lopsided, balanced}
	rankReady(ready, 600, playerNextAvailable)

	if ready[0].id != "balanced" {
		t.Fatalf("expected the match with higher minimum individual rest first, got order %v", []string{ready[0].id, ready[1].id})
	}
}

func teams(n int) []team.Team {
	out := make([]team.Team, n)
	for i := 0; i < n; i++ {
		l := string(rune('A' + i))
		out[i] = team.New(l+"1", l+"2")
	}
	return out
}
