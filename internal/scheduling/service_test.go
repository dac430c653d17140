package scheduling

import (
	"testing"

	"courtsched/internal/bracket"
	"courtsched/internal/slot"
	"courtsched/internal/team"
)

func TestGroupRowReflectsAssignment(t *testing.T) {
	tm, court := "08:00", "Court 1"
	gm := &bracket.GroupMatch{ID: "cat-A-1", GroupKey: "A", Team1: team.New("Ana", "Bia"), Team2: team.New("Cid", "Dan"), Time: &tm, Court: &court}
	row := groupRow("cat", gm)

	if row.MatchID != "cat-A-1" || row.Stage != bracket.StageGroup {
		t.Errorf("unexpected row: %+v", row)
	}
	if row.Team1 != "Ana e Bia" || row.Team2 != "Cid e Dan" {
		t.Errorf("teams not rendered via canonical key: %+v", row)
	}
	if row.Time != tm || row.Court != court {
		t.Errorf("assignment not carried through: %+v", row)
	}
}

func TestGroupRowUnassignedLeavesTimeCourtEmpty(t *testing.T) {
	gm := &bracket.GroupMatch{ID: "cat-A-1", Team1: team.New("Ana", "Bia"), Team2: team.New("Cid", "Dan")}
	row := groupRow("cat", gm)
	if row.Time != "" || row.Court != "" {
		t.Errorf("expected empty time/court for an unscheduled match, got %+v", row)
	}
}

func TestPlayoffRowUnresolvedTeamsLeftEmpty(t *testing.T) {
	pm := &bracket.PlayoffMatch{ID: "cat-F-1", Stage: bracket.StageFinal, Placeholder1: "Vencedor A", Placeholder2: "Vencedor B"}
	row := playoffRow("cat", pm)
	if row.Team1 != "" || row.Team2 != "" {
		t.Errorf("unresolved playoff teams should render as empty, got %+v", row)
	}
}

func TestMatchRefAssignmentAndPlayersForGroupMatch(t *testing.T) {
	gm := &bracket.GroupMatch{ID: "cat-A-1", Team1: team.New("Ana", "Bia"), Team2: team.New("Cid", "Dan")}
	ref := &matchRef{id: gm.ID, category: "cat", gm: gm}

	players := ref.players()
	if len(players) != 4 {
		t.Fatalf("got %d players, want 4", len(players))
	}

	tm, court := "08:00", "Court 1"
	ref.setAssignment(&tm, &court)
	gotTime, gotCourt := ref.assignment()
	if gotTime == nil || *gotTime != tm || gotCourt == nil || *gotCourt != court {
		t.Errorf("setAssignment/assignment round trip failed: time=%v court=%v", gotTime, gotCourt)
	}
}

func TestMatchRefPlayersNilUntilPlayoffResolved(t *testing.T) {
	pm := &bracket.PlayoffMatch{ID: "cat-F-1", Placeholder1: "Vencedor A", Placeholder2: "Vencedor B"}
	ref := &matchRef{id: pm.ID, category: "cat", pm: pm}
	if players := ref.players(); players != nil {
		t.Errorf("unresolved playoff match should report no players, got %v", players)
	}
}

func TestBuildMatchIndexCoversGroupsAndPlayoffs(t *testing.T) {
	brk := &bracket.Bracket{
		Category:   "cat",
		GroupOrder: []string{"A"},
		Groups: map[string][]*bracket.GroupMatch{
			"A": {{ID: "cat-A-1", GroupKey: "A", Team1: team.New("Ana", "Bia"), Team2: team.New("Cid", "Dan")}},
		},
		Playoffs: []*bracket.PlayoffMatch{{ID: "cat-F-1", Stage: bracket.StageFinal}},
	}
	cats := map[string]*categoryState{"cat": {name: "cat", brk: brk}}

	idx := buildMatchIndex(cats)
	if len(idx) != 2 {
		t.Fatalf("got %d entries, want 2", len(idx))
	}
	if idx["cat-A-1"].gm == nil {
		t.Error("group match not indexed correctly")
	}
	if idx["cat-F-1"].pm == nil {
		t.Error("playoff match not indexed correctly")
	}
}

func TestFindCourtLooksUpByName(t *testing.T) {
	settings := slot.GlobalSettings{
		Courts: []slot.Court{{Name: "Court 1"}, {Name: "Court 2"}},
	}
	c, err := findCourt(settings, "Court 2")
	if err != nil {
		t.Fatalf("findCourt: %v", err)
	}
	if c.Name != "Court 2" {
		t.Errorf("got court %q, want Court 2", c.Name)
	}

	if _, err := findCourt(settings, "Court 9"); err == nil {
		t.Error("expected an error for an unknown court")
	}
}
