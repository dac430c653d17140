package store

import (
	"testing"

	"courtsched/internal/bracket"
	"courtsched/internal/team"
)

func TestCategoryConfigDocRoundTrip(t *testing.T) {
	start := 480
	eighths := 540
	cfg := bracket.CategoryConfig{
		Name:              "Mens Open",
		Type:              bracket.TypeGroups,
		Teams:             []team.Team{team.New("Ana", "Bia"), team.New("Cid", "Dan")},
		GroupCount:        2,
		AdvancePerGroup:   1,
		Seeding:           bracket.SeedRandom,
		IncludeThirdPlace: true,
		StartTime:         &start,
		Phase:             bracket.PhaseStartTimes{Eighths: &eighths},
		CategoryPriority:  3,
	}

	doc := FromCategoryConfig(cfg)
	back, err := doc.ToCategoryConfig()
	if err != nil {
		t.Fatalf("ToCategoryConfig: %v", err)
	}

	if back.Name != cfg.Name || back.Type != cfg.Type || back.GroupCount != cfg.GroupCount {
		t.Errorf("round trip mismatch: got %+v, want fields from %+v", back, cfg)
	}
	if len(back.Teams) != len(cfg.Teams) || back.Teams[0].Key() != cfg.Teams[0].Key() {
		t.Errorf("teams did not round-trip: got %+v", back.Teams)
	}
	if back.StartTime == nil || *back.StartTime != start {
		t.Errorf("StartTime did not round-trip: got %v, want %d", back.StartTime, start)
	}
	if back.Phase.Eighths == nil || *back.Phase.Eighths != eighths {
		t.Errorf("Phase.Eighths did not round-trip: got %v, want %d", back.Phase.Eighths, eighths)
	}
	if back.Phase.Quarters != nil {
		t.Errorf("Phase.Quarters should remain nil, got %v", back.Phase.Quarters)
	}
}

func TestBracketRoundTrip(t *testing.T) {
	score1, score2 := 6, 3
	tm := "09:00"
	court := "Court 1"
	b := &bracket.Bracket{
		Category:   "Mens Open",
		GroupOrder: []string{"A"},
		Groups: map[string][]*bracket.GroupMatch{
			"A": {
				{ID: "mo-A-1", GroupKey: "A", Team1: team.New("Ana", "Bia"), Team2: team.New("Cid", "Dan"), Score1: &score1, Score2: &score2, Time: &tm, Court: &court},
			},
		},
		Playoffs: []*bracket.PlayoffMatch{
			{ID: "mo-F-1", Name: "Final", Stage: bracket.StageFinal, Placeholder1: "Vencedor A", Placeholder2: "Vencedor B"},
		},
	}

	stage, playoffs := FromBracket(b)
	doc := CategoryDoc{TournamentData: stage, Playoffs: playoffs}
	back := doc.ToBracket("Mens Open")

	if len(back.AllGroupMatches()) != 1 {
		t.Fatalf("got %d group matches, want 1", len(back.AllGroupMatches()))
	}
	gm := back.AllGroupMatches()[0]
	if gm.Team1.Key() != "Ana e Bia" || gm.Team2.Key() != "Cid e Dan" {
		t.Errorf("teams did not round-trip: %+v", gm)
	}
	if gm.Score1 == nil || *gm.Score1 != score1 || gm.Score2 == nil || *gm.Score2 != score2 {
		t.Errorf("scores did not round-trip: %+v", gm)
	}
	if gm.Time == nil || *gm.Time != tm || gm.Court == nil || *gm.Court != court {
		t.Errorf("assignment did not round-trip: %+v", gm)
	}

	if len(back.Playoffs) != 1 || back.Playoffs[0].ID != "mo-F-1" {
		t.Errorf("playoffs did not round-trip: %+v", back.Playoffs)
	}
}

func TestDefaultStateHasOneCourtAndNoCategories(t *testing.T) {
	state := DefaultState("t1")
	if state.ID != "t1" {
		t.Errorf("ID = %q, want t1", state.ID)
	}
	if len(state.GlobalSettings.Courts) != 1 {
		t.Fatalf("got %d courts, want 1", len(state.GlobalSettings.Courts))
	}
	if len(state.Categories) != 0 {
		t.Errorf("expected no categories, got %d", len(state.Categories))
	}
	settings, err := state.GlobalSettings.ToSettings()
	if err != nil {
		t.Fatalf("ToSettings: %v", err)
	}
	if err := settings.Validate(); err != nil {
		t.Errorf("default settings should validate cleanly: %v", err)
	}
}
