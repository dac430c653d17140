// internal/store/store.go
// Persistence adapter: the whole tournament state as one MongoDB document,
// matching the schema in SPEC_FULL.md §6.

package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"courtsched/internal/bracket"
	"courtsched/internal/slot"
	"courtsched/internal/team"
)

// CourtDoc/WindowDoc/GlobalSettingsDoc mirror slot.Court/Window/GlobalSettings
// in the document's on-disk shape (HH:MM strings, not minute ints).
type WindowDoc struct {
	StartTime string `bson:"startTime"`
	EndTime   string `bson:"endTime"`
}

type CourtDoc struct {
	Name     string      `bson:"name"`
	Priority int         `bson:"priority"`
	Slots    []WindowDoc `bson:"slots"`
}

type GlobalSettingsDoc struct {
	StartTime              string     `bson:"startTime"`
	EndTime                string     `bson:"endTime"`
	EstimatedMatchDuration int        `bson:"estimatedMatchDuration"`
	Courts                 []CourtDoc `bson:"courts"`
}

// GroupMatchDoc/PlayoffMatchDoc mirror bracket.GroupMatch/PlayoffMatch.
type GroupMatchDoc struct {
	ID       string        `bson:"id"`
	GroupKey string        `bson:"groupKey"`
	Team1    [2]string     `bson:"team1"`
	Team2    [2]string     `bson:"team2"`
	Score1   *int          `bson:"score1,omitempty"`
	Score2   *int          `bson:"score2,omitempty"`
	Time     *string       `bson:"time,omitempty"`
	Court    *string       `bson:"court,omitempty"`
}

type PlayoffMatchDoc struct {
	ID             string    `bson:"id"`
	Name           string    `bson:"name"`
	Stage          string    `bson:"stage"`
	RoundOrder     int       `bson:"roundOrder"`
	Placeholder1   string    `bson:"placeholder1"`
	Placeholder2   string    `bson:"placeholder2"`
	Team1          *[2]string `bson:"team1,omitempty"`
	Team2          *[2]string `bson:"team2,omitempty"`
	Score1         *int      `bson:"score1,omitempty"`
	Score2         *int      `bson:"score2,omitempty"`
	Time           *string   `bson:"time,omitempty"`
	Court          *string   `bson:"court,omitempty"`
	PhaseStartTime *string   `bson:"phaseStartTime,omitempty"`
}

// CategoryDoc is one category's sub-document.
type CategoryDoc struct {
	FormValues     CategoryConfigDoc          `bson:"formValues"`
	TournamentData *GroupStageDoc             `bson:"tournamentData,omitempty"`
	Playoffs       []PlayoffMatchDoc          `bson:"playoffs,omitempty"`
	TotalMatches   int                        `bson:"totalMatches"`
}

type GroupStageDoc struct {
	Groups map[string][]GroupMatchDoc `bson:"groups"`
	Order  []string                   `bson:"order"`
}

// TeamDoc mirrors team.Team for persistence.
type TeamDoc struct {
	Player1 string `bson:"player1"`
	Player2 string `bson:"player2,omitempty"`
}

// PhaseStartTimesDoc mirrors bracket.PhaseStartTimes, as HH:MM strings.
type PhaseStartTimesDoc struct {
	Eighths  *string `bson:"eighths,omitempty"`
	Quarters *string `bson:"quarters,omitempty"`
	Semis    *string `bson:"semis,omitempty"`
	Finals   *string `bson:"finals,omitempty"`
}

// CategoryConfigDoc mirrors bracket.CategoryConfig for persistence.
type CategoryConfigDoc struct {
	Name              string             `bson:"name"`
	Type              string             `bson:"type"`
	Teams             []TeamDoc          `bson:"teams"`
	GroupCount        int                `bson:"groupCount"`
	AdvancePerGroup   int                `bson:"advancePerGroup"`
	Seeding           string             `bson:"seeding"`
	IncludeThirdPlace bool               `bson:"includeThirdPlace"`
	StartTime         *string            `bson:"startTime,omitempty"`
	Phase             PhaseStartTimesDoc `bson:"phase"`
	CategoryPriority  int                `bson:"categoryPriority"`
}

// TournamentState is the full document for one tournament.
type TournamentState struct {
	ID              string                 `bson:"_id"`
	GlobalSettings  GlobalSettingsDoc      `bson:"_globalSettings"`
	Categories      map[string]CategoryDoc `bson:"categories"`
}

// ErrNotFound is returned when a tournament document doesn't exist.
var ErrNotFound = fmt.Errorf("store: tournament not found")

// Store is the MongoDB-backed persistence adapter. Reads/writes are
// complete-document replacement, matching §6: absence of the document
// yields default global settings.
type Store struct {
	collection *mongo.Collection
	events     *mongo.Collection
	logger     *log.Logger
}

// New builds a Store against an already-connected database.
func New(db *mongo.Database, logger *log.Logger) *Store {
	return &Store{
		collection: db.Collection("tournaments"),
		events:     db.Collection("analytics_events"),
		logger:     logger,
	}
}

// Load fetches a tournament's full state. Returns ErrNotFound if absent;
// callers are expected to fall back to DefaultState in that case.
func (s *Store) Load(ctx context.Context, tournamentID string) (*TournamentState, error) {
	var state TournamentState
	err := s.collection.FindOne(ctx, bson.M{"_id": tournamentID}).Decode(&state)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: load: %w", err)
	}
	return &state, nil
}

// Save writes the complete document, replacing whatever was there.
func (s *Store) Save(ctx context.Context, state *TournamentState) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": state.ID}, state, opts)
	if err != nil {
		return fmt.Errorf("store: save: %w", err)
	}
	return nil
}

// DefaultState returns the fallback document per §6: one court, a default
// operating window, no categories.
func DefaultState(tournamentID string) *TournamentState {
	return &TournamentState{
		ID: tournamentID,
		GlobalSettings: GlobalSettingsDoc{
			StartTime:              "08:00",
			EndTime:                "20:00",
			EstimatedMatchDuration: 20,
			Courts: []CourtDoc{
				{Name: "Court 1", Priority: 1, Slots: []WindowDoc{{StartTime: "08:00", EndTime: "20:00"}}},
			},
		},
		Categories: map[string]CategoryDoc{},
	}
}

// RecordEvent appends a schedule-run telemetry row (generation count,
// unscheduled-match count), mirroring the teacher's AnalyticsService.
func (s *Store) RecordEvent(ctx context.Context, tournamentID, kind string, unscheduledCount int) error {
	_, err := s.events.InsertOne(ctx, bson.M{
		"tournamentId":     tournamentID,
		"kind":             kind,
		"unscheduledCount": unscheduledCount,
		"recordedAt":       time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("store: record event: %w", err)
	}
	return nil
}

// ToSettings converts the document's HH:MM global settings into the
// minute-based slot.GlobalSettings the scheduler consumes.
func (g GlobalSettingsDoc) ToSettings() (slot.GlobalSettings, error) {
	start, err := slot.ParseHHMM(g.StartTime)
	if err != nil {
		return slot.GlobalSettings{}, err
	}
	end, err := slot.ParseHHMM(g.EndTime)
	if err != nil {
		return slot.GlobalSettings{}, err
	}
	courts := make([]slot.Court, len(g.Courts))
	for i, c := range g.Courts {
		windows := make([]slot.Window, len(c.Slots))
		for j, w := range c.Slots {
			ws, err := slot.ParseHHMM(w.StartTime)
			if err != nil {
				return slot.GlobalSettings{}, err
			}
			we, err := slot.ParseHHMM(w.EndTime)
			if err != nil {
				return slot.GlobalSettings{}, err
			}
			windows[j] = slot.Window{Start: ws, End: we}
		}
		courts[i] = slot.Court{Name: c.Name, Priority: c.Priority, Slots: windows}
	}
	return slot.GlobalSettings{
		StartTime:              start,
		EndTime:                end,
		EstimatedMatchDuration: g.EstimatedMatchDuration,
		Courts:                 courts,
	}, nil
}

// CategoryTypeFromDoc converts the persisted type string into bracket.Type.
func CategoryTypeFromDoc(s string) bracket.Type {
	return bracket.Type(s)
}

// ToCategoryConfig converts a persisted category configuration into the
// bracket package's generator input.
func (d CategoryConfigDoc) ToCategoryConfig() (bracket.CategoryConfig, error) {
	teams := make([]team.Team, len(d.Teams))
	for i, t := range d.Teams {
		teams[i] = team.New(t.Player1, t.Player2)
	}

	cfg := bracket.CategoryConfig{
		Name:              d.Name,
		Type:              bracket.Type(d.Type),
		Teams:             teams,
		GroupCount:        d.GroupCount,
		AdvancePerGroup:   d.AdvancePerGroup,
		Seeding:           bracket.Seeding(d.Seeding),
		IncludeThirdPlace: d.IncludeThirdPlace,
		CategoryPriority:  d.CategoryPriority,
	}

	if d.StartTime != nil {
		m, err := slot.ParseHHMM(*d.StartTime)
		if err != nil {
			return bracket.CategoryConfig{}, fmt.Errorf("store: category %s startTime: %w", d.Name, err)
		}
		cfg.StartTime = &m
	}

	phase, err := d.Phase.toMinutes()
	if err != nil {
		return bracket.CategoryConfig{}, fmt.Errorf("store: category %s phase times: %w", d.Name, err)
	}
	cfg.Phase = phase

	return cfg, nil
}

func (p PhaseStartTimesDoc) toMinutes() (bracket.PhaseStartTimes, error) {
	var out bracket.PhaseStartTimes
	var err error
	if out.Eighths, err = hhmmPtr(p.Eighths); err != nil {
		return out, err
	}
	if out.Quarters, err = hhmmPtr(p.Quarters); err != nil {
		return out, err
	}
	if out.Semis, err = hhmmPtr(p.Semis); err != nil {
		return out, err
	}
	if out.Finals, err = hhmmPtr(p.Finals); err != nil {
		return out, err
	}
	return out, nil
}

func hhmmPtr(s *string) (*int, error) {
	if s == nil {
		return nil, nil
	}
	m, err := slot.ParseHHMM(*s)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FromCategoryConfig converts the bracket package's generator input back
// into its persisted shape, the inverse of ToCategoryConfig.
func FromCategoryConfig(cfg bracket.CategoryConfig) CategoryConfigDoc {
	teams := make([]TeamDoc, len(cfg.Teams))
	for i, t := range cfg.Teams {
		teams[i] = TeamDoc{Player1: t.Player1, Player2: t.Player2}
	}
	d := CategoryConfigDoc{
		Name:              cfg.Name,
		Type:              string(cfg.Type),
		Teams:             teams,
		GroupCount:        cfg.GroupCount,
		AdvancePerGroup:   cfg.AdvancePerGroup,
		Seeding:           string(cfg.Seeding),
		IncludeThirdPlace: cfg.IncludeThirdPlace,
		CategoryPriority:  cfg.CategoryPriority,
		Phase: PhaseStartTimesDoc{
			Eighths:  minutesPtr(cfg.Phase.Eighths),
			Quarters: minutesPtr(cfg.Phase.Quarters),
			Semis:    minutesPtr(cfg.Phase.Semis),
			Finals:   minutesPtr(cfg.Phase.Finals),
		},
	}
	if cfg.StartTime != nil {
		d.StartTime = minutesPtr(cfg.StartTime)
	}
	return d
}

func minutesPtr(m *int) *string {
	if m == nil {
		return nil
	}
	s := slot.FormatHHMM(*m)
	return &s
}

// ToBracket reconstructs a bracket.Bracket from its persisted group stage
// and playoff sub-documents, so the scheduler and resolver can operate on
// live domain objects instead of the wire shape.
func (c CategoryDoc) ToBracket(category string) *bracket.Bracket {
	b := &bracket.Bracket{Category: category, Groups: map[string][]*bracket.GroupMatch{}}
	if c.TournamentData != nil {
		b.GroupOrder = append([]string{}, c.TournamentData.Order...)
		for key, matches := range c.TournamentData.Groups {
			gms := make([]*bracket.GroupMatch, len(matches))
			for i, m := range matches {
				gms[i] = &bracket.GroupMatch{
					ID:       m.ID,
					GroupKey: m.GroupKey,
					Team1:    team.New(m.Team1[0], m.Team1[1]),
					Team2:    team.New(m.Team2[0], m.Team2[1]),
					Score1:   m.Score1,
					Score2:   m.Score2,
					Time:     m.Time,
					Court:    m.Court,
				}
			}
			b.Groups[key] = gms
		}
	}
	for _, p := range c.Playoffs {
		pm := &bracket.PlayoffMatch{
			ID:           p.ID,
			Name:         p.Name,
			Stage:        p.Stage,
			RoundOrder:   p.RoundOrder,
			Placeholder1: p.Placeholder1,
			Placeholder2: p.Placeholder2,
			Score1:       p.Score1,
			Score2:       p.Score2,
			Time:         p.Time,
			Court:        p.Court,
		}
		if p.Team1 != nil {
			t := team.New(p.Team1[0], p.Team1[1])
			pm.Team1 = &t
		}
		if p.Team2 != nil {
			t := team.New(p.Team2[0], p.Team2[1])
			pm.Team2 = &t
		}
		if p.PhaseStartTime != nil {
			m, err := slot.ParseHHMM(*p.PhaseStartTime)
			if err == nil {
				pm.PhaseStartTime = &m
			}
		}
		b.Playoffs = append(b.Playoffs, pm)
	}
	return b
}

// FromBracket serializes a live bracket.Bracket back into its persisted
// group-stage and playoff sub-documents, the inverse of ToBracket.
func FromBracket(b *bracket.Bracket) (*GroupStageDoc, []PlayoffMatchDoc) {
	var stage *GroupStageDoc
	if len(b.GroupOrder) > 0 {
		stage = &GroupStageDoc{Order: append([]string{}, b.GroupOrder...), Groups: map[string][]GroupMatchDoc{}}
		for key, matches := range b.Groups {
			docs := make([]GroupMatchDoc, len(matches))
			for i, m := range matches {
				docs[i] = GroupMatchDoc{
					ID:       m.ID,
					GroupKey: m.GroupKey,
					Team1:    [2]string{m.Team1.Player1, m.Team1.Player2},
					Team2:    [2]string{m.Team2.Player1, m.Team2.Player2},
					Score1:   m.Score1,
					Score2:   m.Score2,
					Time:     m.Time,
					Court:    m.Court,
				}
			}
			stage.Groups[key] = docs
		}
	}

	playoffs := make([]PlayoffMatchDoc, len(b.Playoffs))
	for i, p := range b.Playoffs {
		doc := PlayoffMatchDoc{
			ID:           p.ID,
			Name:         p.Name,
			Stage:        p.Stage,
			RoundOrder:   p.RoundOrder,
			Placeholder1: p.Placeholder1,
			Placeholder2: p.Placeholder2,
			Score1:       p.Score1,
			Score2:       p.Score2,
			Time:         p.Time,
			Court:        p.Court,
		}
		if p.Team1 != nil {
			doc.Team1 = &[2]string{p.Team1.Player1, p.Team1.Player2}
		}
		if p.Team2 != nil {
			doc.Team2 = &[2]string{p.Team2.Player1, p.Team2.Player2}
		}
		if p.PhaseStartTime != nil {
			s := slot.FormatHHMM(*p.PhaseStartTime)
			doc.PhaseStartTime = &s
		}
		playoffs[i] = doc
	}
	return stage, playoffs
}
