// internal/scheduling/service.go
// The orchestration layer tying bracket generation, placeholder resolution,
// the scheduler core, persistence, caching, auditing, and the live feed
// into the external operations named in spec.md §4.6: reschedule_all,
// update_match, update_many, clear_all_schedules, import_schedule_csv,
// update_team, and the supplemented reset_category. Grounded on the
// teacher's TournamentService/MatchService (internal/services/
// tournament_service.go, match_service.go): a struct of collaborators
// (store/cache/audit/notification-equivalent) built by a constructor, with
// one exported method per business operation.

package scheduling

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"time"

	"courtsched/internal/apperr"
	"courtsched/internal/audit"
	"courtsched/internal/bracket"
	"courtsched/internal/cache"
	"courtsched/internal/csvio"
	"courtsched/internal/live"
	"courtsched/internal/resolve"
	"courtsched/internal/scheduler"
	"courtsched/internal/slot"
	"courtsched/internal/standings"
	"courtsched/internal/store"
	"courtsched/internal/team"
)

// Service is the single entry point the HTTP layer calls into.
type Service struct {
	store             *store.Store
	cache             *cache.Cache
	audit             *audit.Log
	hub               *live.Hub
	logger            *log.Logger
	rescheduleLockTTL time.Duration
}

func NewService(st *store.Store, c *cache.Cache, a *audit.Log, hub *live.Hub, logger *log.Logger, rescheduleLockTTL time.Duration) *Service {
	return &Service{store: st, cache: c, audit: a, hub: hub, logger: logger, rescheduleLockTTL: rescheduleLockTTL}
}

// categoryState is the in-memory working copy of one category during an
// operation: its name, generator config, and live bracket.
type categoryState struct {
	name string
	cfg  bracket.CategoryConfig
	brk  *bracket.Bracket
}

func (s *Service) loadCategories(state *store.TournamentState) (map[string]*categoryState, []string, error) {
	out := make(map[string]*categoryState, len(state.Categories))
	var names []string
	for name, doc := range state.Categories {
		cfg, err := doc.FormValues.ToCategoryConfig()
		if err != nil {
			return nil, nil, apperr.InvalidField("formValues", err.Error())
		}
		out[name] = &categoryState{name: name, cfg: cfg, brk: doc.ToBracket(name)}
		names = append(names, name)
	}
	sort.Strings(names)
	return out, names, nil
}

func (s *Service) writeBack(state *store.TournamentState, cats map[string]*categoryState) {
	for name, cs := range cats {
		doc := state.Categories[name]
		stage, playoffs := store.FromBracket(cs.brk)
		doc.TournamentData = stage
		doc.Playoffs = playoffs
		doc.TotalMatches = len(cs.brk.AllGroupMatches()) + len(cs.brk.Playoffs)
		state.Categories[name] = doc
	}
}

// GetSchedule loads a tournament's full persisted state, falling back to
// the document-absent default per §6.
func (s *Service) GetSchedule(ctx context.Context, tournamentID string) (*store.TournamentState, error) {
	state, err := s.store.Load(ctx, tournamentID)
	if err == store.ErrNotFound {
		return store.DefaultState(tournamentID), nil
	}
	if err != nil {
		return nil, apperr.Persistence(err.Error())
	}
	return state, nil
}

// RescheduleAll clears every match's assignment across every category and
// runs the scheduler core, writing the result back in one document
// replace. A Redis SetNX lock serializes concurrent runs for the same
// tournament across server replicas.
func (s *Service) RescheduleAll(ctx context.Context, tournamentID string) (*scheduler.Result, error) {
	lockKey := cache.RescheduleLockKey(tournamentID)
	acquired, err := s.cache.SetNX(ctx, lockKey, tournamentID, s.rescheduleLockTTL)
	if err != nil {
		return nil, apperr.Persistence(err.Error())
	}
	if !acquired {
		return nil, apperr.Conflict("", "a reschedule is already in progress for this tournament")
	}
	defer s.cache.Unlock(ctx, lockKey)

	state, err := s.GetSchedule(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	settings, err := state.GlobalSettings.ToSettings()
	if err != nil {
		return nil, apperr.InvalidField("globalSettings", err.Error())
	}
	if err := settings.Validate(); err != nil {
		return nil, apperr.InvalidField("globalSettings", err.Error())
	}

	cats, names, err := s.loadCategories(state)
	if err != nil {
		return nil, err
	}

	var inputs []scheduler.CategoryInput
	for _, name := range names {
		cs := cats[name]
		resolve.ResolveAll(cs.brk)
		inputs = append(inputs, scheduler.CategoryInput{
			Name:             cs.name,
			CategoryPriority: cs.cfg.CategoryPriority,
			StartTime:        cs.cfg.StartTime,
			Bracket:          cs.brk,
		})
	}

	scheduler.ClearAll(inputs)
	result, err := scheduler.Reschedule(settings, inputs)
	if err != nil {
		if _, ok := err.(*scheduler.ErrTimeout); ok {
			return nil, &apperr.Error{Kind: apperr.KindSchedulerTimeout, Msg: err.Error()}
		}
		return nil, apperr.InvalidField("globalSettings", err.Error())
	}

	s.writeBack(state, cats)
	if err := s.store.Save(ctx, state); err != nil {
		return nil, apperr.Persistence(err.Error())
	}
	if err := s.store.RecordEvent(ctx, tournamentID, "reschedule_all", len(result.Unscheduled)); err != nil {
		s.logger.Printf("scheduling: record event: %v", err)
	}
	s.invalidateViews(ctx, tournamentID, names)

	for _, name := range names {
		for _, gm := range cats[name].brk.AllGroupMatches() {
			s.publishAssignment(tournamentID, name, gm.ID, gm.Time, gm.Court)
		}
		for _, pm := range cats[name].brk.Playoffs {
			s.publishAssignment(tournamentID, name, pm.ID, pm.Time, pm.Court)
		}
	}
	for _, u := range result.Unscheduled {
		s.hub.PublishUnscheduled(tournamentID, live.UnscheduledPayload{MatchID: u.MatchID, Category: u.Category, Reasons: u.Reasons})
	}

	return result, nil
}

func (s *Service) publishAssignment(tournamentID, category, matchID string, timeStr, court *string) {
	if timeStr == nil || court == nil {
		return
	}
	s.hub.PublishAssigned(tournamentID, live.AssignedPayload{MatchID: matchID, Category: category, Time: *timeStr, Court: *court})
}

func (s *Service) invalidateViews(ctx context.Context, tournamentID string, categories []string) {
	for _, c := range categories {
		s.cache.Delete(ctx, cache.StandingsKey(tournamentID, c))
		s.cache.Delete(ctx, cache.BracketKey(tournamentID, c))
	}
}

// Assignment is one (time, court) pair to apply to a match, used by both
// UpdateMatch and UpdateMany.
type Assignment struct {
	MatchID string
	Time    *string // nil clears the assignment
	Court   *string
}

// UpdateMatch validates and applies a single manual edit, per §4.6
// update_match: inside a court window, not before the global start, and
// not conflicting with another match on the same (time, court) or sharing
// a player at the same time.
func (s *Service) UpdateMatch(ctx context.Context, tournamentID, operator string, a Assignment) error {
	return s.applyAssignments(ctx, tournamentID, operator, []Assignment{a}, "update_match")
}

// UpdateMany applies a batch of edits atomically: if any row fails
// validation, nothing is written.
func (s *Service) UpdateMany(ctx context.Context, tournamentID, operator string, edits []Assignment) error {
	return s.applyAssignments(ctx, tournamentID, operator, edits, "update_many")
}

func (s *Service) applyAssignments(ctx context.Context, tournamentID, operator string, edits []Assignment, source string) error {
	state, err := s.GetSchedule(ctx, tournamentID)
	if err != nil {
		return err
	}
	settings, err := state.GlobalSettings.ToSettings()
	if err != nil {
		return apperr.InvalidField("globalSettings", err.Error())
	}

	cats, names, err := s.loadCategories(state)
	if err != nil {
		return err
	}
	idx := buildMatchIndex(cats)

	type appliedEdit struct {
		ref      *matchRef
		prevTime *string
		prevCourt *string
	}
	var applied []appliedEdit

	occupied := make(map[string]string) // "time|court" -> matchID, seeded with current state minus edited matches
	playerBusy := make(map[string]string) // "time|player" -> matchID
	editing := make(map[string]bool, len(edits))
	for _, e := range edits {
		editing[e.MatchID] = true
	}
	for _, ref := range idx {
		if editing[ref.id] {
			continue
		}
		t, c := ref.assignment()
		if t == nil || c == nil {
			continue
		}
		occupied[*t+"|"+*c] = ref.id
		for _, p := range ref.players() {
			playerBusy[*t+"|"+p] = ref.id
		}
	}

	for _, e := range edits {
		ref, ok := idx[e.MatchID]
		if !ok {
			return apperr.NotFound(fmt.Sprintf("match %s not found", e.MatchID))
		}

		if e.Time == nil || e.Court == nil {
			pt, pc := ref.assignment()
			applied = append(applied, appliedEdit{ref: ref, prevTime: pt, prevCourt: pc})
			continue
		}

		court, err := findCourt(settings, *e.Court)
		if err != nil {
			return err
		}
		startMin, err := slot.ParseHHMM(*e.Time)
		if err != nil {
			return apperr.OutOfWindow(e.MatchID, "invalid time format")
		}
		if startMin < settings.StartTime {
			return apperr.OutOfWindow(e.MatchID, "assignment is before the tournament start time")
		}
		if !court.FitsAt(startMin, settings.EstimatedMatchDuration) {
			return apperr.OutOfWindow(e.MatchID, fmt.Sprintf("court %s has no operating slot covering this time", *e.Court))
		}

		occKey := *e.Time + "|" + *e.Court
		if other, taken := occupied[occKey]; taken && other != e.MatchID {
			return apperr.Conflict(e.MatchID, fmt.Sprintf("court %s is already occupied at %s by %s", *e.Court, *e.Time, other))
		}
		for _, p := range ref.players() {
			key := *e.Time + "|" + p
			if other, taken := playerBusy[key]; taken && other != e.MatchID {
				return apperr.Conflict(e.MatchID, fmt.Sprintf("player %s already plays %s at %s", p, other, *e.Time))
			}
		}

		occupied[occKey] = e.MatchID
		for _, p := range ref.players() {
			playerBusy[*e.Time+"|"+p] = e.MatchID
		}

		pt, pc := ref.assignment()
		applied = append(applied, appliedEdit{ref: ref, prevTime: pt, prevCourt: pc})
	}

	var entries []audit.Entry
	now := time.Now().UTC()
	for i, e := range edits {
		a := applied[i]
		a.ref.setAssignment(e.Time, e.Court)
		entries = append(entries, audit.Entry{
			TournamentID: tournamentID,
			MatchID:      e.MatchID,
			Category:     a.ref.category,
			Operator:     operator,
			PrevTime:     a.prevTime,
			PrevCourt:    a.prevCourt,
			NewTime:      e.Time,
			NewCourt:     e.Court,
			Source:       source,
			RecordedAt:   now,
		})
	}

	s.writeBack(state, cats)
	if err := s.store.Save(ctx, state); err != nil {
		return apperr.Persistence(err.Error())
	}
	if len(entries) > 0 {
		if err := s.audit.RecordBatch(ctx, entries); err != nil {
			s.logger.Printf("scheduling: record audit batch: %v", err)
		}
	}
	s.invalidateViews(ctx, tournamentID, names)
	for _, e := range edits {
		ref := idx[e.MatchID]
		s.publishAssignment(tournamentID, ref.category, e.MatchID, e.Time, e.Court)
	}

	return nil
}

func findCourt(settings slot.GlobalSettings, name string) (slot.Court, error) {
	for _, c := range settings.Courts {
		if c.Name == name {
			return c, nil
		}
	}
	return slot.Court{}, apperr.NotFound(fmt.Sprintf("court %q not found", name))
}

// ClearAllSchedules empties every assignment in the tournament, per §4.6
// clear_all_schedules.
func (s *Service) ClearAllSchedules(ctx context.Context, tournamentID string) error {
	state, err := s.GetSchedule(ctx, tournamentID)
	if err != nil {
		return err
	}
	cats, names, err := s.loadCategories(state)
	if err != nil {
		return err
	}
	var inputs []scheduler.CategoryInput
	for _, cs := range cats {
		inputs = append(inputs, scheduler.CategoryInput{Name: cs.name, Bracket: cs.brk})
	}
	scheduler.ClearAll(inputs)
	s.writeBack(state, cats)
	if err := s.store.Save(ctx, state); err != nil {
		return apperr.Persistence(err.Error())
	}
	s.invalidateViews(ctx, tournamentID, names)
	s.hub.PublishCleared(tournamentID)
	return nil
}

// ImportScheduleCSV applies every row's (time, court) as an Assignment,
// per §6: empty time+court clears an assignment, both set applies it
// subject to the same validation as UpdateMatch, the whole import
// aborting atomically on the first invalid row.
func (s *Service) ImportScheduleCSV(ctx context.Context, tournamentID, operator string, rows []csvio.Row) error {
	edits := make([]Assignment, len(rows))
	for i, r := range rows {
		a := Assignment{MatchID: r.MatchID}
		if r.Time != "" && r.Court != "" {
			t, c := r.Time, r.Court
			a.Time, a.Court = &t, &c
		} else if r.Time != "" || r.Court != "" {
			return apperr.InvalidField("time/court", fmt.Sprintf("row %s: time and court must both be set or both empty", r.MatchID))
		}
		edits[i] = a
	}
	return s.applyAssignments(ctx, tournamentID, operator, edits, "import_schedule_csv")
}

// ExportScheduleCSV serializes every match's current assignment in the
// import format.
func (s *Service) ExportScheduleCSV(ctx context.Context, tournamentID string) ([]csvio.Row, error) {
	state, err := s.GetSchedule(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	cats, names, err := s.loadCategories(state)
	if err != nil {
		return nil, err
	}

	var rows []csvio.Row
	for _, name := range names {
		cs := cats[name]
		for _, gm := range cs.brk.AllGroupMatches() {
			rows = append(rows, groupRow(name, gm))
		}
		for _, pm := range cs.brk.Playoffs {
			rows = append(rows, playoffRow(name, pm))
		}
	}
	return rows, nil
}

func groupRow(category string, m *bracket.GroupMatch) csvio.Row {
	r := csvio.Row{MatchID: m.ID, Category: category, Stage: bracket.StageGroup, Team1: m.Team1.Key(), Team2: m.Team2.Key()}
	if m.Time != nil {
		r.Time = *m.Time
	}
	if m.Court != nil {
		r.Court = *m.Court
	}
	return r
}

func playoffRow(category string, m *bracket.PlayoffMatch) csvio.Row {
	r := csvio.Row{MatchID: m.ID, Category: category, Stage: m.Stage}
	if m.Team1 != nil {
		r.Team1 = m.Team1.Key()
	}
	if m.Team2 != nil {
		r.Team2 = m.Team2.Key()
	}
	if m.Time != nil {
		r.Time = *m.Time
	}
	if m.Court != nil {
		r.Court = *m.Court
	}
	return r
}

// UpdateTeam replaces every occurrence of a team inside a category's
// roster, group matches, and any playoff match whose resolved team
// matches, per §4.6 update_team.
func (s *Service) UpdateTeam(ctx context.Context, tournamentID, category, originalKey string, updated team.Team) error {
	state, err := s.GetSchedule(ctx, tournamentID)
	if err != nil {
		return err
	}
	doc, ok := state.Categories[category]
	if !ok {
		return apperr.NotFound(fmt.Sprintf("category %q not found", category))
	}
	cfg, err := doc.FormValues.ToCategoryConfig()
	if err != nil {
		return apperr.InvalidField("formValues", err.Error())
	}

	found := false
	for i, t := range cfg.Teams {
		if t.Key() == originalKey {
			cfg.Teams[i] = updated
			found = true
		}
	}
	if !found {
		return apperr.NotFound(fmt.Sprintf("team %q not found in category %q", originalKey, category))
	}
	doc.FormValues = store.FromCategoryConfig(cfg)

	brk := doc.ToBracket(category)
	for _, gm := range brk.AllGroupMatches() {
		if gm.Team1.Key() == originalKey {
			gm.Team1 = updated
		}
		if gm.Team2.Key() == originalKey {
			gm.Team2 = updated
		}
	}
	for _, pm := range brk.Playoffs {
		if pm.Team1 != nil && pm.Team1.Key() == originalKey {
			pm.Team1 = &updated
		}
		if pm.Team2 != nil && pm.Team2.Key() == originalKey {
			pm.Team2 = &updated
		}
	}
	stage, playoffs := store.FromBracket(brk)
	doc.TournamentData = stage
	doc.Playoffs = playoffs
	state.Categories[category] = doc

	if err := s.store.Save(ctx, state); err != nil {
		return apperr.Persistence(err.Error())
	}
	s.invalidateViews(ctx, tournamentID, []string{category})
	return nil
}

// ResetCategory regenerates a category's bracket from its stored
// configuration, discarding all scores and assignments. Supplemented per
// SPEC_FULL.md §4.7, distinct from reschedule_all (which only touches
// assignments).
func (s *Service) ResetCategory(ctx context.Context, tournamentID, category string, seed int64) error {
	state, err := s.GetSchedule(ctx, tournamentID)
	if err != nil {
		return err
	}
	doc, ok := state.Categories[category]
	if !ok {
		return apperr.NotFound(fmt.Sprintf("category %q not found", category))
	}
	cfg, err := doc.FormValues.ToCategoryConfig()
	if err != nil {
		return apperr.InvalidField("formValues", err.Error())
	}

	brk, err := bracket.Generate(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}
	stage, playoffs := store.FromBracket(brk)
	doc.TournamentData = stage
	doc.Playoffs = playoffs
	doc.TotalMatches = len(brk.AllGroupMatches()) + len(brk.Playoffs)
	state.Categories[category] = doc

	if err := s.store.Save(ctx, state); err != nil {
		return apperr.Persistence(err.Error())
	}
	if err := s.store.RecordEvent(ctx, tournamentID, "reset_category", 0); err != nil {
		s.logger.Printf("scheduling: record event: %v", err)
	}
	s.invalidateViews(ctx, tournamentID, []string{category})
	s.hub.PublishCleared(tournamentID)
	return nil
}

// RecomputeStandings is a read path: given a category's current groups,
// returns each group's ranked standings. No HTTP route calls it.
func (s *Service) RecomputeStandings(ctx context.Context, tournamentID, category string) (map[string][]standings.Standing, error) {
	state, err := s.GetSchedule(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	doc, ok := state.Categories[category]
	if !ok {
		return nil, apperr.NotFound(fmt.Sprintf("category %q not found", category))
	}
	brk := doc.ToBracket(category)
	out := make(map[string][]standings.Standing, len(brk.GroupOrder))
	for _, key := range brk.GroupOrder {
		out[key] = standings.Compute(brk.Groups[key])
	}
	return out, nil
}

// matchRef is a uniform handle onto a group or playoff match, used by the
// manual-edit validation pass so it doesn't need to branch on match kind.
type matchRef struct {
	id       string
	category string
	gm       *bracket.GroupMatch
	pm       *bracket.PlayoffMatch
}

func (r *matchRef) assignment() (*string, *string) {
	if r.gm != nil {
		return r.gm.Time, r.gm.Court
	}
	return r.pm.Time, r.pm.Court
}

func (r *matchRef) setAssignment(t, c *string) {
	if r.gm != nil {
		r.gm.Time, r.gm.Court = t, c
		return
	}
	r.pm.Time, r.pm.Court = t, c
}

func (r *matchRef) players() []string {
	if r.gm != nil {
		return append(append([]string{}, r.gm.Team1.Players()...), r.gm.Team2.Players()...)
	}
	if r.pm.Team1 == nil || r.pm.Team2 == nil {
		return nil
	}
	return append(append([]string{}, r.pm.Team1.Players()...), r.pm.Team2.Players()...)
}

func buildMatchIndex(cats map[string]*categoryState) map[string]*matchRef {
	idx := make(map[string]*matchRef)
	for _, cs := range cats {
		for _, gm := range cs.brk.AllGroupMatches() {
			idx[gm.ID] = &matchRef{id: gm.ID, category: cs.name, gm: gm}
		}
		for _, pm := range cs.brk.Playoffs {
			idx[pm.ID] = &matchRef{id: pm.ID, category: cs.name, pm: pm}
		}
	}
	return idx
}
