// internal/scheduler/scheduler.go
// Scheduler core: the event-driven greedy tick-loop allocator that places
// every match on a (time, court) pair honoring court exclusivity, player
// exclusivity, dependency ordering, and the third-consecutive fatigue rule.

package scheduler

import (
	"fmt"
	"sort"

	"courtsched/internal/bracket"
	"courtsched/internal/depgraph"
	"courtsched/internal/slot"
)

// maxIterations is the safety cap on tick iterations for one reschedule_all
// run (§5: 5,000-10,000 ticks). Exceeding it is a fatal scheduler error.
const maxIterations = 8000

// CategoryInput is one category's contribution to a scheduling run.
type CategoryInput struct {
	Name             string
	CategoryPriority int
	StartTime        *int // minutes since midnight; nil uses the global start
	Bracket          *bracket.Bracket
}

// UnscheduledMatch reports a match the scheduler could not place by the end
// of the tournament window, with the predicates that kept blocking it.
type UnscheduledMatch struct {
	MatchID  string
	Category string
	Reasons  []string
}

// Result is the outcome of one reschedule_all run.
type Result struct {
	Unscheduled []UnscheduledMatch
	Iterations  int
}

// ErrTimeout is returned when the safety iteration cap is exceeded.
type ErrTimeout struct{ Iterations int }

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("scheduler: exceeded safety iteration cap (%d ticks)", e.Iterations)
}

// item is the scheduler's uniform view of a group match or playoff match.
type item struct {
	id               string
	category         string
	categoryPriority int
	stage            string
	isGroup          bool
	groupNamespace   string // category + "|" + groupKey, empty for non-group matches
	categoryStart    int
	phaseStart       *int
	players          []string // nil if the teams aren't resolved yet
	deps             []depgraph.Dependency
	depNamespace     string // category, used to namespace group dependency keys

	scheduled    bool
	setStart     func(startMin int, court string)
	clearAssign  func()
}

// Reschedule clears nothing itself (callers invoke ClearAll first for
// reschedule_all semantics) and assigns (time, court) to every schedulable
// match across all categories, mutating the GroupMatch/PlayoffMatch objects
// reachable from each CategoryInput's Bracket in place.
func Reschedule(settings slot.GlobalSettings, categories []CategoryInput) (*Result, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	courts := make([]slot.Court, len(settings.Courts))
	copy(courts, settings.Courts)
	sort.Slice(courts, func(i, j int) bool { return courts[i].Priority < courts[j].Priority })

	items := buildItems(categories)

	courtNextAvailable := make(map[string]int, len(courts))
	playerNextAvailable := make(map[string]int)
	playerLastTwoStarts := make(map[string][2]int) // [secondLast, last], 0 means none
	matchFinish := make(map[string]int)
	groupTotal := make(map[string]int)
	groupScheduled := make(map[string]int)
	groupMaxFinish := make(map[string]int)

	for _, it := range items {
		if it.isGroup {
			groupTotal[it.groupNamespace]++
		}
	}

	blockedReasons := make(map[string][]string)

	t := settings.StartTime
	duration := settings.EstimatedMatchDuration
	iterations := 0
	remaining := len(items)

	for remaining > 0 && t+duration <= settings.EndTime {
		iterations++
		if iterations > maxIterations {
			return nil, &ErrTimeout{Iterations: iterations}
		}

		available := availableCourts(courts, courtNextAvailable, t, duration)
		if len(available) == 0 {
			t += duration
			continue
		}

		ready := readyItems(items, t, matchFinish, groupScheduled, groupTotal, groupMaxFinish,
			playerNextAvailable, playerLastTwoStarts, duration, blockedReasons)

		if len(ready) == 0 {
			t += duration
			continue
		}

		rankReady(ready, t, playerNextAvailable)

		usedThisTick := make(map[string]bool)
		for ci, court := range available {
			pick := pickForCourt(ready, usedThisTick, ci == 0)
			if pick == nil {
				continue
			}
			for _, p := range pick.players {
				usedThisTick[p] = true
			}
			pick.setStart(t, court.Name)
			pick.scheduled = true
			finish := t + duration
			matchFinish[pick.id] = finish
			for _, p := range pick.players {
				playerNextAvailable[p] = finish
				prev := playerLastTwoStarts[p]
				playerLastTwoStarts[p] = [2]int{prev[1], t}
			}
			courtNextAvailable[court.Name] = finish
			if pick.isGroup {
				groupScheduled[pick.groupNamespace]++
				if finish > groupMaxFinish[pick.groupNamespace] {
					groupMaxFinish[pick.groupNamespace] = finish
				}
			}
			remaining--
		}

		t += duration
	}

	var unscheduled []UnscheduledMatch
	for _, it := range items {
		if !it.scheduled {
			unscheduled = append(unscheduled, UnscheduledMatch{
				MatchID:  it.id,
				Category: it.category,
				Reasons:  blockedReasons[it.id],
			})
		}
	}

	return &Result{Unscheduled: unscheduled, Iterations: iterations}, nil
}

func availableCourts(courts []slot.Court, nextAvailable map[string]int, t, duration int) []slot.Court {
	var out []slot.Court
	for _, c := range courts {
		if nextAvailable[c.Name] > t {
			continue
		}
		if !c.FitsAt(t, duration) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func readyItems(
	items []*item,
	t int,
	matchFinish map[string]int,
	groupScheduled, groupTotal, groupMaxFinish map[string]int,
	playerNextAvailable map[string]int,
	playerLastTwoStarts map[string][2]int,
	duration int,
	blockedReasons map[string][]string,
) []*item {
	var ready []*item
	for _, it := range items {
		if it.scheduled {
			continue
		}
		var reasons []string
		ok := true

		if t < it.categoryStart {
			ok = false
			reasons = append(reasons, "before category start time")
		}
		if it.phaseStart != nil && t < *it.phaseStart {
			ok = false
			reasons = append(reasons, "before phase start time")
		}
		for _, dep := range it.deps {
			switch dep.Kind {
			case depgraph.DependsOnMatch:
				finish, scheduled := matchFinish[dep.MatchID]
				if !scheduled || finish > t {
					ok = false
					reasons = append(reasons, "awaiting dependency match "+dep.MatchID)
				}
			case depgraph.DependsOnGroupFinished:
				ns := it.depNamespace + "|" + dep.GroupKey
				if groupScheduled[ns] < groupTotal[ns] || groupMaxFinish[ns] > t {
					ok = false
					reasons = append(reasons, "awaiting group "+dep.GroupKey+" to finish")
				}
			}
		}
		if it.players == nil && len(it.deps) > 0 {
			// Playoff match whose teams are still placeholders: its deps
			// are satisfied by schedule timing alone, but player-exclusivity
			// and fatigue can't be evaluated without knowing who is
			// playing. It may still be scheduled (time/court reserved);
			// player constraints are simply vacuous for it.
		} else {
			for _, p := range it.players {
				if playerNextAvailable[p] > t {
					ok = false
					reasons = append(reasons, "player "+p+" not yet rested")
				}
				last := playerLastTwoStarts[p]
				if last[0] != 0 && last[1] != 0 && last[1] == t-duration && last[0] == t-2*duration {
					ok = false
					reasons = append(reasons, "player "+p+" would play a third consecutive match")
				}
			}
		}

		if ok {
			ready = append(ready, it)
		} else if len(reasons) > 0 {
			blockedReasons[it.id] = reasons
		}
	}
	return ready
}

// rankReady sorts the ready set by the spec's four-key lexicographic order:
// stage priority descending, category priority ascending, total accumulated
// player rest descending, minimum individual player rest descending, with
// match ID ascending as the final determinism tiebreak.
func rankReady(ready []*item, t int, playerNextAvailable map[string]int) {
	sort.SliceStable(ready, func(i, j int) bool {
		a, b := ready[i], ready[j]
		pa, pb := bracket.StagePriority(a.stage), bracket.StagePriority(b.stage)
		if pa != pb {
			return pa > pb
		}
		if a.categoryPriority != b.categoryPriority {
			return a.categoryPriority < b.categoryPriority
		}
		aTotal, aMin := restTotals(a, t, playerNextAvailable)
		bTotal, bMin := restTotals(b, t, playerNextAvailable)
		if aTotal != bTotal {
			return aTotal > bTotal
		}
		if aMin != bMin {
			return aMin > bMin
		}
		return a.id < b.id
	})
}

// restTotals computes a match's total accumulated player rest (sum, across
// its players, of time elapsed since each was last available) and the
// minimum individual rest among them. A player who has not yet played is
// treated as available since time zero, so an all-fresh match still ranks
// by how long the tournament has been running. Matches whose teams are
// still unresolved placeholders carry no rest signal and sort as a tie.
func restTotals(it *item, t int, playerNextAvailable map[string]int) (total, min int) {
	if len(it.players) == 0 {
		return 0, 0
	}
	min = -1
	for _, p := range it.players {
		rest := t - playerNextAvailable[p]
		total += rest
		if min == -1 || rest < min {
			min = rest
		}
	}
	return total, min
}

// pickForCourt returns the first ready, not-yet-used-this-tick match whose
// players don't collide with a match already placed this tick. topCourt
// requests the playoff-over-group preference for the single highest
// priority court in the tick.
func pickForCourt(ready []*item, usedThisTick map[string]bool, topCourt bool) *item {
	pickIndex := -1
	if topCourt {
		for i, it := range ready {
			if it == nil || it.stage == bracket.StageGroup {
				continue
			}
			if !collides(it, usedThisTick) {
				pickIndex = i
				break
			}
		}
	}
	if pickIndex == -1 {
		for i, it := range ready {
			if it == nil {
				continue
			}
			if !collides(it, usedThisTick) {
				pickIndex = i
				break
			}
		}
	}
	if pickIndex == -1 {
		return nil
	}
	picked := ready[pickIndex]
	copy(ready[pickIndex:], ready[pickIndex+1:])
	ready[len(ready)-1] = nil
	return picked
}

func collides(it *item, usedThisTick map[string]bool) bool {
	for _, p := range it.players {
		if usedThisTick[p] {
			return true
		}
	}
	return false
}

func buildItems(categories []CategoryInput) []*item {
	var items []*item
	for _, c := range categories {
		start := 0
		if c.StartTime != nil {
			start = *c.StartTime
		}
		g := depgraph.Build(c.Bracket)

		for _, gm := range c.Bracket.AllGroupMatches() {
			gm := gm
			items = append(items, &item{
				id:               gm.ID,
				category:         c.Name,
				categoryPriority: c.CategoryPriority,
				stage:            bracket.StageGroup,
				isGroup:          true,
				groupNamespace:   c.Name + "|" + gm.GroupKey,
				categoryStart:    start,
				players:          append(append([]string{}, gm.Team1.Players()...), gm.Team2.Players()...),
				deps:             nil,
				depNamespace:     c.Name,
				setStart: func(startMin int, court string) {
					timeStr := slot.FormatHHMM(startMin)
					gm.Time = &timeStr
					courtCopy := court
					gm.Court = &courtCopy
				},
				clearAssign: func() { gm.Time = nil; gm.Court = nil },
			})
		}

		for _, pm := range c.Bracket.Playoffs {
			pm := pm
			var players []string
			if pm.Team1 != nil && pm.Team2 != nil {
				players = append(append([]string{}, pm.Team1.Players()...), pm.Team2.Players()...)
			}
			items = append(items, &item{
				id:               pm.ID,
				category:         c.Name,
				categoryPriority: c.CategoryPriority,
				stage:            pm.Stage,
				isGroup:          false,
				categoryStart:    start,
				phaseStart:       pm.PhaseStartTime,
				players:          players,
				deps:             g.Dependencies(pm.ID),
				depNamespace:     c.Name,
				setStart: func(startMin int, court string) {
					timeStr := slot.FormatHHMM(startMin)
					pm.Time = &timeStr
					courtCopy := court
					pm.Court = &courtCopy
				},
				clearAssign: func() { pm.Time = nil; pm.Court = nil },
			})
		}
	}
	return items
}

// ClearAll empties every match's assignment across every category, the
// first step of reschedule_all.
func ClearAll(categories []CategoryInput) {
	for _, it := range buildItems(categories) {
		it.clearAssign()
	}
}
