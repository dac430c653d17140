// internal/standings/standings.go
// Standings evaluator: turns a group's played matches into ranked rows.

package standings

import (
	"sort"

	"courtsched/internal/bracket"
	"courtsched/internal/team"
)

// Standing is one team's row in a group table.
type Standing struct {
	Team          team.Team
	Played        int
	Wins          int
	Losses        int
	SetsWon       int
	SetsLost      int
	SetDifference int
}

// Compute builds the ranked standings table for one group. Only matches
// with both scores set are counted; unplayed matches contribute nothing.
// Ranking order: wins desc, set difference desc, sets won desc; any
// remaining tie is left in input order (first-appearance-in-matches), per
// SliceStable, rather than broken by an arbitrary further key.
func Compute(matches []*bracket.GroupMatch) []Standing {
	rows := make(map[string]*Standing)
	order := make([]string, 0)

	ensure := func(t team.Team) *Standing {
		key := t.Key()
		if s, ok := rows[key]; ok {
			return s
		}
		s := &Standing{Team: t}
		rows[key] = s
		order = append(order, key)
		return s
	}

	for _, m := range matches {
		s1 := ensure(m.Team1)
		s2 := ensure(m.Team2)
		if m.Score1 == nil || m.Score2 == nil {
			continue
		}
		s1.Played++
		s2.Played++
		s1.SetsWon += *m.Score1
		s1.SetsLost += *m.Score2
		s2.SetsWon += *m.Score2
		s2.SetsLost += *m.Score1
		switch {
		case *m.Score1 > *m.Score2:
			s1.Wins++
			s2.Losses++
		case *m.Score2 > *m.Score1:
			s2.Wins++
			s1.Losses++
		}
	}

	out := make([]Standing, 0, len(order))
	for _, key := range order {
		s := rows[key]
		s.SetDifference = s.SetsWon - s.SetsLost
		out = append(out, *s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		if out[i].SetDifference != out[j].SetDifference {
			return out[i].SetDifference > out[j].SetDifference
		}
		return out[i].SetsWon > out[j].SetsWon
	})

	return out
}

// IsGroupFinished reports whether every match in the group has a result.
func IsGroupFinished(matches []*bracket.GroupMatch) bool {
	for _, m := range matches {
		if m.Score1 == nil || m.Score2 == nil {
			return false
		}
	}
	return true
}

// TeamAtRank returns the team holding position pos (1-indexed) in the
// standings table, or false if the group isn't finished yet or pos is out
// of range.
func TeamAtRank(matches []*bracket.GroupMatch, pos int) (team.Team, bool) {
	if !IsGroupFinished(matches) {
		return team.Team{}, false
	}
	rows := Compute(matches)
	if pos < 1 || pos > len(rows) {
		return team.Team{}, false
	}
	return rows[pos-1].Team, true
}
