// internal/resolve/resolve.go
// Placeholder resolver: settles "Vencedor X"/"Perdedor X"/"pos do Group"
// deferred references into concrete teams by fixpoint iteration over the
// whole tournament state.

package resolve

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"courtsched/internal/bracket"
	"courtsched/internal/standings"
	"courtsched/internal/team"
)

// maxPasses bounds the fixpoint loop. Any well-formed dependency graph
// (acyclic by construction) settles in at most the bracket's depth, which
// is bounded by log2(teamCount); 10 passes comfortably covers every
// realistic single-day bracket size.
const maxPasses = 10

// Kind tags the parsed form of a placeholder string.
type Kind int

const (
	KindLiteral Kind = iota
	KindWinnerOf
	KindLoserOf
	KindGroupRank
)

// Placeholder is the parsed form of a deferred match-slot reference.
type Placeholder struct {
	Kind     Kind
	MatchID  string
	GroupKey string
	Category string
	Rank     int
	Literal  string
}

var groupRankPattern = regexp.MustCompile(`^(\d+)º do (.+)-(Group[A-Z])$`)

// Parse classifies a placeholder string per the spec's grammar: "Vencedor
// X", "Perdedor X", "Nº do cat-GroupK", or (falling through) a literal
// team key.
func Parse(s string) Placeholder {
	switch {
	case strings.HasPrefix(s, "Vencedor "):
		return Placeholder{Kind: KindWinnerOf, MatchID: strings.TrimPrefix(s, "Vencedor ")}
	case strings.HasPrefix(s, "Perdedor "):
		return Placeholder{Kind: KindLoserOf, MatchID: strings.TrimPrefix(s, "Perdedor ")}
	default:
		if m := groupRankPattern.FindStringSubmatch(s); m != nil {
			rank, _ := strconv.Atoi(m[1])
			return Placeholder{Kind: KindGroupRank, Category: m[2], GroupKey: m[3], Rank: rank}
		}
		return Placeholder{Kind: KindLiteral, Literal: s}
	}
}

// MatchIndex is a lookup of every match (group or playoff) by ID, used to
// find the winner/loser of "Vencedor X"/"Perdedor X" references.
type MatchIndex struct {
	groupByID   map[string]*bracket.GroupMatch
	playoffByID map[string]*bracket.PlayoffMatch
	groupsByKey map[string][]*bracket.GroupMatch
}

// BuildIndex indexes every match in a bracket for resolution lookups.
func BuildIndex(b *bracket.Bracket) *MatchIndex {
	idx := &MatchIndex{
		groupByID:   make(map[string]*bracket.GroupMatch),
		playoffByID: make(map[string]*bracket.PlayoffMatch),
		groupsByKey: make(map[string][]*bracket.GroupMatch),
	}
	for _, key := range b.GroupOrder {
		idx.groupsByKey[key] = b.Groups[key]
		for _, m := range b.Groups[key] {
			idx.groupByID[m.ID] = m
		}
	}
	for _, m := range b.Playoffs {
		idx.playoffByID[m.ID] = m
	}
	return idx
}

func winnerLoser(score1, score2 *int) (winnerIsTeam1 bool, decided bool) {
	if score1 == nil || score2 == nil || *score1 == *score2 {
		return false, false
	}
	return *score1 > *score2, true
}

// resolveOne attempts to settle a single placeholder against the current
// state of the index. Returns (team, true) if it could be settled now.
func (idx *MatchIndex) resolveOne(p Placeholder) (team.Team, bool) {
	switch p.Kind {
	case KindLiteral:
		return team.FromKey(p.Literal), true

	case KindGroupRank:
		matches := idx.groupsByKey[p.GroupKey]
		return standings.TeamAtRank(matches, p.Rank)

	case KindWinnerOf, KindLoserOf:
		if gm, ok := idx.groupByID[p.MatchID]; ok {
			won, decided := winnerLoser(gm.Score1, gm.Score2)
			if !decided {
				return team.Team{}, false
			}
			if (p.Kind == KindWinnerOf) == won {
				return gm.Team1, true
			}
			return gm.Team2, true
		}
		if pm, ok := idx.playoffByID[p.MatchID]; ok {
			if pm.Team1 == nil || pm.Team2 == nil {
				return team.Team{}, false
			}
			won, decided := winnerLoser(pm.Score1, pm.Score2)
			if !decided {
				return team.Team{}, false
			}
			if (p.Kind == KindWinnerOf) == won {
				return *pm.Team1, true
			}
			return *pm.Team2, true
		}
		return team.Team{}, false
	}
	return team.Team{}, false
}

// ResolveAll runs the fixpoint loop: on each pass, every still-unresolved
// playoff match slot is re-evaluated against the current index; resolved
// teams are written back immediately so later matches in the same pass can
// see them. Stops after maxPasses regardless of convergence — remaining
// unresolved slots simply stay nil, to be reported by the scheduler as
// "awaiting dependency".
func ResolveAll(b *bracket.Bracket) {
	idx := BuildIndex(b)
	for pass := 0; pass < maxPasses; pass++ {
		changed := false
		for _, m := range b.Playoffs {
			if m.Team1 == nil {
				if t, ok := idx.resolveOne(Parse(m.Placeholder1)); ok {
					m.Team1 = &t
					changed = true
				}
			}
			if m.Team2 == nil {
				if t, ok := idx.resolveOne(Parse(m.Placeholder2)); ok {
					m.Team2 = &t
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
}

// Describe renders a human-readable explanation of why a placeholder is
// still unresolved.
func Describe(p Placeholder) string {
	switch p.Kind {
	case KindWinnerOf:
		return fmt.Sprintf("awaiting winner of %s", p.MatchID)
	case KindLoserOf:
		return fmt.Sprintf("awaiting loser of %s", p.MatchID)
	case KindGroupRank:
		return fmt.Sprintf("awaiting rank %d of %s-%s to finish", p.Rank, p.Category, p.GroupKey)
	default:
		return "awaiting dependency"
	}
}
