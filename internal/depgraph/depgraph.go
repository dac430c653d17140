// internal/depgraph/depgraph.go
// Dependency graph builder: which matches (or whole groups finishing) a
// playoff match must wait on before it is eligible to schedule.

package depgraph

import (
	"courtsched/internal/bracket"
	"courtsched/internal/resolve"
	"courtsched/internal/standings"
)

// Graph maps each playoff match ID to the set of prerequisites that must
// be satisfied before the match can be assigned a time/court.
type Graph struct {
	deps map[string][]Dependency
}

// DependencyKind distinguishes a single-match prerequisite from a
// whole-group-finished prerequisite.
type DependencyKind int

const (
	DependsOnMatch DependencyKind = iota
	DependsOnGroupFinished
)

// Dependency is one prerequisite of a playoff match.
type Dependency struct {
	Kind     DependencyKind
	MatchID  string
	GroupKey string
}

// Build constructs the dependency graph for a bracket. The graph is
// acyclic by construction: a match's placeholders can only reference
// earlier rounds or groups, never itself or a later round.
func Build(b *bracket.Bracket) *Graph {
	g := &Graph{deps: make(map[string][]Dependency)}
	for _, m := range b.Playoffs {
		var deps []Dependency
		for _, raw := range []string{m.Placeholder1, m.Placeholder2} {
			p := resolve.Parse(raw)
			switch p.Kind {
			case resolve.KindWinnerOf, resolve.KindLoserOf:
				deps = append(deps, Dependency{Kind: DependsOnMatch, MatchID: p.MatchID})
			case resolve.KindGroupRank:
				deps = append(deps, Dependency{Kind: DependsOnGroupFinished, GroupKey: p.GroupKey})
			}
		}
		g.deps[m.ID] = deps
	}
	return g
}

// Ready reports whether every prerequisite of matchID is satisfied: each
// match dependency must be finished (both scores recorded), and each
// group dependency must have every match in the group finished. It looks
// only at recorded scores, not at scheduled finish times.
func (g *Graph) Ready(matchID string, playoffByID map[string]*bracket.PlayoffMatch, groupsByKey map[string][]*bracket.GroupMatch) bool {
	for _, dep := range g.deps[matchID] {
		switch dep.Kind {
		case DependsOnMatch:
			pm, ok := playoffByID[dep.MatchID]
			if !ok || !matchFinished(pm) {
				return false
			}
		case DependsOnGroupFinished:
			if !standings.IsGroupFinished(groupsByKey[dep.GroupKey]) {
				return false
			}
		}
	}
	return true
}

func matchFinished(m *bracket.PlayoffMatch) bool {
	return m.Score1 != nil && m.Score2 != nil
}

// Dependencies returns the raw prerequisite list for a match, for callers
// that need to explain why a match is blocked.
func (g *Graph) Dependencies(matchID string) []Dependency {
	return g.deps[matchID]
}
