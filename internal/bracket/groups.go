// internal/bracket/groups.go
// Group-stage generation: serpentine distribution, round robin, and the
// qualifier placeholders feeding the groups-to-playoffs bracket.

package bracket

import (
	"fmt"
	"math/rand"

	"courtsched/internal/team"
)

// distributeGroups spreads seeded teams across groupCount groups using a
// serpentine (boustrophedon) pattern: seed 1 to group A, seed 2 to group B,
// ..., then the direction reverses for the next row, so seed strength is
// balanced across groups the way a standard draw snakes seeds.
func distributeGroups(seeded []team.Team, groupCount int) [][]team.Team {
	groups := make([][]team.Team, groupCount)
	row := 0
	forward := true
	col := 0
	for _, t := range seeded {
		groups[col] = append(groups[col], t)
		if forward {
			col++
			if col == groupCount {
				col = groupCount - 1
				forward = false
				row++
			}
		} else {
			col--
			if col < 0 {
				col = 0
				forward = true
				row++
			}
		}
	}
	_ = row
	return groups
}

// roundRobinPairs returns every unordered pair (i, j) with i < j from a
// group of n teams, in natural scan order: (0,1) (0,2) ... (0,n-1) (1,2) ...
func roundRobinPairs(n int) [][2]int {
	var pairs [][2]int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, [2]int{i, j})
		}
	}
	return pairs
}

func generateGroups(cfg CategoryConfig, rng *rand.Rand) (*Bracket, error) {
	seeded := seedTeams(cfg.Teams, cfg.Seeding, rng)
	groups := distributeGroups(seeded, cfg.GroupCount)

	b := &Bracket{
		Category: cfg.Name,
		Groups:   make(map[string][]*GroupMatch, cfg.GroupCount),
	}

	for g, members := range groups {
		key := "Group" + groupLetter(g)
		b.GroupOrder = append(b.GroupOrder, key)
		pairs := roundRobinPairs(len(members))
		matches := make([]*GroupMatch, 0, len(pairs))
		for i, p := range pairs {
			matches = append(matches, &GroupMatch{
				ID:       fmt.Sprintf("%s-%s-Jogo%d", cfg.Name, key, i+1),
				GroupKey: key,
				Team1:    members[p[0]],
				Team2:    members[p[1]],
			})
		}
		b.Groups[key] = matches
	}

	playoffs, err := generateGroupPlayoffs(cfg, b)
	if err != nil {
		return nil, err
	}
	b.Playoffs = playoffs
	return b, nil
}

// qualifierPlaceholder is the spec's deferred reference to "the team ranked
// pos (1-indexed) in group key", rendered as "pos do cat-key".
func qualifierPlaceholder(cat, groupKey string, pos int) string {
	return fmt.Sprintf("%dº do %s-%s", pos, cat, groupKey)
}

// firstPlayoffPlaceholders builds the round-1 bracket pairing of group
// qualifiers. The canonical 4-groups/top-2 case uses the standard draw
// arrangement (1A-2D, 2B-1C, 1B-2C, 2A-1D), so no first-round match pairs
// two teams from the same group; any other group/advance combination falls back to a
// generic mirrored pairing over the position-major qualifier list
// (all rank-1 finishers, then all rank-2 finishers, ...), pairing slot i
// against slot (n-1-i).
func firstPlayoffPlaceholders(cat string, groupKeys []string, advance int) []string {
	if len(groupKeys) == 4 && advance == 2 {
		g := groupKeys
		return []string{
			qualifierPlaceholder(cat, g[0], 1), qualifierPlaceholder(cat, g[3], 2),
			qualifierPlaceholder(cat, g[1], 2), qualifierPlaceholder(cat, g[2], 1),
			qualifierPlaceholder(cat, g[1], 1), qualifierPlaceholder(cat, g[2], 2),
			qualifierPlaceholder(cat, g[0], 2), qualifierPlaceholder(cat, g[3], 1),
		}
	}

	var qualifiers []string
	for pos := 1; pos <= advance; pos++ {
		for _, key := range groupKeys {
			qualifiers = append(qualifiers, qualifierPlaceholder(cat, key, pos))
		}
	}
	n := len(qualifiers)
	ordered := make([]string, n)
	for i := 0; i < n/2; i++ {
		ordered[i*2] = qualifiers[i]
		ordered[i*2+1] = qualifiers[n-1-i]
	}
	return ordered
}

// generateGroupPlayoffs builds the knockout stage seeded from group
// qualifiers: round 1 pairs qualifier placeholders directly, subsequent
// rounds pair winner placeholders of the previous round, following the
// same round-naming and stage-priority rules as a pure single-elimination
// bracket of the same size.
func generateGroupPlayoffs(cfg CategoryConfig, b *Bracket) ([]*PlayoffMatch, error) {
	qualifiers := cfg.GroupCount * cfg.AdvancePerGroup
	if qualifiers < 2 {
		return nil, nil
	}

	placeholders := firstPlayoffPlaceholders(cfg.Name, b.GroupOrder, cfg.AdvancePerGroup)
	remaining := qualifiers
	var playoffs []*PlayoffMatch
	roundNum := 1
	currentIDs := make([]string, 0, remaining/2)

	for i := 0; i < len(placeholders); i += 2 {
		id := fmt.Sprintf("%s-R%d-Jogo%d", cfg.Name, roundNum, i/2+1)
		playoffs = append(playoffs, &PlayoffMatch{
			ID:             id,
			Name:           roundName(remaining),
			Stage:          stageForRemaining(remaining),
			RoundOrder:     roundNum,
			Placeholder1:   placeholders[i],
			Placeholder2:   placeholders[i+1],
			PhaseStartTime: phaseStartFor(cfg, remaining),
		})
		currentIDs = append(currentIDs, id)
	}
	remaining /= 2

	for remaining > 1 {
		roundNum++
		nextIDs := make([]string, 0, remaining/2)
		matched := progressGroupRound(currentIDs)
		for i, pair := range matched {
			id := fmt.Sprintf("%s-R%d-Jogo%d", cfg.Name, roundNum, i+1)
			playoffs = append(playoffs, &PlayoffMatch{
				ID:             id,
				Name:           roundName(remaining),
				Stage:          stageForRemaining(remaining),
				RoundOrder:     roundNum,
				Placeholder1:   "Vencedor " + pair[0],
				Placeholder2:   "Vencedor " + pair[1],
				PhaseStartTime: phaseStartFor(cfg, remaining),
			})
			nextIDs = append(nextIDs, id)
		}
		currentIDs = nextIDs
		remaining /= 2
	}

	if cfg.IncludeThirdPlace && qualifiers >= 4 {
		semiIDs := semifinalRoundIDs(playoffs)
		if len(semiIDs) == 2 {
			playoffs = append(playoffs, &PlayoffMatch{
				ID:           fmt.Sprintf("%s-3P-Jogo1", cfg.Name),
				Name:         "Disputa de 3º Lugar",
				Stage:        StageThird,
				RoundOrder:   playoffs[len(playoffs)-1].RoundOrder,
				Placeholder1: "Perdedor " + semiIDs[0],
				Placeholder2: "Perdedor " + semiIDs[1],
			})
		}
	}

	return playoffs, nil
}

// progressGroupRound pairs match IDs from one group-playoff round to seed
// the next, using the fixed (W1,W4)(W3,W2) arrangement whenever the round
// has four matches (quarters to semis, whatever the group/advance
// combination), and generic consecutive pairing otherwise.
func progressGroupRound(ids []string) [][2]string {
	if len(ids) == 4 {
		return [][2]string{{ids[0], ids[3]}, {ids[2], ids[1]}}
	}
	return progressRoundGeneric(ids)
}

// semifinalRoundIDs returns the match IDs of the semifinal round, used to
// source the third-place match's loser placeholders.
func semifinalRoundIDs(playoffs []*PlayoffMatch) []string {
	var ids []string
	for _, m := range playoffs {
		if m.Stage == StageSemifinal {
			ids = append(ids, m.ID)
		}
	}
	return ids
}
