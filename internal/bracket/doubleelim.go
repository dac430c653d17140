// internal/bracket/doubleelim.go
// Double-elimination bracket generation: upper bracket with byes, lower
// bracket with alternating internal/drop-down rounds, and the grand final.

package bracket

import (
	"fmt"
	"math/rand"

	"courtsched/internal/team"
)

// buildUpperSlots arranges n teams into a bracket of the next power of two,
// leaving the remainder as byes. Under "order" seeding, bracketPositions
// interleaves the seed list so the top `byes` seeds land on a bye slot
// automatically (the standard seeding guarantee: top seeds draw the bye).
// Under "random" seeding, teams are shuffled and placed sequentially; the
// last `byes` entries in the shuffled list receive the bye.
func buildUpperSlots(seeded []team.Team, seeding Seeding) []*team.Team {
	n := len(seeded)
	size := nextPowerOfTwo(n)
	byes := size - n
	slots := make([]*team.Team, size)

	if seeding == SeedRandom {
		for i := 0; i < n; i++ {
			t := seeded[i]
			slots[i] = &t
		}
		// slots[n:] stay nil (bye) — the last `byes` shuffled entries.
		return slots
	}

	positions := bracketPositions(size)
	// positions[slot] gives the seed index that belongs in that slot, for a
	// full bracket of size `size`. Seed indices >= n don't exist; those
	// slots are byes. Because bracketPositions keeps high seeds maximally
	// separated and low seed-index values are spread across the widest
	// splits first, seed indices n..size-1 (the lowest-ranked, nonexistent
	// "ghost" seeds) fall on the slots paired against the top `byes` seeds.
	for slot, seedIdx := range positions {
		if seedIdx < n {
			t := seeded[seedIdx]
			slots[slot] = &t
		}
	}
	_ = byes
	return slots
}

func generateDoubleElim(cfg CategoryConfig, rng *rand.Rand) (*Bracket, error) {
	seeded := seedTeams(cfg.Teams, cfg.Seeding, rng)
	slots := buildUpperSlots(seeded, cfg.Seeding)
	size := len(slots)

	b := &Bracket{Category: cfg.Name}
	var playoffs []*PlayoffMatch

	upperWinners, upperLosersByRound, err := generateUpperBracket(cfg, slots, &playoffs)
	if err != nil {
		return nil, err
	}

	lowerFinalist := generateLowerBracket(cfg, upperLosersByRound, size, &playoffs)

	lastRound := playoffs[len(playoffs)-1].RoundOrder
	gfRound := lastRound + 1
	playoffs = append(playoffs, &PlayoffMatch{
		ID:           fmt.Sprintf("%s-GF-Jogo1", cfg.Name),
		Name:         "Grande Final",
		Stage:        StageFinal,
		RoundOrder:   gfRound,
		Placeholder1: upperWinners,
		Placeholder2: lowerFinalist,
		PhaseStartTime: cfg.Phase.Finals,
	})

	if cfg.IncludeThirdPlace {
		if id, ok := preUpperFinalLoserPair(playoffs); ok {
			playoffs = append(playoffs, &PlayoffMatch{
				ID:           fmt.Sprintf("%s-3P-Jogo1", cfg.Name),
				Name:         "Disputa de 3º Lugar",
				Stage:        StageThird,
				RoundOrder:   gfRound,
				Placeholder1: "Perdedor " + id[0],
				Placeholder2: "Perdedor " + id[1],
			})
		}
	}

	b.Playoffs = playoffs
	return b, nil
}

// generateUpperBracket builds every round of the winners' bracket. A slot
// pairing where one side is a bye (nil) auto-advances the present team with
// no match object created: its literal team key becomes the placeholder
// feeding the next round directly, matching the spec's rule that any
// string not of the form "Vencedor X"/"Perdedor X"/"pos do Group" is a
// literal team key. Returns the final upper-bracket-champion placeholder
// and a map of round number to the "Perdedor X" placeholders produced by
// real matches in that round (byes produce no loser).
func generateUpperBracket(cfg CategoryConfig, slots []*team.Team, playoffs *[]*PlayoffMatch) (string, map[int][]string, error) {
	size := len(slots)
	losersByRound := make(map[int][]string)

	// current holds, per live slot, the placeholder string advancing from it.
	current := make([]string, size)
	for i, t := range slots {
		if t != nil {
			current[i] = t.Key()
		} else {
			current[i] = "" // bye marker
		}
	}

	remaining := size
	roundNum := 1

	for remaining > 1 {
		var next []string
		for i := 0; i < len(current); i += 2 {
			a, c := current[i], current[i+1]
			switch {
			case a == "" && c == "":
				next = append(next, "")
			case a == "":
				next = append(next, c)
			case c == "":
				next = append(next, a)
			default:
				id := fmt.Sprintf("%s-U-R%d-Jogo%d", cfg.Name, roundNum, i/2+1)
				m := &PlayoffMatch{
					ID:             id,
					Name:           "Upper " + roundName(remaining),
					Stage:          stageForRemaining(remaining),
					RoundOrder:     roundNum,
					Placeholder1:   a,
					Placeholder2:   c,
					PhaseStartTime: phaseStartFor(cfg, remaining),
				}
				*playoffs = append(*playoffs, m)
				next = append(next, "Vencedor "+id)
				losersByRound[roundNum] = append(losersByRound[roundNum], "Perdedor "+id)
			}
		}
		current = next
		remaining /= 2
		roundNum++
	}

	return current[0], losersByRound, nil
}

// generateLowerBracket consumes the upper bracket's per-round losers,
// alternating "internal" rounds (lower-bracket survivors only, halving the
// field) with "drop-down" rounds (lower-bracket survivors paired against
// newly dropped upper-bracket losers, mirrored index so the highest upper
// seed to drop meets the weakest lower survivor). Returns the final
// lower-bracket-finalist placeholder.
func generateLowerBracket(cfg CategoryConfig, upperLosersByRound map[int][]string, upperSize int, playoffs *[]*PlayoffMatch) string {
	totalUpperRounds := 0
	for totalUpperRounds = 1; 1<<totalUpperRounds < upperSize; totalUpperRounds++ {
	}

	current := upperLosersByRound[1]
	lbRound := 1

	for nextDrop := 2; nextDrop <= totalUpperRounds || len(current) > 1; nextDrop++ {
		if len(current) > 1 {
			var next []string
			for i := 0; i < len(current); i += 2 {
				id := fmt.Sprintf("%s-L-R%d-Jogo%d", cfg.Name, lbRound, i/2+1)
				*playoffs = append(*playoffs, &PlayoffMatch{
					ID:           id,
					Name:         fmt.Sprintf("Lower Bracket Rodada %d", lbRound),
					Stage:        StagePlayoff,
					RoundOrder:   lbRound,
					Placeholder1: current[i],
					Placeholder2: current[i+1],
				})
				next = append(next, "Vencedor "+id)
			}
			current = next
			lbRound++
		}

		dropped := upperLosersByRound[nextDrop]
		if len(dropped) == 0 {
			if nextDrop > totalUpperRounds {
				break
			}
			continue
		}

		// Pair every lower-bracket survivor against a newly dropped upper
		// loser, mirrored index so the highest upper seed to drop meets the
		// weakest lower survivor. Byes in the upper bracket can leave the
		// two sides uneven; whichever side has a surplus carries its extra
		// entrants straight into the next round instead of losing them, the
		// same way an upper-bracket bye auto-advances.
		pairs := len(current)
		if len(dropped) < pairs {
			pairs = len(dropped)
		}
		var next []string
		for i := 0; i < pairs; i++ {
			id := fmt.Sprintf("%s-L-R%d-Jogo%d", cfg.Name, lbRound, i+1)
			*playoffs = append(*playoffs, &PlayoffMatch{
				ID:           id,
				Name:         fmt.Sprintf("Lower Bracket Rodada %d", lbRound),
				Stage:        StagePlayoff,
				RoundOrder:   lbRound,
				Placeholder1: current[i],
				Placeholder2: dropped[len(dropped)-1-i],
			})
			next = append(next, "Vencedor "+id)
		}
		if len(current) > pairs {
			next = append(next, current[pairs:]...)
		}
		if len(dropped) > pairs {
			next = append(next, dropped[:len(dropped)-pairs]...)
		}
		current = next
		lbRound++

		if nextDrop >= totalUpperRounds {
			break
		}
	}

	if len(current) == 1 {
		return current[0]
	}
	return current[0]
}

// preUpperFinalLoserPair identifies the two matches whose losers contest
// third place in a double-elimination bracket with third-place enabled:
// the two semifinal-equivalent matches of the upper bracket, i.e. the
// round immediately preceding the upper-bracket final.
func preUpperFinalLoserPair(playoffs []*PlayoffMatch) ([2]string, bool) {
	maxUpperRound := 0
	for _, m := range playoffs {
		if len(m.ID) > 2 && containsUpperTag(m.ID) && m.RoundOrder > maxUpperRound {
			maxUpperRound = m.RoundOrder
		}
	}
	var ids []string
	for _, m := range playoffs {
		if containsUpperTag(m.ID) && m.RoundOrder == maxUpperRound-1 {
			ids = append(ids, m.ID)
		}
	}
	if len(ids) == 2 {
		return [2]string{ids[0], ids[1]}, true
	}
	return [2]string{}, false
}

func containsUpperTag(id string) bool {
	for i := 0; i+2 < len(id); i++ {
		if id[i] == '-' && id[i+1] == 'U' && id[i+2] == '-' {
			return true
		}
	}
	return false
}
