// internal/bracket/singleelim.go
// Pure single-elimination bracket generation.

package bracket

import (
	"fmt"
	"math/rand"

	"courtsched/internal/team"
)

func generateSingleElim(cfg CategoryConfig, rng *rand.Rand) (*Bracket, error) {
	seeded := seedTeams(cfg.Teams, cfg.Seeding, rng)
	n := len(seeded)

	b := &Bracket{Category: cfg.Name}

	var playoffs []*PlayoffMatch
	currentIDs := make([]string, 0, n/2)
	remaining := n
	roundNum := 1

	slotOrder := seeded
	if cfg.Seeding != SeedRandom {
		positions := bracketPositions(n)
		slotOrder = make([]team.Team, n)
		for slot, seedIdx := range positions {
			slotOrder[slot] = seeded[seedIdx]
		}
	}

	for i := 0; i < n; i += 2 {
		id := fmt.Sprintf("%s-R%d-Jogo%d", cfg.Name, roundNum, i/2+1)
		t1, t2 := slotOrder[i], slotOrder[i+1]
		playoffs = append(playoffs, &PlayoffMatch{
			ID:             id,
			Name:           roundName(remaining),
			Stage:          stageForRemaining(remaining),
			RoundOrder:     roundNum,
			Placeholder1:   t1.Key(),
			Placeholder2:   t2.Key(),
			Team1:          &t1,
			Team2:          &t2,
			PhaseStartTime: phaseStartFor(cfg, remaining),
		})
		currentIDs = append(currentIDs, id)
	}
	remaining /= 2

	for remaining > 1 {
		roundNum++
		nextIDs := make([]string, 0, remaining/2)
		pairs := progressRoundGeneric(currentIDs)
		for i, pair := range pairs {
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

	if cfg.IncludeThirdPlace && n >= 4 {
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

	b.Playoffs = playoffs
	return b, nil
}
