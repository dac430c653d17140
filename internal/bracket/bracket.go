// internal/bracket/bracket.go
// Bracket generator: produces the match graph (groups, single-elimination,
// or double-elimination) with stable, deterministic match IDs and
// placeholder strings describing each unresolved slot's dependency.

package bracket

import (
	"fmt"
	"math/rand"

	"courtsched/internal/team"
)

// Type is the structural shape of a category's tournament.
type Type string

const (
	TypeGroups     Type = "groups"
	TypeSingleElim Type = "singleElim"
	TypeDoubleElim Type = "doubleElim"
)

// Seeding selects how teams are ordered before bracket placement.
type Seeding string

const (
	SeedOrder  Seeding = "order"
	SeedRandom Seeding = "random"
)

// PhaseStartTimes carries optional per-phase minimum start times (minutes
// since midnight), configured per category.
type PhaseStartTimes struct {
	Eighths   *int
	Quarters  *int
	Semis     *int
	Finals    *int
}

// CategoryConfig is the per-category configuration the generator consumes.
type CategoryConfig struct {
	Name              string
	Type              Type
	Teams             []team.Team
	GroupCount        int
	AdvancePerGroup   int
	Seeding           Seeding
	IncludeThirdPlace bool
	StartTime         *int
	Phase             PhaseStartTimes
	CategoryPriority  int
}

// GroupMatch is a round-robin match inside a group.
type GroupMatch struct {
	ID       string
	GroupKey string
	Team1    team.Team
	Team2    team.Team
	Score1   *int
	Score2   *int
	Time     *string
	Court    *string
}

// PlayoffMatch is a match in a single- or double-elimination bracket, or a
// group-sourced knockout round. Placeholder1/Placeholder2 hold the deferred
// reference grammar from the spec ("Vencedor X", "Perdedor X", "nº do
// cat-GroupA", or a literal team key); Team1/Team2 are filled in once the
// placeholder resolver settles them.
type PlayoffMatch struct {
	ID             string
	Name           string
	Stage          string
	RoundOrder     int
	Placeholder1   string
	Placeholder2   string
	Team1          *team.Team
	Team2          *team.Team
	Score1         *int
	Score2         *int
	Time           *string
	Court          *string
	PhaseStartTime *int
}

// Stage priority constants, descending order of scheduling precedence
// (higher value schedules earlier within a tick per §4.5).
const (
	StageFinal      = "final"
	StageThird      = "third"
	StageSemifinal  = "semifinal"
	StageQuarter    = "quarterfinal"
	StageEighth     = "eighthfinal"
	StagePlayoff    = "playoff"
	StageGroup      = "group"
)

// StagePriority ranks stages for the scheduler's primary ranking key:
// Final > Third-place > Semifinal > Quarters > Eighths > other playoff > group.
func StagePriority(stage string) int {
	switch stage {
	case StageFinal:
		return 7
	case StageThird:
		return 6
	case StageSemifinal:
		return 5
	case StageQuarter:
		return 4
	case StageEighth:
		return 3
	case StagePlayoff:
		return 2
	case StageGroup:
		return 1
	default:
		return 0
	}
}

// Bracket is the full match graph generated for one category.
type Bracket struct {
	Category   string
	GroupOrder []string
	Groups     map[string][]*GroupMatch
	Playoffs   []*PlayoffMatch
}

// AllGroupMatches returns every group match across every group, in stable
// group order.
func (b *Bracket) AllGroupMatches() []*GroupMatch {
	var out []*GroupMatch
	for _, key := range b.GroupOrder {
		out = append(out, b.Groups[key]...)
	}
	return out
}

// ErrorKind classifies a bracket generation failure.
type ErrorKind string

const (
	ErrInvalidConfig ErrorKind = "InvalidConfig"
)

// Error is a structured bracket-generation failure naming the offending field.
type Error struct {
	Kind  ErrorKind
	Field string
	Msg   string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("bracket: %s (field=%s): %s", e.Kind, e.Field, e.Msg)
	}
	return fmt.Sprintf("bracket: %s: %s", e.Kind, e.Msg)
}

func invalid(field, msg string) error {
	return &Error{Kind: ErrInvalidConfig, Field: field, Msg: msg}
}

// isPowerOfTwo reports whether n is a positive power of two.
func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// validate enforces the §3/§4.1 configuration invariants before any
// generation is attempted. No partial bracket is ever emitted on failure.
func validate(cfg CategoryConfig) error {
	if cfg.Name == "" {
		return invalid("name", "category name must not be empty")
	}
	if len(cfg.Teams) < 2 {
		return invalid("teams", "at least two teams are required")
	}
	if p, dup := team.DuplicatePlayer(cfg.Teams); dup {
		return invalid("teams", fmt.Sprintf("player %q appears on more than one team", p))
	}

	switch cfg.Type {
	case TypeSingleElim:
		if !isPowerOfTwo(len(cfg.Teams)) {
			return invalid("teams", "single elimination requires a power-of-two team count")
		}
	case TypeGroups:
		if cfg.GroupCount <= 0 {
			return invalid("groupCount", "group count must be positive")
		}
		if cfg.AdvancePerGroup <= 0 {
			return invalid("advancePerGroup", "advance-per-group must be positive")
		}
		qualifiers := cfg.GroupCount * cfg.AdvancePerGroup
		if !isPowerOfTwo(qualifiers) {
			return invalid("advancePerGroup", "groups*advance must be a power of two")
		}
		minGroupSize := len(cfg.Teams) / cfg.GroupCount
		if len(cfg.Teams)%cfg.GroupCount != 0 {
			minGroupSize = len(cfg.Teams) / cfg.GroupCount
		}
		if cfg.AdvancePerGroup >= minGroupSize {
			return invalid("advancePerGroup", "advance-per-group must be strictly less than the smallest group size")
		}
	case TypeDoubleElim:
		// Any team count >= 2; byes absorb the gap to the next power of two.
	default:
		return invalid("type", fmt.Sprintf("unknown category type %q", cfg.Type))
	}

	if cfg.Seeding != SeedOrder && cfg.Seeding != SeedRandom && cfg.Seeding != "" {
		return invalid("seeding", fmt.Sprintf("unknown seeding strategy %q", cfg.Seeding))
	}

	return nil
}

// Generate produces the full match graph for a category. rng is consulted
// only when Seeding == SeedRandom; pass a seeded *rand.Rand for
// reproducible tests.
func Generate(cfg CategoryConfig, rng *rand.Rand) (*Bracket, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	switch cfg.Type {
	case TypeGroups:
		return generateGroups(cfg, rng)
	case TypeSingleElim:
		return generateSingleElim(cfg, rng)
	case TypeDoubleElim:
		return generateDoubleElim(cfg, rng)
	default:
		return nil, invalid("type", fmt.Sprintf("unknown category type %q", cfg.Type))
	}
}

// seedTeams returns teams in seeded order. "order" seeding is the identity
// (the caller's team list is already in registration/seed order); "random"
// performs a Fisher-Yates shuffle against the supplied PRNG so tests can
// pin a seed and reproduce the exact result.
func seedTeams(teams []team.Team, seeding Seeding, rng *rand.Rand) []team.Team {
	out := make([]team.Team, len(teams))
	copy(out, teams)
	if seeding == SeedRandom {
		rng.Shuffle(len(out), func(i, j int) {
			out[i], out[j] = out[j], out[i]
		})
	}
	return out
}

// bracketPositions recursively computes the standard seeding order for a
// bracket of the given power-of-two size: seed 1 meets seed `size`, seed 2
// meets seed `size-1`, and so on, with higher seeds kept apart as long as
// possible. Grounded on the teacher's createBracketPositions.
func bracketPositions(size int) []int {
	if size <= 1 {
		return []int{0}
	}
	prev := bracketPositions(size / 2)
	positions := make([]int, 0, size)
	for _, seed := range prev {
		positions = append(positions, seed, size-1-seed)
	}
	return positions
}

// progressRoundGeneric pairs consecutive match IDs from one round to seed
// the next: (ids[0],ids[1]) (ids[2],ids[3])....
func progressRoundGeneric(ids []string) [][2]string {
	var pairs [][2]string
	for i := 0; i < len(ids); i += 2 {
		pairs = append(pairs, [2]string{ids[i], ids[i+1]})
	}
	return pairs
}

func nextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size *= 2
	}
	return size
}

func groupLetter(i int) string {
	return string(rune('A' + i))
}

func roundName(remaining int) string {
	switch remaining {
	case 16:
		return "Oitavas de Final"
	case 8:
		return "Quartas de Final"
	case 4:
		return "Semifinal"
	case 2:
		return "Final"
	default:
		return fmt.Sprintf("Rodada de %d", remaining)
	}
}

func stageForRemaining(remaining int) string {
	switch remaining {
	case 2:
		return StageFinal
	case 4:
		return StageSemifinal
	case 8:
		return StageQuarter
	case 16:
		return StageEighth
	default:
		return StagePlayoff
	}
}

func phaseStartFor(cfg CategoryConfig, remaining int) *int {
	switch remaining {
	case 16:
		return cfg.Phase.Eighths
	case 8:
		return cfg.Phase.Quarters
	case 4:
		return cfg.Phase.Semis
	case 2:
		return cfg.Phase.Finals
	default:
		return nil
	}
}
