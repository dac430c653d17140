// internal/team/team.go
// Team/identity model: canonical team keys and player extraction.

package team

import (
	"sort"
	"strings"
)

// Team is a pair of players. Player2 is empty for singles-style categories.
type Team struct {
	Player1 string
	Player2 string
}

// Key returns the canonical identity of a team: the sorted pair of player
// names joined by " e ". Two teams with the same players, in any order,
// produce the same key.
func (t Team) Key() string {
	if t.Player2 == "" {
		return t.Player1
	}
	players := []string{t.Player1, t.Player2}
	sort.Strings(players)
	return strings.Join(players, " e ")
}

// Equal compares two teams by canonical key.
func (t Team) Equal(o Team) bool {
	return t.Key() == o.Key()
}

// Players returns the non-empty player names belonging to this team.
func (t Team) Players() []string {
	if t.Player2 == "" {
		return []string{t.Player1}
	}
	return []string{t.Player1, t.Player2}
}

// New builds a team from a player pair.
func New(player1, player2 string) Team {
	return Team{Player1: player1, Player2: player2}
}

// FromKey reconstructs a Team from a canonical key produced by Key. This is
// lossy when Key joined via " e " and a player name itself contains " e ";
// player names are not checked for that separator anywhere.
func FromKey(key string) Team {
	parts := strings.SplitN(key, " e ", 2)
	if len(parts) == 2 {
		return Team{Player1: parts[0], Player2: parts[1]}
	}
	return Team{Player1: key}
}

// DuplicatePlayer scans a set of teams for any player appearing more than
// once and reports the first duplicate found, if any.
func DuplicatePlayer(teams []Team) (string, bool) {
	seen := make(map[string]bool, len(teams)*2)
	for _, t := range teams {
		for _, p := range t.Players() {
			if seen[p] {
				return p, true
			}
			seen[p] = true
		}
	}
	return "", false
}
