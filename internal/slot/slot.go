// internal/slot/slot.go
// Time and court-slot arithmetic: the leaf layer every other package builds on.

package slot

import (
	"fmt"
	"strconv"
	"strings"
)

// Window is an operating interval expressed in minutes since midnight.
type Window struct {
	Start int
	End   int
}

// ParseHHMM parses "HH:MM" into minutes since midnight.
func ParseHHMM(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("slot: invalid time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("slot: invalid hour in %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("slot: invalid minute in %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("slot: time %q out of range", s)
	}
	return h*60 + m, nil
}

// MustParseHHMM is ParseHHMM for callers that already validated the string.
func MustParseHHMM(s string) int {
	m, err := ParseHHMM(s)
	if err != nil {
		panic(err)
	}
	return m
}

// FormatHHMM renders minutes since midnight back as "HH:MM".
func FormatHHMM(minutes int) string {
	h := (minutes / 60) % 24
	m := minutes % 60
	return fmt.Sprintf("%02d:%02d", h, m)
}

// Fits reports whether a match starting at start and lasting duration
// minutes is fully contained in the window.
func (w Window) Fits(start, duration int) bool {
	return w.Start <= start && start+duration <= w.End
}

// Validate checks end > start.
func (w Window) Validate() error {
	if w.End <= w.Start {
		return fmt.Errorf("slot: window end (%d) must be after start (%d)", w.End, w.Start)
	}
	return nil
}

// Court is a physical resource with a priority and an ordered set of
// operating windows during which it can host matches.
type Court struct {
	Name     string
	Priority int
	Slots    []Window
}

// FitsAt reports whether the court has some operating slot containing
// [start, start+duration].
func (c Court) FitsAt(start, duration int) bool {
	for _, w := range c.Slots {
		if w.Fits(start, duration) {
			return true
		}
	}
	return false
}

// Validate checks that the court's slots are individually valid and do not
// overlap each other.
func (c Court) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("slot: court must have a name")
	}
	sorted := make([]Window, len(c.Slots))
	copy(sorted, c.Slots)
	for i := range sorted {
		if err := sorted[i].Validate(); err != nil {
			return fmt.Errorf("slot: court %q: %w", c.Name, err)
		}
	}
	for i := range sorted {
		for j := range sorted {
			if i == j {
				continue
			}
			if sorted[i].Start < sorted[j].End && sorted[j].Start < sorted[i].End {
				return fmt.Errorf("slot: court %q has overlapping operating slots", c.Name)
			}
		}
	}
	return nil
}

// GlobalSettings describes the tournament-wide timing envelope shared by
// every category: when the day starts, the default match duration, the
// court inventory, and the latest time any match may finish.
type GlobalSettings struct {
	StartTime              int
	EndTime                int
	EstimatedMatchDuration int
	Courts                 []Court
}

// Validate enforces the invariants from the data model: at least one court,
// a positive match duration, and a sane tournament window.
func (g GlobalSettings) Validate() error {
	if len(g.Courts) == 0 {
		return fmt.Errorf("slot: at least one court is required")
	}
	if g.EstimatedMatchDuration <= 0 {
		return fmt.Errorf("slot: estimated match duration must be positive")
	}
	if g.EndTime <= g.StartTime {
		return fmt.Errorf("slot: tournament endTime must be after startTime")
	}
	for _, c := range g.Courts {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}
