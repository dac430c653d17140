package team

import "testing"

func TestKeyIsOrderIndependent(t *testing.T) {
	a := New("Bia", "Ana")
	b := New("Ana", "Bia")
	if a.Key() != b.Key() {
		t.Errorf("Key() should not depend on player order: %q vs %q", a.Key(), b.Key())
	}
	if a.Key() != "Ana e Bia" {
		t.Errorf("Key() = %q, want %q", a.Key(), "Ana e Bia")
	}
}

func TestKeySinglesHasNoSeparator(t *testing.T) {
	solo := New("Ana", "")
	if solo.Key() != "Ana" {
		t.Errorf("Key() = %q, want %q", solo.Key(), "Ana")
	}
}

func TestEqualUsesCanonicalKey(t *testing.T) {
	a := New("Ana", "Bia")
	b := New("Bia", "Ana")
	if !a.Equal(b) {
		t.Error("teams with the same players in different order should be equal")
	}
}

func TestFromKeyRoundTrip(t *testing.T) {
	original := New("Ana", "Bia")
	reconstructed := FromKey(original.Key())
	if !reconstructed.Equal(original) {
		t.Errorf("FromKey(%q) = %+v, want equivalent to %+v", original.Key(), reconstructed, original)
	}

	solo := FromKey("Ana")
	if solo.Player1 != "Ana" || solo.Player2 != "" {
		t.Errorf("FromKey(singles) = %+v, want Player1=Ana Player2=\"\"", solo)
	}
}

func TestDuplicatePlayerDetectsRepeat(t *testing.T) {
	teams := []Team{New("Ana", "Bia"), New("Cid", "Ana")}
	p, found := DuplicatePlayer(teams)
	if !found || p != "Ana" {
		t.Errorf("DuplicatePlayer = (%q, %v), want (Ana, true)", p, found)
	}
}

func TestDuplicatePlayerNoneFound(t *testing.T) {
	teams := []Team{New("Ana", "Bia"), New("Cid", "Dan")}
	if _, found := DuplicatePlayer(teams); found {
		t.Error("expected no duplicate players")
	}
}
