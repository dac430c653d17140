package apperr

import (
	"errors"
	"fmt"
	"testing"

	"courtsched/internal/bracket"
)

func TestErrorMessageFormatting(t *testing.T) {
	cases := []struct {
		name string
		err  *Error
		want string
	}{
		{"plain", &Error{Kind: KindNotFound, Msg: "tournament not found"}, "NotFound: tournament not found"},
		{"with field", &Error{Kind: KindInvalidConfig, Field: "globalSettings", Msg: "bad window"}, "InvalidConfig: field globalSettings: bad window"},
		{"with match", &Error{Kind: KindConflict, MatchID: "cat-G1-1", Msg: "court taken"}, "Conflict: match cat-G1-1: court taken"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.err.Error(); got != tc.want {
				t.Errorf("Error() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestConstructorsSetKind(t *testing.T) {
	if KindOf(NotFound("x")) != KindNotFound {
		t.Errorf("NotFound should carry KindNotFound")
	}
	if KindOf(Conflict("m1", "x")) != KindConflict {
		t.Errorf("Conflict should carry KindConflict")
	}
	if KindOf(OutOfWindow("m1", "x")) != KindOutOfWindow {
		t.Errorf("OutOfWindow should carry KindOutOfWindow")
	}
	if KindOf(InvalidField("f", "x")) != KindInvalidConfig {
		t.Errorf("InvalidField should carry KindInvalidConfig")
	}
	if KindOf(Persistence("x")) != KindPersistenceFailure {
		t.Errorf("Persistence should carry KindPersistenceFailure")
	}
}

func TestKindOfRecognizesBracketError(t *testing.T) {
	err := &bracket.Error{Kind: bracket.ErrInvalidConfig, Field: "teams", Msg: "too few teams"}
	if KindOf(err) != KindInvalidConfig {
		t.Errorf("KindOf(bracket.Error) = %v, want KindInvalidConfig", KindOf(err))
	}
}

func TestKindOfDefaultsToPersistenceFailure(t *testing.T) {
	if KindOf(errors.New("boom")) != KindPersistenceFailure {
		t.Errorf("unrecognized errors should default to KindPersistenceFailure")
	}
	if KindOf(fmt.Errorf("wrapped: %w", errors.New("boom"))) != KindPersistenceFailure {
		t.Errorf("wrapped unrecognized errors should default to KindPersistenceFailure")
	}
}
