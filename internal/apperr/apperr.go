// internal/apperr/apperr.go
// The structured error-kind taxonomy shared by every public operation
// (bracket generation, scheduling, manual edits, persistence), per
// spec.md §6: {InvalidConfig, NotFound, Conflict, OutOfWindow,
// SchedulerTimeout, PersistenceFailure}.

package apperr

import (
	"fmt"

	"courtsched/internal/bracket"
)

type Kind string

const (
	KindInvalidConfig     Kind = "InvalidConfig"
	KindNotFound          Kind = "NotFound"
	KindConflict          Kind = "Conflict"
	KindOutOfWindow       Kind = "OutOfWindow"
	KindSchedulerTimeout  Kind = "SchedulerTimeout"
	KindPersistenceFailure Kind = "PersistenceFailure"
)

// Error is a structured operation failure naming its kind and, where
// relevant, the offending field or match.
type Error struct {
	Kind    Kind
	Field   string
	MatchID string
	Msg     string
}

func (e *Error) Error() string {
	switch {
	case e.MatchID != "":
		return fmt.Sprintf("%s: match %s: %s", e.Kind, e.MatchID, e.Msg)
	case e.Field != "":
		return fmt.Sprintf("%s: field %s: %s", e.Kind, e.Field, e.Msg)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
}

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

func Conflict(matchID, msg string) error {
	return &Error{Kind: KindConflict, MatchID: matchID, Msg: msg}
}

func OutOfWindow(matchID, msg string) error {
	return &Error{Kind: KindOutOfWindow, MatchID: matchID, Msg: msg}
}

func InvalidField(field, msg string) error {
	return &Error{Kind: KindInvalidConfig, Field: field, Msg: msg}
}

func Persistence(msg string) error {
	return &Error{Kind: KindPersistenceFailure, Msg: msg}
}

// KindOf extracts the Kind from any error produced by this codebase,
// defaulting to PersistenceFailure for anything unrecognized (a driver or
// I/O error that escaped without being wrapped).
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if ae, ok := err.(*Error); ok {
		return ae.Kind
	}
	if _, ok := err.(*bracket.Error); ok {
		return KindInvalidConfig
	}
	return KindPersistenceFailure
}
