package standings

import "errors"

var (
	// ErrDuplicateQualification is returned by the store when inserting a
	// qualification record that already exists. The engine checks before
	// every insert, so hitting it means a concurrent writer; it is treated
	// the same as the row already being there.
	ErrDuplicateQualification = errors.New("duplicate qualification record")

	// ErrTournamentNotFound is returned by RecomputeTournament for an
	// unknown tournament id.
	ErrTournamentNotFound = errors.New("tournament not found")
)
