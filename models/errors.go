package models

import "errors"

var (
	// ErrAlreadySubmitted rejects a second delivery of the same mission,
	// including a duplicate submit racing an in-flight one.
	ErrAlreadySubmitted = errors.New("mission already delivered")

	// ErrMissionFinalized rejects any transition out of the terminal state.
	ErrMissionFinalized = errors.New("mission already finalized")

	// ErrNotDelivered rejects finalizing a mission that was never delivered.
	ErrNotDelivered = errors.New("mission has not been delivered yet")
)
