package game

import "fmt"

// ValidationError reports a malformed or out-of-range message field.
// No state changes.
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

// PreconditionError reports an action that is invalid for the current
// stage, ownership, or seat state.
type PreconditionError struct {
	Msg string
}

func (e PreconditionError) Error() string {
	return e.Msg
}

// SeatTakenError reports an occupy attempt on a slot held by another
// connection.
type SeatTakenError struct {
	SeatIndex int
}

func (e SeatTakenError) Error() string {
	return fmt.Sprintf("Seat %d is taken", e.SeatIndex)
}
