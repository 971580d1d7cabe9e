package numbering

import (
	"errors"
	"fmt"

	domain "lomba-pmr/internal/domain/competition"
)

// ErrSlotNotFound is returned when an assignment targets a slot that does
// not exist on the board, e.g. after the owning registration shrank.
var ErrSlotNotFound = errors.New("team slot not found")

// ConflictError reports a rejected assignment: another slot in the same
// (event, category) scope already holds the candidate running number.
type ConflictError struct {
	EventKey     string
	EventName    string
	Category     domain.Category
	Number       int
	HolderSlotID string
	HolderSchool string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("running number %d is already taken in %s (%s) by %s",
		e.Number, e.EventName, e.Category, e.HolderSchool)
}

// IsConflict reports whether err is a duplicate-number rejection.
func IsConflict(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict)
}
