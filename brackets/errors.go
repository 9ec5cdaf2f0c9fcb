package brackets

import (
	"errors"
	"fmt"
)

// Error kinds returned by the engine. Match them with errors.Is.
var (
	// ErrConfiguration marks a nonsensical request, e.g. a negative team count.
	ErrConfiguration = errors.New("configuration error")
	// ErrStateInconsistency marks references the tournament state cannot satisfy.
	ErrStateInconsistency = errors.New("state inconsistency")
	// ErrAlreadyAdvanced marks an operation that was already applied.
	ErrAlreadyAdvanced = errors.New("already advanced")
)

var (
	ErrInvalidResult         = fmt.Errorf("%w: invalid result", ErrConfiguration)
	ErrMatchNotFound         = fmt.Errorf("%w: match not found", ErrStateInconsistency)
	ErrUnknownTeam           = fmt.Errorf("%w: team not in tournament", ErrStateInconsistency)
	ErrGroupPhaseIncomplete  = fmt.Errorf("%w: group phase is not complete", ErrStateInconsistency)
	ErrResultAlreadyRecorded = fmt.Errorf("%w: result already recorded", ErrAlreadyAdvanced)
	ErrKnockoutAlreadySeeded = fmt.Errorf("%w: knockout stage already seeded", ErrAlreadyAdvanced)
)
