package keyboard

import "errors"

var (
	// ErrDuplicateCharacter is returned when a character set or key holds the same character twice.
	ErrDuplicateCharacter = errors.New("duplicate character")
	// ErrPreferenceShape is returned when a preference table does not match the grid.
	ErrPreferenceShape = errors.New("preference table does not match grid")
	// ErrUnplaceable is returned when characters cannot all be placed on the grid.
	ErrUnplaceable = errors.New("characters cannot be placed")
	// ErrNoLetter is returned when a key would be left without a letter for its Center slot.
	ErrNoLetter = errors.New("no letter for center slot")
)
