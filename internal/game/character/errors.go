package character

import "errors"

// Rejection reasons returned by character intents. State is unchanged when
// any of these is returned.
var (
	ErrItemNotFound     = errors.New("item not found in inventory")
	ErrNotEquipped      = errors.New("item is not equipped")
	ErrLevelTooLow      = errors.New("item level exceeds character level")
	ErrInsufficientGold = errors.New("not enough gold")

	ErrUnknownTalent    = errors.New("unknown talent")
	ErrNoTalentPoints   = errors.New("no talent points available")
	ErrTalentMaxed      = errors.New("talent is already at maximum rank")
	ErrTalentGateLocked = errors.New("gate talent must be maxed first")
	ErrTalentExclusive  = errors.New("another second-tier talent is being invested")
)
