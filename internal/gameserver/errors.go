package gameserver

import "errors"

// Intent rejections. Game state is unchanged when an intent returns one of
// these (or a wrapped rejection from the character, world or shop packages).
var (
	ErrGameOver         = errors.New("the game is over")
	ErrGhostForm        = errors.New("you are a ghost")
	ErrAlreadyResting   = errors.New("you are already resting")
	ErrTooHealthyToRest = errors.New("you are too healthy to rest right now")
	ErrInvalidSpeed     = errors.New("invalid game speed")
	ErrItemEquipped     = errors.New("equipped items cannot be sold")
	ErrInvalidSnapshot  = errors.New("invalid snapshot")
)
