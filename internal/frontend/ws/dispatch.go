package ws

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cory-johannsen/idlequest/internal/game/character"
	"github.com/cory-johannsen/idlequest/internal/game/world"
	"github.com/cory-johannsen/idlequest/internal/gameserver"
)

// Game is the part of the game controller the bridge drives.
type Game interface {
	Equip(id string) error
	Unequip(id string) error
	Sell(id string) error
	SellAll() error
	SpendTalent(key character.TalentKey) error
	ResetTalents() error
	ChangeZone(dir world.Direction) error
	ChangeFloor(delta int) error
	SetGameSpeed(multiplier float64) error
	ForceRest() error
	ToggleAutoRest(on bool) error
	SetAutoSell(p character.AutoSellPolicy) error
	BuyVendorItem(id string) error
	RefreshVendor() error
	GameOver() error
	Reset() error
	Snapshot() gameserver.Snapshot
}

// ErrInvalidPayload is returned when a frame's payload does not decode.
var ErrInvalidPayload = errors.New("invalid payload")

// ErrUnknownMessage is returned for frame types the bridge does not handle.
var ErrUnknownMessage = errors.New("unknown message type")

// Dispatch applies one client frame to g.
//
// Postcondition: returns nil when the intent was accepted, the game's
// rejection when it was refused, or ErrInvalidPayload / ErrUnknownMessage.
func Dispatch(g Game, msg *Message) error {
	switch msg.Type {
	case MessageTypeEquip:
		return withPayload(msg, func(p ItemPayload) error { return g.Equip(p.ItemID) })
	case MessageTypeUnequip:
		return withPayload(msg, func(p ItemPayload) error { return g.Unequip(p.ItemID) })
	case MessageTypeSell:
		return withPayload(msg, func(p ItemPayload) error { return g.Sell(p.ItemID) })
	case MessageTypeSellAll:
		return g.SellAll()
	case MessageTypeSpendTalent:
		return withPayload(msg, func(p TalentPayload) error { return g.SpendTalent(p.Talent) })
	case MessageTypeResetTalents:
		return g.ResetTalents()
	case MessageTypeChangeZone:
		return withPayload(msg, func(p ZonePayload) error {
			dir := world.Direction(p.Direction)
			if dir != world.Previous && dir != world.Next {
				return fmt.Errorf("%w: %q", world.ErrUnknownDirection, p.Direction)
			}
			return g.ChangeZone(dir)
		})
	case MessageTypeChangeFloor:
		return withPayload(msg, func(p FloorPayload) error { return g.ChangeFloor(p.Delta) })
	case MessageTypeSetGameSpeed:
		return withPayload(msg, func(p SpeedPayload) error { return g.SetGameSpeed(p.Multiplier) })
	case MessageTypeForceRest:
		return g.ForceRest()
	case MessageTypeToggleAutoRest:
		return withPayload(msg, func(p TogglePayload) error { return g.ToggleAutoRest(p.Enabled) })
	case MessageTypeSetAutoSell:
		return withPayload(msg, func(p character.AutoSellPolicy) error { return g.SetAutoSell(p) })
	case MessageTypeBuyVendorItem:
		return withPayload(msg, func(p ItemPayload) error { return g.BuyVendorItem(p.ItemID) })
	case MessageTypeRefreshVendor:
		return g.RefreshVendor()
	case MessageTypeGameOver:
		return g.GameOver()
	case MessageTypeReset:
		return g.Reset()
	}
	return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
}

func withPayload[T any](msg *Message, fn func(T) error) error {
	var p T
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%w: %s requires a payload", ErrInvalidPayload, msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return fn(p)
}

// errorCode maps a dispatch error onto the code sent to the client.
func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidPayload):
		return "INVALID_PAYLOAD"
	case errors.Is(err, ErrUnknownMessage):
		return "UNKNOWN_MESSAGE"
	default:
		return "REJECTED"
	}
}
