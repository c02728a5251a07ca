package ws

import (
	"encoding/json"
	"time"

	"github.com/cory-johannsen/idlequest/internal/game/character"
)

// MessageType names a websocket frame.
type MessageType string

const (
	// Client to Server
	MessageTypeEquip          MessageType = "EQUIP"
	MessageTypeUnequip        MessageType = "UNEQUIP"
	MessageTypeSell           MessageType = "SELL"
	MessageTypeSellAll        MessageType = "SELL_ALL"
	MessageTypeSpendTalent    MessageType = "SPEND_TALENT"
	MessageTypeResetTalents   MessageType = "RESET_TALENTS"
	MessageTypeChangeZone     MessageType = "CHANGE_ZONE"
	MessageTypeChangeFloor    MessageType = "CHANGE_FLOOR"
	MessageTypeSetGameSpeed   MessageType = "SET_GAME_SPEED"
	MessageTypeForceRest      MessageType = "FORCE_REST"
	MessageTypeToggleAutoRest MessageType = "TOGGLE_AUTO_REST"
	MessageTypeSetAutoSell    MessageType = "SET_AUTO_SELL"
	MessageTypeBuyVendorItem  MessageType = "BUY_VENDOR_ITEM"
	MessageTypeRefreshVendor  MessageType = "REFRESH_VENDOR"
	MessageTypeGameOver       MessageType = "GAME_OVER"
	MessageTypeReset          MessageType = "RESET"
	MessageTypeSyncState      MessageType = "SYNC_STATE"

	// Server to Client
	MessageTypeStateSync  MessageType = "STATE_SYNC"
	MessageTypeLog        MessageType = "LOG_MESSAGE"
	MessageTypeCombatText MessageType = "COMBAT_TEXT"
	MessageTypeError      MessageType = "ERROR"
)

// Message is the envelope for every frame in both directions.
type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// NewMessage marshals payload into a timestamped envelope.
func NewMessage(msgType MessageType, payload any) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Client to Server payloads

type ItemPayload struct {
	ItemID string `json:"itemId"`
}

type TalentPayload struct {
	Talent character.TalentKey `json:"talent"`
}

type ZonePayload struct {
	Direction string `json:"direction"`
}

type FloorPayload struct {
	Delta int `json:"delta"`
}

type SpeedPayload struct {
	Multiplier float64 `json:"multiplier"`
}

type TogglePayload struct {
	Enabled bool `json:"enabled"`
}

// Server to Client payloads

type LogPayload struct {
	Text string `json:"text"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
