package gameserver

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/idlequest/internal/game/combat"
)

// CombatText is a floating damage number for the UI.
type CombatText struct {
	Amount   int           `json:"amount"`
	Critical bool          `json:"critical"`
	Miss     bool          `json:"miss"`
	Target   combat.Target `json:"target"`
}

// Sink receives the events the game emits for its UI.
//
// Sinks are invoked with the game lock held. Implementations MUST NOT call
// back into the Game and SHOULD NOT block.
type Sink interface {
	LogMessage(text string)
	CombatText(ct CombatText)
	StateChanged()
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) LogMessage(string)     {}
func (NopSink) CombatText(CombatText) {}
func (NopSink) StateChanged()         {}

// LogSink mirrors player-facing messages into a zap logger.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink returns a LogSink writing to logger.
//
// Precondition: logger must be non-nil.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// LogMessage logs text at info level.
func (s *LogSink) LogMessage(text string) {
	s.logger.Info("game log", zap.String("text", text))
}

// CombatText logs ct at debug level.
func (s *LogSink) CombatText(ct CombatText) {
	s.logger.Debug("combat text",
		zap.String("target", string(ct.Target)),
		zap.Int("amount", ct.Amount),
		zap.Bool("critical", ct.Critical),
		zap.Bool("miss", ct.Miss),
	)
}

// StateChanged is a no-op; redraws have no log value.
func (s *LogSink) StateChanged() {}

// MultiSink fans each event out to every sink in order.
type MultiSink []Sink

func (m MultiSink) LogMessage(text string) {
	for _, s := range m {
		s.LogMessage(text)
	}
}

func (m MultiSink) CombatText(ct CombatText) {
	for _, s := range m {
		s.CombatText(ct)
	}
}

func (m MultiSink) StateChanged() {
	for _, s := range m {
		s.StateChanged()
	}
}
