package ws_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/idlequest/internal/frontend/ws"
	"github.com/cory-johannsen/idlequest/internal/game/combat"
	"github.com/cory-johannsen/idlequest/internal/game/dice"
	"github.com/cory-johannsen/idlequest/internal/game/world"
	"github.com/cory-johannsen/idlequest/internal/gameserver"
)

type fixture struct {
	game  *gameserver.Game
	sched *combat.ManualScheduler
	hub   *ws.Hub
	srv   *httptest.Server
}

func newFixture(t *testing.T, health ws.HealthFunc) *fixture {
	t.Helper()
	content, err := gameserver.LoadDefaultContent()
	require.NoError(t, err)
	hub := ws.NewHub(zap.NewNop())
	sched := combat.NewManualScheduler()
	game, err := gameserver.NewGame(gameserver.DefaultConfig(), content, sched,
		dice.NewLoggedRoller(dice.NewSeededSource(99), zap.NewNop()), hub, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx, game)
	srv := httptest.NewServer(ws.NewRouter(hub, game, health, zap.NewNop()))
	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-hub.Done()
	})
	return &fixture{game: game, sched: sched, hub: hub, srv: srv}
}

func (f *fixture) postIntent(t *testing.T, msgType ws.MessageType, payload any) *http.Response {
	t.Helper()
	msg := map[string]any{"type": msgType}
	if payload != nil {
		msg["payload"] = payload
	}
	body, err := json.Marshal(msg)
	require.NoError(t, err)
	resp, err := http.Post(f.srv.URL+"/intents", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (f *fixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads frames until one of type want arrives.
func readUntil(t *testing.T, conn *websocket.Conn, want ws.MessageType) ws.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var msg ws.Message
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == want {
			return msg
		}
	}
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, nil)
	resp, err := http.Get(f.srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealthz_Unhealthy(t *testing.T) {
	f := newFixture(t, func(context.Context) error { return errors.New("db down") })
	resp, err := http.Get(f.srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestState_ReturnsSnapshot(t *testing.T) {
	f := newFixture(t, nil)
	resp, err := http.Get(f.srv.URL + "/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var snap gameserver.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, gameserver.SnapshotVersion, snap.Version)
	assert.Equal(t, 1, snap.Character.Level)
	assert.Equal(t, "Ashfen", snap.Zone)
}

func TestIntents_AppliesAndRejects(t *testing.T) {
	f := newFixture(t, nil)

	resp := f.postIntent(t, ws.MessageTypeToggleAutoRest, ws.TogglePayload{Enabled: false})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var snap gameserver.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.False(t, snap.AutoRest)

	resp = f.postIntent(t, ws.MessageTypeForceRest, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var e ws.ErrorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	assert.Equal(t, "REJECTED", e.Code)
	assert.Contains(t, e.Message, "too healthy")

	resp = f.postIntent(t, "DANCE", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.postIntent(t, ws.MessageTypeSetGameSpeed, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDispatch(t *testing.T) {
	f := newFixture(t, nil)
	msg := func(t ws.MessageType, payload string) *ws.Message {
		return &ws.Message{Type: t, Payload: json.RawMessage(payload)}
	}

	require.NoError(t, ws.Dispatch(f.game, msg(ws.MessageTypeSetGameSpeed, `{"multiplier":2}`)))
	assert.Equal(t, 2.0, f.game.Snapshot().GameSpeed)

	require.NoError(t, ws.Dispatch(f.game, msg(ws.MessageTypeChangeZone, `{"direction":"next"}`)))
	assert.Equal(t, "Eastgale", f.game.Snapshot().Zone)

	err := ws.Dispatch(f.game, msg(ws.MessageTypeChangeZone, `{"direction":"sideways"}`))
	require.ErrorIs(t, err, world.ErrUnknownDirection)

	err = ws.Dispatch(f.game, msg(ws.MessageTypeEquip, `{"itemId":`))
	require.ErrorIs(t, err, ws.ErrInvalidPayload)

	require.NoError(t, ws.Dispatch(f.game, msg(ws.MessageTypeSetAutoSell, `{"common":true}`)))
	assert.True(t, f.game.Snapshot().AutoSell.Common)

	require.NoError(t, ws.Dispatch(f.game, msg(ws.MessageTypeGameOver, "")))
	err = ws.Dispatch(f.game, msg(ws.MessageTypeSellAll, ""))
	require.ErrorIs(t, err, gameserver.ErrGameOver)
	require.NoError(t, ws.Dispatch(f.game, msg(ws.MessageTypeReset, "")))
}

func TestWebSocket_SyncOnConnectAndBroadcast(t *testing.T) {
	f := newFixture(t, nil)
	conn := f.dial(t)

	sync := readUntil(t, conn, ws.MessageTypeStateSync)
	var snap gameserver.Snapshot
	require.NoError(t, json.Unmarshal(sync.Payload, &snap))
	assert.Nil(t, snap.Enemy)

	require.Eventually(t, func() bool { return f.hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	f.game.Start()

	logMsg := readUntil(t, conn, ws.MessageTypeLog)
	var lp ws.LogPayload
	require.NoError(t, json.Unmarshal(logMsg.Payload, &lp))
	assert.Contains(t, lp.Text, "appears")

	sync = readUntil(t, conn, ws.MessageTypeStateSync)
	require.NoError(t, json.Unmarshal(sync.Payload, &snap))
	require.NotNil(t, snap.Enemy)

	f.sched.Advance(3 * time.Second)
	text := readUntil(t, conn, ws.MessageTypeCombatText)
	var ct gameserver.CombatText
	require.NoError(t, json.Unmarshal(text.Payload, &ct))
	assert.Contains(t, []combat.Target{combat.TargetEnemy, combat.TargetPlayer}, ct.Target)
}

func TestWebSocket_IntentRejectionReturnsError(t *testing.T) {
	f := newFixture(t, nil)
	conn := f.dial(t)
	readUntil(t, conn, ws.MessageTypeStateSync)

	require.NoError(t, conn.WriteJSON(ws.Message{Type: ws.MessageTypeForceRest}))
	errMsg := readUntil(t, conn, ws.MessageTypeError)
	var e ws.ErrorPayload
	require.NoError(t, json.Unmarshal(errMsg.Payload, &e))
	assert.Equal(t, "REJECTED", e.Code)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{")))
	errMsg = readUntil(t, conn, ws.MessageTypeError)
	require.NoError(t, json.Unmarshal(errMsg.Payload, &e))
	assert.Equal(t, "INVALID_MESSAGE", e.Code)

	require.NoError(t, conn.WriteJSON(ws.Message{Type: ws.MessageTypeSyncState}))
	readUntil(t, conn, ws.MessageTypeStateSync)
}

func TestWebSocket_DisconnectUnregisters(t *testing.T) {
	f := newFixture(t, nil)
	conn := f.dial(t)
	readUntil(t, conn, ws.MessageTypeStateSync)
	require.Eventually(t, func() bool { return f.hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return f.hub.ClientCount() == 0 }, 2*time.Second, 5*time.Millisecond)
}
