package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// HealthFunc reports whether a dependency is usable.
type HealthFunc func(ctx context.Context) error

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The server binds to localhost by default and serves one player.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NewRouter returns the HTTP surface: GET /healthz, GET /state,
// POST /intents and the /ws upgrade. health may be nil.
func NewRouter(hub *Hub, game Game, health HealthFunc, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if health != nil {
			if err := health(r.Context()); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.Write([]byte("OK"))
	})

	r.Get("/state", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, game.Snapshot())
	})

	r.Post("/intents", func(w http.ResponseWriter, r *http.Request) {
		var msg Message
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageSize))
		if err := dec.Decode(&msg); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorPayload{Code: "INVALID_MESSAGE", Message: err.Error()})
			return
		}
		if err := Dispatch(game, &msg); err != nil {
			status := http.StatusConflict
			if errors.Is(err, ErrInvalidPayload) || errors.Is(err, ErrUnknownMessage) {
				status = http.StatusBadRequest
			}
			writeJSON(w, status, ErrorPayload{Code: errorCode(err), Message: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, game.Snapshot())
	})

	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		client := NewClient(hub, game, conn, logger)
		go client.WritePump()
		go client.ReadPump()
		hub.Register(client)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// requestLogger logs each request through zap instead of the stdlib logger
// chi's default middleware writes to.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
			)
		})
	}
}
