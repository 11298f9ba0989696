package v1

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kurochkinivan/bulk_uploader/internal/broadcast"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type Subscriber interface {
	Subscribe(keys ...string) *broadcast.Subscription
}

type SubscriptionsHandler struct {
	log      *slog.Logger
	hub      Subscriber
	upgrader websocket.Upgrader
}

func NewSubscriptionsHandler(log *slog.Logger, hub Subscriber) *SubscriptionsHandler {
	return &SubscriptionsHandler{
		log: log,
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Subscribe streams events for ?owner= and/or ?job= until the client goes away.
func (h *SubscriptionsHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var keys []string
	for _, param := range []string{"owner", "job"} {
		if v := r.URL.Query().Get(param); v != "" {
			keys = append(keys, v)
		}
	}
	if len(keys) == 0 {
		writeError(w, http.StatusBadRequest, "owner or job is required")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WarnContext(r.Context(), "websocket upgrade failed", slog.String("err", err.Error()))
		return
	}
	defer conn.Close()

	sub := h.hub.Subscribe(keys...)
	defer sub.Unsubscribe()

	log := h.log.With(slog.Any("keys", keys))
	log.DebugContext(r.Context(), "subscriber connected")

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		readUntilClosed(conn)
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case event, ok := <-sub.Events():
			if !ok {
				return
			}

			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				log.DebugContext(r.Context(), "subscriber write failed", slog.String("err", err.Error()))
				return
			}

		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}

		case <-closed:
			log.DebugContext(r.Context(), "subscriber disconnected")
			return
		}
	}
}

// readUntilClosed drains client frames so control messages are handled.
func readUntilClosed(conn *websocket.Conn) {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
