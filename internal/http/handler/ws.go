package handler

import (
	"net/http"
	"time"

	"platea/internal/auth"
	"platea/internal/realtime"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // tighten behind a proxy if needed
}

type WSHandler struct {
	Hub *realtime.Hub
	Log *zap.Logger
}

type wsMessage struct {
	Type   string `json:"type"`
	RoomID uint64 `json:"roomId"`
}

// Serve upgrades the connection and runs it until the client goes
// away. Inbound join-room/leave-room manage topic membership; inbound
// new-suggestion/new-recipe are relayed to the rest of the room.
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := realtime.NewClient(uid)
	done := make(chan struct{})
	go h.writePump(conn, c, done)

	h.readLoop(conn, c)

	close(done)
	h.Hub.Drop(c)
	_ = conn.Close()
}

func (h *WSHandler) readLoop(conn *websocket.Conn, c *realtime.Client) {
	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Type {
		case "join-room":
			h.Hub.Join(msg.RoomID, c)
		case "leave-room":
			h.Hub.Leave(msg.RoomID, c)
		case "new-suggestion":
			h.Hub.PublishExcept(msg.RoomID, realtime.Event{Type: realtime.EventSuggestionAdded, RoomID: msg.RoomID}, c)
		case "new-recipe":
			h.Hub.PublishExcept(msg.RoomID, realtime.Event{Type: realtime.EventRecipeAdded, RoomID: msg.RoomID}, c)
		default:
			h.Log.Debug("unknown ws message", zap.String("type", msg.Type), zap.Uint64("user_id", c.UserID))
		}
	}
}

func (h *WSHandler) writePump(conn *websocket.Conn, c *realtime.Client, done <-chan struct{}) {
	// pings keep the connection alive through proxies
	ping := time.NewTicker(25 * time.Second)
	defer ping.Stop()

	for {
		select {
		case ev := <-c.Events():
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
