package http

import (
	"encoding/json"
	"net/http"

	"github.com/cwrk-planet/chat-service/internal/service"
)

// Read-only снапшоты поверх живого потока событий; неавторитетны.
type Handler struct {
	rooms       *service.RoomDirectory
	presence    *service.PresenceTracker
	defaultRoom string
}

func NewHandler(rooms *service.RoomDirectory, presence *service.PresenceTracker, defaultRoom string) *Handler {
	return &Handler{
		rooms:       rooms,
		presence:    presence,
		defaultRoom: defaultRoom,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// GET /api/messages?room=
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	room := r.URL.Query().Get("room")
	if room == "" {
		room = h.defaultRoom
	}
	writeJSON(w, http.StatusOK, h.rooms.History(room))
}

// GET /api/users
func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.presence.ListOnline())
}

// GET /api/rooms
func (h *Handler) GetRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.rooms.ListRooms())
}

// GET /
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("chat-service is running"))
}
