package service

import "github.com/cwrk-planet/chat-service/internal/domain"

// Типы исходящих событий ядра (core -> client).
const (
	EvUserList          = "user_list"
	EvUserJoined        = "user_joined"
	EvUserLeft          = "user_left"
	EvReceiveMessage    = "receive_message"
	EvTypingUsers       = "typing_users"
	EvPrivateMessage    = "private_message"
	EvUserTypingPrivate = "user_typing_private"
	EvRooms             = "rooms"
	EvRoomJoined        = "room_joined"
	EvRoomHistory       = "room_history"
)

type UserEventPayload struct {
	Username string `json:"username"`
	ID       string `json:"id"`
}

type RoomJoinedPayload struct {
	Room string `json:"room"`
}

type RoomHistoryPayload struct {
	Room     string           `json:"room"`
	Messages []domain.Message `json:"messages"`
}

type PrivateTypingPayload struct {
	UserID   string `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}
