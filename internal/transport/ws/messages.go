package ws

import "github.com/cwrk-planet/chat-service/internal/domain"

// Типы входящих событий (client -> core). Исходящие — в internal/service.
const (
	TypeUserJoin       = "user_join"
	TypeSendMessage    = "send_message"
	TypeTyping         = "typing"
	TypePrivateMessage = "private_message"
	TypePrivateTyping  = "private_typing"
	TypeRoomCreate     = "room_create"
	TypeRoomJoin       = "room_join"
)

type Inbound struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type SendMessagePayload struct {
	Text       string             `json:"text"`
	Attachment *domain.Attachment `json:"attachment,omitempty"`
}

type PrivateMessagePayload struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

type PrivateTypingPayload struct {
	To       string `json:"to"`
	IsTyping bool   `json:"isTyping"`
}
