package service

import (
	"strings"
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"

	"github.com/google/uuid"
)

// Identity — читающая часть реестра соединений, нужная маршрутизатору.
type Identity interface {
	Lookup(connID string) (domain.User, bool)
}

// MessageRouter валидирует и собирает сообщения: назначает id и таймстемп,
// кладёт комнатные сообщения в историю и сообщает, кому их доставлять.
type MessageRouter struct {
	ids      Identity
	rooms    *RoomDirectory
	presence *PresenceTracker

	defaultRoom        string
	maxAttachmentBytes int64
}

func NewMessageRouter(ids Identity, rooms *RoomDirectory, presence *PresenceTracker, defaultRoom string, maxAttachmentBytes int64) *MessageRouter {
	return &MessageRouter{
		ids:                ids,
		rooms:              rooms,
		presence:           presence,
		defaultRoom:        defaultRoom,
		maxAttachmentBytes: maxAttachmentBytes,
	}
}

// RouteRoomMessage собирает сообщение для текущей комнаты отправителя
// и добавляет его в историю. Доставка — всем членам комнаты, включая
// отправителя: порядок рассылки совпадает с порядком в истории.
func (r *MessageRouter) RouteRoomMessage(connID, text string, att *domain.Attachment) (domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" && att == nil {
		return domain.Message{}, domain.ErrInvalidMessage
	}
	if att != nil && r.maxAttachmentBytes > 0 && int64(len(att.Data)) > r.maxAttachmentBytes {
		return domain.Message{}, domain.ErrAttachmentTooLarge
	}
	sender, ok := r.ids.Lookup(connID)
	if !ok {
		return domain.Message{}, domain.ErrUnknownSender
	}
	room, ok := r.rooms.RoomOf(connID)
	if !ok {
		room = r.defaultRoom
	}
	msg := domain.Message{
		ID:         uuid.NewString(),
		Sender:     sender.Username,
		SenderID:   connID,
		Room:       room,
		Text:       text,
		Attachment: att,
		CreatedAt:  time.Now().UTC(),
	}
	r.rooms.Append(room, msg)
	return msg, nil
}

// RoutePrivateMessage собирает личное сообщение. Доставка — получателю и
// эхо отправителю с тем же id/таймстемпом; отключившийся получатель не ошибка.
func (r *MessageRouter) RoutePrivateMessage(fromConnID, toConnID, text string) (domain.PrivateMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.PrivateMessage{}, domain.ErrInvalidMessage
	}
	sender, ok := r.ids.Lookup(fromConnID)
	if !ok {
		return domain.PrivateMessage{}, domain.ErrUnknownSender
	}
	return domain.PrivateMessage{
		ID:        uuid.NewString(),
		Sender:    sender.Username,
		SenderID:  fromConnID,
		To:        toConnID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
		Private:   true,
	}, nil
}

// RouteTyping обновляет typing-набор и возвращает комнату отправителя
// вместе со списком печатающих в ней имён.
func (r *MessageRouter) RouteTyping(connID string, isTyping bool) (string, []string, error) {
	sender, ok := r.ids.Lookup(connID)
	if !ok {
		return "", nil, domain.ErrUnknownSender
	}
	room, ok := r.rooms.RoomOf(connID)
	if !ok {
		room = r.defaultRoom
	}
	r.presence.SetTyping(connID, sender.Username, isTyping)
	return room, r.presence.TypingNames(r.rooms.Members(room)), nil
}
