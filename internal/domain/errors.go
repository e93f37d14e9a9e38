package domain

import "errors"

var (
	ErrInvalidMessage     = errors.New("empty message body and no attachment")
	ErrUnknownSender      = errors.New("sender has not joined")
	ErrEmptyRoomName      = errors.New("room name is empty")
	ErrAttachmentTooLarge = errors.New("attachment exceeds size limit")
)
