package domain

import "time"

type Attachment struct {
	Filename string `json:"filename"`
	Mime     string `json:"mime"`
	Size     int64  `json:"size"`
	Data     []byte `json:"data"`
}

// Message хранится в истории комнаты; после создания не меняется.
type Message struct {
	ID         string      `json:"id"`
	Sender     string      `json:"sender"`
	SenderID   string      `json:"senderId"`
	Room       string      `json:"room"`
	Text       string      `json:"text,omitempty"`
	Attachment *Attachment `json:"attachment,omitempty"`
	CreatedAt  time.Time   `json:"timestamp"`
}

// PrivateMessage не попадает ни в одну историю: доставили и забыли.
type PrivateMessage struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	SenderID  string    `json:"senderId"`
	To        string    `json:"to"`
	Text      string    `json:"message"`
	CreatedAt time.Time `json:"timestamp"`
	Private   bool      `json:"isPrivate"`
}
