package service

import (
	"sync"

	"github.com/cwrk-planet/chat-service/internal/domain"
)

// PresenceTracker держит канонический список онлайн-пользователей и
// набор «печатает». Автоистечения нет: стоп-сигнал присылает клиент.
type PresenceTracker struct {
	mu     sync.RWMutex
	online map[string]domain.User
	order  []string          // порядок подключения, для детерминизма user_list
	typing map[string]string // connID -> username
}

func NewPresenceTracker() *PresenceTracker {
	return &PresenceTracker{
		online: make(map[string]domain.User),
		typing: make(map[string]string),
	}
}

func (p *PresenceTracker) SetOnline(connID, username string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.online[connID]; !ok {
		p.order = append(p.order, connID)
	}
	p.online[connID] = domain.User{ID: connID, Username: username}
}

func (p *PresenceTracker) SetOffline(connID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dropOnlineLocked(connID)
}

// ListOnline — в порядке подключения.
func (p *PresenceTracker) ListOnline() []domain.User {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]domain.User, 0, len(p.online))
	for _, id := range p.order {
		if u, ok := p.online[id]; ok {
			out = append(out, u)
		}
	}
	return out
}

func (p *PresenceTracker) SetTyping(connID, username string, isTyping bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if isTyping {
		p.typing[connID] = username
	} else {
		delete(p.typing, connID)
	}
}

// TypingNames проецирует набор «печатает» на членов одной комнаты.
// Два connID с одинаковым именем дают две записи.
func (p *PresenceTracker) TypingNames(memberIDs []string) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.typing))
	for _, id := range memberIDs {
		if name, ok := p.typing[id]; ok {
			names = append(names, name)
		}
	}
	return names
}

// Clear вызывается ровно один раз, при disconnect: снимает и онлайн, и typing.
func (p *PresenceTracker) Clear(connID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dropOnlineLocked(connID)
	delete(p.typing, connID)
}

func (p *PresenceTracker) dropOnlineLocked(connID string) {
	if _, ok := p.online[connID]; !ok {
		return
	}
	delete(p.online, connID)
	for i, id := range p.order {
		if id == connID {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}
