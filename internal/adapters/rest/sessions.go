package rest

import (
	"context"
	"sync"
	"time"

	"rental-listing-client/internal/contextkeys"
	"rental-listing-client/internal/core/domain"
	"rental-listing-client/internal/core/port"
	"rental-listing-client/internal/core/port/usecases_port"

	"github.com/google/uuid"
)

// SessionController - контроллер списка, который обслуживает одну сессию.
type SessionController = usecases_port.ListingControllerPort

// ControllerFactory создает контроллер для новой сессии.
type ControllerFactory func(sessionID string, pageSize int) SessionController

type session struct {
	controller SessionController
	lastUsed   time.Time
}

// SessionRegistry хранит контроллеры списка по ID сессии и удаляет простаивающие.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*session

	factory     ControllerFactory
	idleTimeout time.Duration
	onRemove    func(sessionID string)
	now         func() time.Time
}

// NewSessionRegistry. onRemove вызывается для каждой удаленной сессии (может быть nil).
func NewSessionRegistry(factory ControllerFactory, idleTimeout time.Duration, onRemove func(sessionID string)) *SessionRegistry {
	if onRemove == nil {
		onRemove = func(string) {}
	}
	return &SessionRegistry{
		sessions:    make(map[string]*session),
		factory:     factory,
		idleTimeout: idleTimeout,
		onRemove:    onRemove,
		now:         time.Now,
	}
}

// Create заводит сессию с новым контроллером.
func (r *SessionRegistry) Create(pageSize int) (string, SessionController) {
	id := uuid.NewString()
	controller := r.factory(id, pageSize)

	r.mu.Lock()
	r.sessions[id] = &session{controller: controller, lastUsed: r.now()}
	r.mu.Unlock()

	return id, controller
}

// Get возвращает контроллер и продлевает жизнь сессии.
func (r *SessionRegistry) Get(id string) (SessionController, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	s.lastUsed = r.now()
	return s.controller, true
}

func (r *SessionRegistry) Delete(id string) bool {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		r.onRemove(id)
	}
	return ok
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// RefreshAffected перезагружает списки сессий, которые видят измененное объявление.
// Сессия, из которой пришло изменение, уже обновилась сама и пропускается.
func (r *SessionRegistry) RefreshAffected(ctx context.Context, event domain.MutationEvent) int {
	r.mu.Lock()
	targets := make(map[string]SessionController)
	for id, s := range r.sessions {
		if id != event.SessionID && event.Affects(s.controller.Scope()) {
			targets[id] = s.controller
		}
	}
	r.mu.Unlock()

	logger := contextkeys.LoggerFromContext(ctx)
	refreshed := 0
	for id, controller := range targets {
		if err := controller.Refresh(ctx); err != nil {
			logger.Warn("Refresh after remote mutation failed", port.Fields{"session_id": id, "error": err.Error()})
			continue
		}
		refreshed++
	}
	return refreshed
}

// EvictIdle удаляет сессии, к которым не обращались дольше idleTimeout.
func (r *SessionRegistry) EvictIdle() []string {
	if r.idleTimeout <= 0 {
		return nil
	}
	deadline := r.now().Add(-r.idleTimeout)

	var evicted []string
	r.mu.Lock()
	for id, s := range r.sessions {
		if s.lastUsed.Before(deadline) {
			delete(r.sessions, id)
			evicted = append(evicted, id)
		}
	}
	r.mu.Unlock()

	for _, id := range evicted {
		r.onRemove(id)
	}
	return evicted
}

// Run периодически вызывает EvictIdle, пока не отменен ctx.
func (r *SessionRegistry) Run(ctx context.Context) {
	if r.idleTimeout <= 0 {
		return
	}
	interval := r.idleTimeout / 2
	if interval < time.Second {
		interval = time.Second
	}

	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "SessionRegistry"})
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := r.EvictIdle(); len(evicted) > 0 {
				logger.Info("Evicted idle sessions", port.Fields{"count": len(evicted), "remaining": r.Len()})
			}
		}
	}
}
