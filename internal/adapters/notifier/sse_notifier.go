package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"rental-listing-client/internal/contextkeys"
	"rental-listing-client/internal/core/port"
)

// ClientChannel - канал одного SSE-подключения. Закрывается, когда сессию удаляют.
type ClientChannel chan []byte

// EventEncoder сериализует событие в поле data SSE-сообщения.
type EventEncoder func(event port.ListingEvent) ([]byte, error)

type eventWithContext struct {
	ctx   context.Context
	event port.ListingEvent
}

// SSENotifier реализует NotifierPort: рассылает события сессии всем ее SSE-подписчикам.
type SSENotifier struct {
	// ключ - ID сессии, значение - подключения (одну сессию могут слушать несколько вкладок)
	clients map[string][]ClientChannel
	mu      sync.RWMutex

	eventChan chan eventWithContext
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	encode EventEncoder
	logger port.LoggerPort
}

func NewSSENotifier(baseLogger port.LoggerPort, encode EventEncoder) *SSENotifier {
	if encode == nil {
		encode = func(event port.ListingEvent) ([]byte, error) { return json.Marshal(event) }
	}

	n := &SSENotifier{
		clients:   make(map[string][]ClientChannel),
		eventChan: make(chan eventWithContext, 100),
		done:      make(chan struct{}),
		encode:    encode,
		logger:    baseLogger.WithFields(port.Fields{"component": "SSENotifier"}),
	}

	n.wg.Add(1)
	go n.dispatcher()
	return n
}

func (n *SSENotifier) dispatcher() {
	defer n.wg.Done()
	n.logger.Debug("Notifier dispatcher started", nil)

	for {
		select {
		case <-n.done:
			n.logger.Debug("Notifier dispatcher stopped", nil)
			return
		case pkg := <-n.eventChan:
			n.dispatch(pkg.ctx, pkg.event)
		}
	}
}

func (n *SSENotifier) dispatch(ctx context.Context, event port.ListingEvent) {
	eventLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "SSENotifier.dispatcher",
		"event_type": string(event.Type),
		"session_id": event.SessionID,
	})

	data, err := n.encode(event)
	if err != nil {
		eventLogger.Error("Failed to marshal event", err, nil)
		return
	}
	message := []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", event.Type, data))

	n.mu.RLock()
	defer n.mu.RUnlock()

	channels, found := n.clients[event.SessionID]
	if !found {
		eventLogger.Debug("No active clients for session, event dropped", nil)
		return
	}
	for _, ch := range channels {
		select {
		case ch <- message:
		default:
			eventLogger.Warn("Client channel is full, skipping", nil)
		}
	}
}

// Notify ставит событие в очередь рассылки. Если очередь переполнена, событие теряется:
// контроллер списка не должен ждать медленных подписчиков.
func (n *SSENotifier) Notify(ctx context.Context, event port.ListingEvent) {
	select {
	case <-n.done:
		return
	default:
	}

	select {
	case n.eventChan <- eventWithContext{ctx: ctx, event: event}:
	default:
		n.logger.Warn("Notifier queue is full, event dropped", port.Fields{
			"session_id": event.SessionID,
			"event_type": string(event.Type),
		})
	}
}

// AddClient регистрирует новое SSE-подключение сессии.
func (n *SSENotifier) AddClient(sessionID string) ClientChannel {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(ClientChannel, 100)
	n.clients[sessionID] = append(n.clients[sessionID], ch)

	n.logger.Info("Client subscribed to session", port.Fields{
		"session_id":        sessionID,
		"total_connections": len(n.clients[sessionID]),
	})
	return ch
}

// RemoveClient удаляет подключение, когда клиент отключился.
func (n *SSENotifier) RemoveClient(sessionID string, ch ClientChannel) {
	n.mu.Lock()
	defer n.mu.Unlock()

	channels, found := n.clients[sessionID]
	if !found {
		return
	}

	remaining := make([]ClientChannel, 0, len(channels))
	for _, c := range channels {
		if c != ch {
			remaining = append(remaining, c)
		}
	}

	if len(remaining) == 0 {
		delete(n.clients, sessionID)
		n.logger.Debug("Last client disconnected from session", port.Fields{"session_id": sessionID})
		return
	}
	n.clients[sessionID] = remaining
	n.logger.Info("Client disconnected from session", port.Fields{
		"session_id":            sessionID,
		"remaining_connections": len(remaining),
	})
}

// DropSession закрывает все подключения сессии. Обработчики SSE видят закрытый канал и завершаются.
func (n *SSENotifier) DropSession(sessionID string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.clients[sessionID] {
		close(ch)
	}
	delete(n.clients, sessionID)
}

// ClientCount возвращает число подключений сессии.
func (n *SSENotifier) ClientCount(sessionID string) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.clients[sessionID])
}

// Close останавливает диспетчер и закрывает все подключения.
func (n *SSENotifier) Close() {
	n.closeOnce.Do(func() {
		close(n.done)
		n.wg.Wait()

		n.mu.Lock()
		defer n.mu.Unlock()
		for id, channels := range n.clients {
			for _, ch := range channels {
				close(ch)
			}
			delete(n.clients, id)
		}
	})
}
