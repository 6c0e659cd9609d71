// Package feed реализует живые подписки: вызывающий регистрирует запрос
// и получает полный снимок результата при каждом изменении коллекции.
package feed

import (
	"sync"

	"go.uber.org/zap"
)

// watcher получает сигналы об изменении одной коллекции.
// Буфер 1: несколько изменений подряд схлопываются в один перезапрос.
type watcher struct {
	signal chan struct{}
}

// Hub раздаёт сигналы изменений подписчикам
type Hub struct {
	mu       sync.RWMutex
	watchers map[string]map[*watcher]struct{} // collection -> watchers
	logger   *zap.Logger
}

// NewHub создаёт новый хаб
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		watchers: make(map[string]map[*watcher]struct{}),
		logger:   logger,
	}
}

// Publish сообщает подписчикам коллекции что данные изменились. Не блокирует.
func (h *Hub) Publish(collection string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for w := range h.watchers[collection] {
		select {
		case w.signal <- struct{}{}:
		default:
		}
	}
}

// Subscribers возвращает количество активных подписчиков коллекции
func (h *Hub) Subscribers(collection string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers[collection])
}

func (h *Hub) register(collection string) *watcher {
	h.mu.Lock()
	defer h.mu.Unlock()

	w := &watcher{signal: make(chan struct{}, 1)}
	if _, exists := h.watchers[collection]; !exists {
		h.watchers[collection] = make(map[*watcher]struct{})
	}
	h.watchers[collection][w] = struct{}{}
	return w
}

func (h *Hub) unregister(collection string, w *watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.watchers[collection], w)
	if len(h.watchers[collection]) == 0 {
		delete(h.watchers, collection)
	}
}
