package feed

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// QueryFunc вычисляет полный снимок результата
type QueryFunc[S any] func(ctx context.Context) (S, error)

// Subscription поток снимков одного запроса.
// C закрывается при отмене контекста, Close или ошибке запроса (см. Err).
type Subscription[S any] struct {
	C <-chan S

	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error
}

// Watch подписывается на изменения коллекции. Первый снимок отправляется сразу,
// затем после каждого изменения. Порядок снимков совпадает с порядком изменений.
func Watch[S any](ctx context.Context, h *Hub, collection string, query QueryFunc[S]) *Subscription[S] {
	ctx, cancel := context.WithCancel(ctx)
	out := make(chan S)

	s := &Subscription[S]{
		C:      out,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	// Регистрируемся до первого запроса, чтобы не потерять изменение между ними
	w := h.register(collection)
	go s.run(ctx, h, collection, w, query, out)

	return s
}

func (s *Subscription[S]) run(ctx context.Context, h *Hub, collection string, w *watcher, query QueryFunc[S], out chan<- S) {
	defer close(s.done)
	defer close(out)
	defer h.unregister(collection, w)

	for {
		snapshot, err := query(ctx)
		if err != nil {
			if ctx.Err() == nil {
				h.logger.Warn("Subscription query failed",
					zap.String("collection", collection),
					zap.Error(err))
				s.setErr(err)
			}
			return
		}

		select {
		case out <- snapshot:
		case <-ctx.Done():
			return
		}

		select {
		case <-w.signal:
		case <-ctx.Done():
			return
		}
	}
}

// Close отменяет подписку и дожидается завершения горутины
func (s *Subscription[S]) Close() {
	s.cancel()
	<-s.done
}

// Done закрывается когда подписка завершена
func (s *Subscription[S]) Done() <-chan struct{} {
	return s.done
}

// Err возвращает ошибку, из-за которой поток был закрыт, или nil
func (s *Subscription[S]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Subscription[S]) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}
