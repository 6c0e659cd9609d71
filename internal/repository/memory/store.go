// Package memory транзакционное хранилище в памяти.
// Используется в тестах и при STORE_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/Freeeeeet/hall_booking/internal/store"
	"github.com/google/uuid"
)

// ChangePublisher получает имена изменённых коллекций после коммита
type ChangePublisher interface {
	Publish(collection string)
}

type state struct {
	requests      []*model.BookingRequest
	history       map[string]*model.BookingRequest
	historyOrder  []string
	notifications []*model.Notification
	profiles      map[string]*model.UserProfile
	halls         []*model.Hall
	outbox        []*model.OutboxEvent
}

func newState() *state {
	return &state{
		history:  map[string]*model.BookingRequest{},
		profiles: map[string]*model.UserProfile{},
	}
}

// clone копирует изменяемые записи. Профили и залы только читаются и не копируются.
func (s *state) clone() *state {
	c := &state{
		requests:      make([]*model.BookingRequest, len(s.requests)),
		history:       make(map[string]*model.BookingRequest, len(s.history)),
		historyOrder:  append([]string(nil), s.historyOrder...),
		notifications: append([]*model.Notification(nil), s.notifications...),
		profiles:      s.profiles,
		halls:         s.halls,
		outbox:        make([]*model.OutboxEvent, len(s.outbox)),
	}
	for i, r := range s.requests {
		c.requests[i] = r.Clone()
	}
	for id, r := range s.history {
		c.history[id] = r.Clone()
	}
	for i, e := range s.outbox {
		cp := *e
		c.outbox[i] = &cp
	}
	return c
}

// Store хранилище в памяти. Транзакции выполняются по одной:
// fn работает над копией состояния, копия подменяет состояние только при успехе.
type Store struct {
	mu        sync.RWMutex
	state     *state
	publisher ChangePublisher
	nowFn     func() time.Time
	auto      *view
}

var _ store.Store = (*Store)(nil)

type Option func(*Store)

// WithPublisher задаёт получателя сигналов об изменениях
func WithPublisher(p ChangePublisher) Option {
	return func(s *Store) { s.publisher = p }
}

// WithClock подменяет часы, которыми штампуются записи
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.nowFn = now }
}

func New(opts ...Option) *Store {
	s := &Store{
		state: newState(),
		nowFn: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.auto = &view{store: s}
	return s
}

// SeedProfiles добавляет или заменяет профили пользователей
func (s *Store) SeedProfiles(profiles ...*model.UserProfile) {
	s.mu.Lock()
	next := make(map[string]*model.UserProfile, len(s.state.profiles)+len(profiles))
	for uid, p := range s.state.profiles {
		next[uid] = p
	}
	for _, p := range profiles {
		cp := *p
		next[p.UID] = &cp
	}
	s.state.profiles = next
	s.mu.Unlock()

	s.publish(map[string]struct{}{model.CollectionUsers: {}})
}

// SeedHalls добавляет залы в каталог
func (s *Store) SeedHalls(halls ...*model.Hall) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := append([]*model.Hall(nil), s.state.halls...)
	for _, h := range halls {
		cp := *h
		next = append(next, &cp)
	}
	s.state.halls = next
}

// RunInTx выполняет fn над копией состояния. Ошибка fn отбрасывает все изменения.
// Внутри fn нужно использовать только переданный tx.
func (s *Store) RunInTx(ctx context.Context, fn func(tx store.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	touched, err := s.apply(fn)
	if err != nil {
		return err
	}

	s.publish(touched)
	return nil
}

// apply держит блокировку на время fn. Паника в fn снимает блокировку
// и оставляет состояние прежним.
func (s *Store) apply(fn func(tx store.Tx) error) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &view{
		store:   s,
		st:      s.state.clone(),
		touched: map[string]struct{}{},
	}
	if err := fn(tx); err != nil {
		return nil, err
	}
	s.state = tx.st
	return tx.touched, nil
}

func (s *Store) publish(touched map[string]struct{}) {
	if s.publisher == nil || len(touched) == 0 {
		return
	}
	names := make([]string, 0, len(touched))
	for name := range touched {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.publisher.Publish(name)
	}
}

func (s *Store) Requests() store.BookingRequests { return s.auto.Requests() }
func (s *Store) History() store.History { return s.auto.History() }
func (s *Store) Notifications() store.Notifications { return s.auto.Notifications() }
func (s *Store) Profiles() store.Profiles { return s.auto.Profiles() }
func (s *Store) Halls() store.Halls { return s.auto.Halls() }
func (s *Store) Outbox() store.Outbox { return s.auto.Outbox() }

// view коллекции над состоянием транзакции. Без st (auto) каждый вызов
// берёт блокировку сам: чтение под RLock, запись как отдельная транзакция.
type view struct {
	store   *Store
	st      *state
	touched map[string]struct{}
}

func (v *view) read(fn func(st *state) error) error {
	if v.st != nil {
		return fn(v.st)
	}
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	return fn(v.store.state)
}

func (v *view) write(ctx context.Context, collection string, fn func(st *state) error) error {
	if v.st != nil {
		if err := fn(v.st); err != nil {
			return err
		}
		v.touched[collection] = struct{}{}
		return nil
	}
	return v.store.RunInTx(ctx, func(tx store.Tx) error {
		return tx.(*view).write(ctx, collection, fn)
	})
}

func (v *view) now() time.Time {
	return v.store.nowFn()
}

func (v *view) Requests() store.BookingRequests { return requests{v} }
func (v *view) History() store.History { return history{v} }
func (v *view) Notifications() store.Notifications { return notifications{v} }
func (v *view) Profiles() store.Profiles { return profiles{v} }
func (v *view) Halls() store.Halls { return halls{v} }
func (v *view) Outbox() store.Outbox { return outbox{v} }

func newID() string {
	return uuid.NewString()
}

// sortedProfiles возвращает профили в порядке uid, чтобы поиск был детерминированным
func sortedProfiles(st *state) []*model.UserProfile {
	out := make([]*model.UserProfile, 0, len(st.profiles))
	for _, p := range st.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out
}
