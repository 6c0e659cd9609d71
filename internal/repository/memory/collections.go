package memory

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/hall_booking/internal/model"
)

type requests struct{ v *view }

func (c requests) Create(ctx context.Context, req *model.BookingRequest) error {
	return c.v.write(ctx, model.CollectionBookingRequests, func(st *state) error {
		req.ID = newID()
		req.CreatedAt = c.v.now()
		st.requests = append(st.requests, req.Clone())
		return nil
	})
}

func (c requests) GetByID(ctx context.Context, id string) (*model.BookingRequest, error) {
	var out *model.BookingRequest
	err := c.v.read(func(st *state) error {
		if r := findRequest(st, id); r != nil {
			out = r.Clone()
		}
		return nil
	})
	return out, err
}

// GetByIDForUpdate в памяти транзакции уже сериализованы
func (c requests) GetByIDForUpdate(ctx context.Context, id string) (*model.BookingRequest, error) {
	return c.GetByID(ctx, id)
}

func (c requests) UpdateStatus(ctx context.Context, id string, status model.ApprovalStatus) error {
	return c.v.write(ctx, model.CollectionBookingRequests, func(st *state) error {
		r := findRequest(st, id)
		if r == nil {
			return fmt.Errorf("update booking request status: %s not found", id)
		}
		r.ApprovalRequest = status
		return nil
	})
}

func (c requests) List(ctx context.Context, scope model.Scope) ([]*model.BookingRequest, error) {
	var out []*model.BookingRequest
	err := c.v.read(func(st *state) error {
		out = filter(st.requests, scope)
		return nil
	})
	return out, err
}

func findRequest(st *state, id string) *model.BookingRequest {
	for _, r := range st.requests {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func filter(records []*model.BookingRequest, scope model.Scope) []*model.BookingRequest {
	out := make([]*model.BookingRequest, 0)
	for _, r := range records {
		if scope.Matches(r) {
			out = append(out, r.Clone())
		}
	}
	return out
}

type history struct{ v *view }

// Upsert сохраняет запись архива, повторная запись с тем же id перезаписывает её
func (c history) Upsert(ctx context.Context, req *model.BookingRequest) error {
	return c.v.write(ctx, model.CollectionHistory, func(st *state) error {
		if _, ok := st.history[req.ID]; !ok {
			st.historyOrder = append(st.historyOrder, req.ID)
		}
		st.history[req.ID] = req.Clone()
		return nil
	})
}

func (c history) GetByID(ctx context.Context, id string) (*model.BookingRequest, error) {
	var out *model.BookingRequest
	err := c.v.read(func(st *state) error {
		if r, ok := st.history[id]; ok {
			out = r.Clone()
		}
		return nil
	})
	return out, err
}

func (c history) List(ctx context.Context, scope model.Scope) ([]*model.BookingRequest, error) {
	var out []*model.BookingRequest
	err := c.v.read(func(st *state) error {
		ordered := make([]*model.BookingRequest, 0, len(st.historyOrder))
		for _, id := range st.historyOrder {
			ordered = append(ordered, st.history[id])
		}
		out = filter(ordered, scope)
		return nil
	})
	return out, err
}

type notifications struct{ v *view }

func (c notifications) Create(ctx context.Context, n *model.Notification) error {
	return c.v.write(ctx, model.CollectionNotifications, func(st *state) error {
		n.ID = newID()
		n.Timestamp = c.v.now()
		cp := *n
		st.notifications = append(st.notifications, &cp)
		return nil
	})
}

func (c notifications) ListByRecipient(ctx context.Context, recipientUID string) ([]*model.Notification, error) {
	return c.list(func(n *model.Notification) bool { return n.RecipientUID == recipientUID })
}

func (c notifications) ListByRequest(ctx context.Context, requestID string) ([]*model.Notification, error) {
	return c.list(func(n *model.Notification) bool { return n.RequestID == requestID })
}

func (c notifications) list(match func(n *model.Notification) bool) ([]*model.Notification, error) {
	out := make([]*model.Notification, 0)
	err := c.v.read(func(st *state) error {
		for _, n := range st.notifications {
			if match(n) {
				cp := *n
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}

type profiles struct{ v *view }

func (c profiles) GetByUID(ctx context.Context, uid string) (*model.UserProfile, error) {
	return c.find(func(p *model.UserProfile) bool { return p.UID == uid })
}

func (c profiles) GetByTelegramChatID(ctx context.Context, chatID int64) (*model.UserProfile, error) {
	return c.find(func(p *model.UserProfile) bool {
		return p.TelegramChatID != nil && *p.TelegramChatID == chatID
	})
}

func (c profiles) FindHeadOfDepartment(ctx context.Context, department string) (*model.UserProfile, error) {
	return c.find(func(p *model.UserProfile) bool {
		return p.Role == model.RoleHOD && p.Department == department
	})
}

func (c profiles) ListHallManagers(ctx context.Context, hall string) ([]*model.UserProfile, error) {
	var out []*model.UserProfile
	err := c.v.read(func(st *state) error {
		for _, p := range sortedProfiles(st) {
			if p.IsHallManagerOf(hall) {
				cp := *p
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}

func (c profiles) find(match func(p *model.UserProfile) bool) (*model.UserProfile, error) {
	var out *model.UserProfile
	err := c.v.read(func(st *state) error {
		for _, p := range sortedProfiles(st) {
			if match(p) {
				cp := *p
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

type halls struct{ v *view }

func (c halls) GetByName(ctx context.Context, name string) (*model.Hall, error) {
	var out *model.Hall
	err := c.v.read(func(st *state) error {
		for _, h := range st.halls {
			if h.Name == name {
				cp := *h
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (c halls) List(ctx context.Context) ([]*model.Hall, error) {
	out := make([]*model.Hall, 0)
	err := c.v.read(func(st *state) error {
		for _, h := range st.halls {
			cp := *h
			out = append(out, &cp)
		}
		return nil
	})
	return out, err
}

type outbox struct{ v *view }

func (c outbox) Add(ctx context.Context, event *model.OutboxEvent) error {
	return c.v.write(ctx, model.CollectionOutbox, func(st *state) error {
		event.ID = newID()
		event.CreatedAt = c.v.now()
		cp := *event
		st.outbox = append(st.outbox, &cp)
		return nil
	})
}

func (c outbox) FetchPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	out := make([]*model.OutboxEvent, 0)
	err := c.v.read(func(st *state) error {
		for _, e := range st.outbox {
			if limit > 0 && len(out) >= limit {
				break
			}
			if e.PublishedAt == nil {
				cp := *e
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}

func (c outbox) MarkPublished(ctx context.Context, id string) error {
	return c.v.write(ctx, model.CollectionOutbox, func(st *state) error {
		for _, e := range st.outbox {
			if e.ID == id {
				at := c.v.now()
				e.PublishedAt = &at
				return nil
			}
		}
		return fmt.Errorf("mark outbox event published: %s not found", id)
	})
}
