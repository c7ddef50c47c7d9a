package messenger

import (
	"fmt"
	"sync"

	"direct-messenger/model"
)

type sent struct {
	UserID  uint
	Event   string
	Payload any
}

// fakeHub records every targeted push.
type fakeHub struct {
	mu   sync.Mutex
	sent []sent
}

func (h *fakeHub) SendToUser(userID uint, event string, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sent = append(h.sent, sent{UserID: userID, Event: event, Payload: payload})
}

func (h *fakeHub) to(userID uint, event string) []any {
	h.mu.Lock()
	defer h.mu.Unlock()

	var payloads []any
	for _, s := range h.sent {
		if s.UserID == userID && s.Event == event {
			payloads = append(payloads, s.Payload)
		}
	}
	return payloads
}

func (h *fakeHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sent)
}

type emitted struct {
	Event   string
	Payload any
}

// fakeClient records what is emitted to the connection and broadcast from it.
type fakeClient struct {
	id        string
	identity  *model.Identity
	emits     []emitted
	broadcast []emitted
}

func newClient(user *model.User, conn int) *fakeClient {
	return &fakeClient{
		id:       fmt.Sprintf("conn-%d-%d", user.ID, conn),
		identity: model.IdentityOf(user),
	}
}

func (c *fakeClient) ID() string                { return c.id }
func (c *fakeClient) Identity() *model.Identity { return c.identity }

func (c *fakeClient) Emit(event string, payload any) {
	c.emits = append(c.emits, emitted{event, payload})
}

func (c *fakeClient) Broadcast(event string, payload any) {
	c.broadcast = append(c.broadcast, emitted{event, payload})
}

func (c *fakeClient) last(event string) any {
	for i := len(c.emits) - 1; i >= 0; i-- {
		if c.emits[i].Event == event {
			return c.emits[i].Payload
		}
	}
	return nil
}

func (c *fakeClient) errors() []*Error {
	var errs []*Error
	for _, e := range c.emits {
		if e.Event == EventError {
			errs = append(errs, e.Payload.(*Error))
		}
	}
	return errs
}

type published struct {
	Action  string
	Payload any
}

type fakePublisher struct {
	events []published
}

func (p *fakePublisher) Publish(action string, payload any) {
	p.events = append(p.events, published{action, payload})
}
