// Package messenger implements the per-connection chat protocol: sending,
// editing, deleting and paging messages, typing relay and presence
// announcements. It reads and writes through the store and pushes events to
// other users through a Hub.
package messenger

import (
	"direct-messenger/model"
	"direct-messenger/presence"
	"direct-messenger/store"

	"github.com/zishang520/engine.io/v2/log"
)

var messengerLog = log.NewLog("messenger")

const (
	DefaultPage            = 1
	DefaultHistoryLimit    = 50
	DefaultMaxHistoryLimit = 200
)

// Client is one authenticated connection.
type Client interface {
	ID() string
	Identity() *model.Identity
	// Emit sends an event to this connection only.
	Emit(event string, payload any)
	// Broadcast sends an event to every connection except this one.
	Broadcast(event string, payload any)
}

// Hub delivers an event to every live connection of a user. Events for
// offline users are dropped.
type Hub interface {
	SendToUser(userID uint, event string, payload any)
}

// Publisher forwards domain events to other services.
type Publisher interface {
	Publish(action string, payload any)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, any) {}

type Handler struct {
	store    *store.Store
	presence *presence.Registry
	hub      Hub
	events   Publisher
	maxLimit int
}

type Option func(*Handler)

func WithPublisher(p Publisher) Option {
	return func(h *Handler) {
		if p != nil {
			h.events = p
		}
	}
}

// WithMaxHistoryLimit caps the page size accepted by GetMessages.
func WithMaxHistoryLimit(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxLimit = n
		}
	}
}

func New(s *store.Store, registry *presence.Registry, hub Hub, opts ...Option) *Handler {
	h := &Handler{
		store:    s,
		presence: registry,
		hub:      hub,
		events:   nopPublisher{},
		maxLimit: DefaultMaxHistoryLimit,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// fail reports err to the requesting connection only.
func (h *Handler) fail(c Client, err *Error) {
	if err.err != nil {
		messengerLog.Error("user %d: %s: %v", c.Identity().UserID, err.Message, err.err)
	}
	c.Emit(EventError, err)
}
