package router

import (
	"context"
	"fmt"
	"time"

	"direct-messenger/messenger"
	"direct-messenger/model"
	"direct-messenger/socketio"

	"github.com/go-viper/mapstructure/v2"
	"github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/socket.io/v2/socket"
)

var routerLog = log.NewLog("router")

const taskTimeout = 10 * time.Second

// connection adapts a socket.io socket to messenger.Client.
type connection struct {
	socket   *socket.Socket
	identity *model.Identity
	tasks    *queue
}

func (c *connection) ID() string                { return string(c.socket.Id()) }
func (c *connection) Identity() *model.Identity { return c.identity }

func (c *connection) Emit(event string, payload any) {
	if err := c.socket.Emit(event, payload); err != nil {
		routerLog.Error("emit %s to %s: %v", event, c.socket.Id(), err)
	}
}

func (c *connection) Broadcast(event string, payload any) {
	if err := c.socket.Broadcast().Emit(event, payload); err != nil {
		routerLog.Error("broadcast %s from %s: %v", event, c.socket.Id(), err)
	}
}

// dispatch queues task behind the connection's earlier events. A panic is
// reported to the connection and does not end it.
func (c *connection) dispatch(event string, task func(ctx context.Context)) {
	c.tasks.push(func() {
		defer func() {
			if r := recover(); r != nil {
				c.Emit(messenger.EventError, messenger.Failure("Internal server error", fmt.Errorf("%s: %v", event, r)))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
		defer cancel()
		task(ctx)
	})
}

// on decodes the first argument of event into T and queues handle.
func on[T any](c *connection, event string, handle func(context.Context, messenger.Client, T)) {
	c.socket.On(event, func(args ...any) {
		in, err := decode[T](args)
		if err != nil {
			c.Emit(messenger.EventError, messenger.Failure("Invalid payload", err))
			return
		}
		c.dispatch(event, func(ctx context.Context) {
			handle(ctx, c, in)
		})
	})
}

// decode maps a JSON object payload onto T by its json tags. Numbers sent as
// strings are accepted.
func decode[T any](args []any) (T, error) {
	var out T
	if len(args) == 0 || args[0] == nil {
		return out, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return out, err
	}
	err = decoder.Decode(args[0])
	return out, err
}

func Socket(server *socket.Server, handler *messenger.Handler) {
	server.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)

		identity, ok := client.Data().(*model.Identity)
		if !ok {
			client.Disconnect(true)
			return
		}

		client.Join(socketio.Room(identity.UserID))
		c := &connection{
			socket:   client,
			identity: identity,
			tasks:    newQueue(),
		}
		go c.tasks.run()

		routerLog.Debug("user %d connected on %s", identity.UserID, client.Id())
		c.dispatch("connection", func(context.Context) {
			handler.Connected(c)
		})

		on(c, messenger.EventSendMessage, handler.SendMessage)
		on(c, messenger.EventEditMessage, handler.EditMessage)
		on(c, messenger.EventDeleteMessage, handler.DeleteMessage)
		on(c, messenger.EventGetMessages, handler.GetMessages)
		on(c, messenger.EventTypingStart, handler.TypingStart)
		on(c, messenger.EventTypingStop, handler.TypingStop)

		client.On(messenger.EventGetOnlineUsers, func(...any) {
			c.dispatch(messenger.EventGetOnlineUsers, func(context.Context) {
				handler.OnlineUsers(c)
			})
		})

		client.On("disconnect", func(reason ...any) {
			routerLog.Debug("user %d disconnected from %s: %v", identity.UserID, client.Id(), reason)
			c.dispatch("disconnect", func(context.Context) {
				handler.Disconnected(c)
			})
			c.tasks.close()
		})
	})
}
