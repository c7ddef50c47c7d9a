package listener

import (
	"encoding/json"
	"log"

	"direct-messenger/event"
)

const ActionNotify = "messenger.notify"

var (
	ApiChannel = make(chan event.EventChannelData)
)

// Notifier pushes an event to every connection of a user.
type Notifier interface {
	SendToUser(userID uint, event string, payload any)
}

// Notify is the body of a messenger.notify event.
type Notify struct {
	UserID  uint            `json:"userId"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Api consumes events other services address to this one.
func Api(hub Notifier) {
	for data := range ApiChannel {
		Handle(hub, data)
	}
}

func Handle(hub Notifier, data event.EventChannelData) {
	switch data.Action {
	case ActionNotify:
		notify := Notify{}
		if err := json.Unmarshal(data.Data, &notify); err != nil || notify.UserID == 0 || notify.Event == "" {
			log.Printf("drop malformed %s event: %s", data.Action, data.Data)
			return
		}
		if !data.Out.Send {
			return
		}

		var payload any
		if len(notify.Payload) > 0 {
			if err := json.Unmarshal(notify.Payload, &payload); err != nil {
				log.Printf("drop %s event with bad payload: %v", data.Action, err)
				return
			}
		}
		hub.SendToUser(notify.UserID, notify.Event, payload)
	default:
		log.Printf("ignore unknown action %q", data.Action)
	}
}
