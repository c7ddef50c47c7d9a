package event

import (
	"encoding/json"
	"errors"
	"log"
)

// Publisher sends domain events to one queue. Failures are logged and
// dropped so that messaging never depends on the broker.
type Publisher struct {
	Queue string
}

func (p Publisher) Publish(action string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("encode %s: %v", action, err)
		return
	}

	if err := Emit(p.Queue, action, data, true); err != nil && !errors.Is(err, ErrDisabled) {
		log.Printf("publish %s: %v", action, err)
	}
}
