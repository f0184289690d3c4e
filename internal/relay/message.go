package relay

import (
	"encoding/json"
	"fmt"

	"taskcrafter/internal/model"
)

// Encode wraps u in a taskUpdate envelope.
func Encode(u model.TaskUpdate) ([]byte, error) {
	return json.Marshal(model.Envelope{Event: model.EventTaskUpdate, Data: u})
}

// Decode parses a taskUpdate envelope.
func Decode(data []byte) (model.TaskUpdate, error) {
	var env model.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return model.TaskUpdate{}, err
	}
	if env.Event != model.EventTaskUpdate {
		return model.TaskUpdate{}, fmt.Errorf("unexpected event %q", env.Event)
	}
	return env.Data, nil
}

// eventOf reads only the event name so frames can be forwarded untouched.
func eventOf(data []byte) string {
	var head struct {
		Event string `json:"event"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return ""
	}
	return head.Event
}
