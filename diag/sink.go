package diag

import (
	"context"
	"encoding/json"

	"spuders/engine/logging"
)

// Sink adapts a Hub to the logging router so the diag feed is configured
// like any other sink.
type Sink struct {
	hub *Hub
}

func NewSink(hub *Hub) *Sink {
	return &Sink{hub: hub}
}

func (s *Sink) Write(event logging.Event) error {
	if s == nil || s.hub == nil {
		return nil
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	s.hub.Broadcast(data)
	return nil
}

func (s *Sink) Close(context.Context) error {
	if s != nil && s.hub != nil {
		s.hub.Close()
	}
	return nil
}
