package domain

import "encoding/json"

type EventName string

const (
	EventFileProcessID EventName = "fileProcessId"
	EventLog           EventName = "log"
	EventHistory       EventName = "history"
	EventProgress      EventName = "progress"
	EventSummary       EventName = "summary"
	EventError         EventName = "error"
)

// Event is a transient broadcast. JobID lets subscribers of a single job
// receive it in addition to the owner's subscribers.
type Event struct {
	Name    EventName `json:"event"`
	JobID   string    `json:"jobId,omitempty"`
	Payload any       `json:"payload"`
}

type ProgressPayload struct {
	ProcessID string `json:"processId"`
	Percent   int    `json:"percent"`
}

type SummaryPayload struct {
	Summary
	ProcessID string `json:"processId"`
}

// Message is an event addressed to a routing key, as carried between processes.
type Message struct {
	RoutingKey string          `json:"routingKey"`
	Name       EventName       `json:"event"`
	JobID      string          `json:"jobId,omitempty"`
	Payload    json.RawMessage `json:"payload"`
}

func NewMessage(routingKey string, event Event) (*Message, error) {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return nil, err
	}

	return &Message{
		RoutingKey: routingKey,
		Name:       event.Name,
		JobID:      event.JobID,
		Payload:    payload,
	}, nil
}

func (m *Message) Event() Event {
	return Event{Name: m.Name, JobID: m.JobID, Payload: m.Payload}
}
