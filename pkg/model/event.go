package model

import "slices"

type EventType string

const (
	EventPit      EventType = "pit"
	EventOvertake EventType = "overtake"
	EventStart    EventType = "start"
	EventFinish   EventType = "finish"
)

// MaxEvents is the number of entries kept in the EventLog
const MaxEvents = 10

type Event struct {
	Lap     int       `json:"lap"`
	Message string    `json:"message"`
	Type    EventType `json:"type"`
}

// EventLog keeps the most recent events, newest first
type EventLog struct {
	entries []Event
}

// Add prepends the events in the given order, so the last one ends up first.
func (l *EventLog) Add(events ...Event) {
	for _, e := range events {
		l.entries = append([]Event{e}, l.entries...)
		if len(l.entries) > MaxEvents {
			l.entries = l.entries[:MaxEvents]
		}
	}
}

func (l *EventLog) Clear() {
	l.entries = nil
}

func (l *EventLog) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the log, newest first
func (l *EventLog) Entries() []Event {
	ret := slices.Clone(l.entries)
	if ret == nil {
		ret = []Event{}
	}
	return ret
}
