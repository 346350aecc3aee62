package api

import (
	"github.com/DIvanCode/rwlock/pkg/rwlock"
)

type ScenarioInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ListScenariosResponse struct {
	Scenarios []ScenarioInfo `json:"scenarios"`
}

type RunResponse struct {
	Name           string `json:"name"`
	DurationMicros int64  `json:"duration_micros"`
	Passed         bool   `json:"passed"`
	Error          string `json:"error,omitempty"`
}

type TraceEvent struct {
	Lock          string `json:"lock"`
	Op            string `json:"op"`
	Event         string `json:"event"`
	Gate          string `json:"gate,omitempty"`
	ActiveReaders int64  `json:"active_readers,omitempty"`
	ActiveWriters int64  `json:"active_writers,omitempty"`
	WaitMicros    int64  `json:"wait_micros,omitempty"`
}

type TraceResponse struct {
	Events  []TraceEvent `json:"events"`
	Dropped uint64       `json:"dropped"`
}

func NewTraceEvent(e rwlock.Event) TraceEvent {
	return TraceEvent{
		Lock:          e.Lock,
		Op:            e.Op.String(),
		Event:         e.Kind.String(),
		Gate:          e.Gate.String(),
		ActiveReaders: e.Readers,
		ActiveWriters: e.Writers,
		WaitMicros:    e.Wait.Microseconds(),
	}
}
