package pushchannel

import (
	"encoding/json"

	"sales-assist-bff/internal/constant"
)

// Message is one tagged frame from /ws/sessions/{id}.
type Message struct {
	Type     string          `json:"type"`
	Status   string          `json:"status,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
	Message  string          `json:"message,omitempty"`
	Error    string          `json:"error,omitempty"`
	Progress *float64        `json:"progress,omitempty"`
}

// IsUpdate reports whether the frame carries a finished analysis.
func (m Message) IsUpdate() bool {
	return m.Type == constant.PushMessageSlowPathUpdate || m.Type == constant.PushMessageSlowPathComplete
}

// ErrorText returns the failure text of an error frame, falling back to a generic message.
func (m Message) ErrorText() string {
	if m.Message != "" {
		return m.Message
	}
	if m.Error != "" {
		return m.Error
	}
	return constant.DefaultSlowPathErrorMessage
}

// Handler receives frames on the channel's own goroutine.
type Handler func(sessionId string, msg Message)
