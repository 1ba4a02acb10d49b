package models

// WebSocketMessage is the envelope pushed to feed subscribers.
type WebSocketMessage struct {
	EventType string `json:"event_type"`
	Data      any    `json:"data"`
}
