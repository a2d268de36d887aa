package events

import "github.com/google/uuid"

// EventType classifies events for transport-specific encoding.
type EventType int

const (
	EvLine       EventType = iota // Bare text line outside the message frame
	EvMessage                     // Full redraw of the player's screen message
	EvConnect                     // Player connected
	EvDisconnect                  // Player disconnected
	EvShutdown                    // Server is going down
)

// String returns a human-readable name for the event type.
func (t EventType) String() string {
	switch t {
	case EvLine:
		return "line"
	case EvMessage:
		return "message"
	case EvConnect:
		return "connect"
	case EvDisconnect:
		return "disconnect"
	case EvShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// Event is a structured game event that flows through the event bus.
// Transports decide how to encode each event: plain-line transports print
// Text, the websocket transport sends the full structured frame.
type Event struct {
	Type   EventType
	Player uuid.UUID // Recipient (uuid.Nil for broadcast)
	Source uuid.UUID // Who generated the event
	Text   string    // Pre-formatted text (line transports use this)
	Data   map[string]any
}
