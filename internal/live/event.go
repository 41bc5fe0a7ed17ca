package live

import "time"

// Event is one tagged record pushed to a connected client. The durable copy of
// whatever it announces is already stored by the time it is built, so delivery
// is best-effort and never retried.
type Event struct {
	Type      string         `json:"type"`
	Timestamp int64          `json:"timestamp,omitempty"`
	RoomID    uint64         `json:"chat_room_id,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

const (
	TypeConnected       = "connected"
	TypeNotification    = "notification"
	TypeChatMessage     = "chat_message"
	TypeRequestAccepted = "request_accepted"
)

func now() int64 { return time.Now().UnixMilli() }

func Connected() Event {
	return Event{
		Type:      TypeConnected,
		Timestamp: now(),
		Data:      map[string]any{"message": "real-time events connected"},
	}
}

func Notification(payload map[string]any) Event {
	return Event{Type: TypeNotification, Timestamp: now(), Data: payload}
}

func ChatMessage(roomID uint64, payload map[string]any) Event {
	return Event{Type: TypeChatMessage, Timestamp: now(), RoomID: roomID, Data: payload}
}

func RequestAccepted(message, skillName, otherUser string, otherUserID, roomID uint64) Event {
	return Event{
		Type:      TypeRequestAccepted,
		Timestamp: now(),
		Data: map[string]any{
			"message":       message,
			"skill_name":    skillName,
			"other_user":    otherUser,
			"other_user_id": otherUserID,
			"chat_room_id":  roomID,
			"action":        "start_chat",
		},
	}
}
