package chat

import "time"

// Message is the persisted row. ID is assigned by storage and is the sole
// ordering key; Timestamp is informational (wall clocks collide under
// concurrent writers).
type Message struct {
	ID         int       `json:"id"`
	SenderID   int       `json:"sender_id"`
	ReceiverID int       `json:"receiver_id"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

// Envelope is the live-channel frame, both directions.
//
// client -> server: {"type":"join","peer_id":N}
//                   {"type":"send","receiver_id":N,"content":"..."}
// server -> client: {"type":"receive","message":{...}}
type Envelope struct {
	Type       string   `json:"type"`
	PeerID     int      `json:"peer_id,omitempty"`
	ReceiverID int      `json:"receiver_id,omitempty"`
	Content    string   `json:"content,omitempty"`
	Message    *Message `json:"message,omitempty"`
}

const (
	FrameJoin    = "join"
	FrameSend    = "send"
	FrameReceive = "receive"
)
