package assistant

// Event types carried in the "type" field of a stream frame. Frames with a
// type outside this set are ignored.
const (
	EventUserMessage = "user_message"
	EventToken       = "token"
	EventToolCall    = "tool_call"
	EventDone        = "done"
	EventError       = "error"
)

// Tool call statuses carried in the "status" field of a tool_call frame.
const (
	ToolStatusRunning = "running"
	ToolStatusDone    = "done"
)

// StreamEvent is one decoded frame from the assistant's event stream. Which
// payload field is meaningful depends on Type:
//
//   - user_message: MessageID of the persisted user message
//   - token:        Content, one fragment of assistant text
//   - tool_call:    Name and Status
//   - done:         MessageID of the persisted assistant message
//   - error:        Message, a human-readable failure description
type StreamEvent struct {
	Type      string `json:"type"`
	Content   string `json:"content,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Status    string `json:"status,omitempty"`
	Message   string `json:"message,omitempty"`
}
