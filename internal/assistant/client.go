package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Callbacks are the slots the consuming UI plugs into the client. Any slot
// may be nil. Callbacks are invoked in frame arrival order, from the
// goroutine that reads the response body, and may themselves call Send or
// Cancel on the client.
type Callbacks struct {
	// OnToken receives one text fragment per token frame. The client does
	// not concatenate fragments; assembling the message is the caller's job.
	OnToken func(fragment string)

	// OnUserMessage receives the persisted user message ID, at most once per
	// send and before any token fragments for that turn.
	OnUserMessage func(messageID string)

	// OnDone receives the persisted assistant message ID, exactly once on
	// normal completion and never after an error or a cancellation.
	OnDone func(messageID string)
}

// Config carries the client's construction parameters. Credentials are
// injected explicitly here rather than read from any shared HTTP client
// state.
type Config struct {
	// BaseURL is the platform API root, e.g. "https://api.meridianesg.io".
	BaseURL string

	// Token is the bearer token attached to every streaming request.
	Token string

	// HTTPClient overrides the transport. Defaults to a client with no
	// overall timeout, since a streaming response stays open indefinitely.
	HTTPClient *http.Client

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Client streams assistant responses for one conversation at a time. It owns
// at most one in-flight request: calling Send while a stream is active
// cancels the previous request before the new one starts, so the newest call
// always wins. All exported methods are safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
	callbacks  Callbacks

	mu              sync.Mutex
	gen             uint64
	cancel          context.CancelFunc
	streaming       bool
	activeToolCalls []string
	userMessageSeen bool
	lastErr         error
}

// NewClient creates a streaming client with the given callback slots.
func NewClient(cfg Config, callbacks Callbacks) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		// No Timeout: it would cut long streams off. Connection setup is
		// still bounded.
		httpClient = &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: 30 * time.Second,
			},
		}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: httpClient,
		logger:     logger,
		callbacks:  callbacks,
	}
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

// Send appends a user message to the conversation and streams the assistant's
// response through the callbacks. It is fire-and-forget: completion, failure
// and the response itself are all observed via the callbacks and the
// IsStreaming/ActiveToolCalls/Err accessors. Expected failure modes never
// panic or escape; they surface through Err.
func (c *Client) Send(conversationID, content string) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.lastErr = nil
	c.activeToolCalls = nil
	c.userMessageSeen = false

	if conversationID == "" {
		c.streaming = false
		c.lastErr = fmt.Errorf("conversation id is required")
		c.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.streaming = true
	c.mu.Unlock()

	go c.run(ctx, gen, conversationID, content)
}

// Cancel aborts the in-flight request, if any. It is idempotent, and unlike
// a stream failure it does not record an error: an aborted stream simply
// stops. No callbacks fire for the aborted stream once its events are
// superseded.
func (c *Client) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel == nil {
		return
	}
	c.gen++
	c.cancel()
	c.cancel = nil
	c.streaming = false
	c.activeToolCalls = nil
}

// IsStreaming reports whether a request is in flight.
func (c *Client) IsStreaming() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.streaming
}

// ActiveToolCalls returns the names the assistant has announced as running,
// in announcement order. Duplicate names are kept as separate entries.
func (c *Client) ActiveToolCalls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.activeToolCalls) == 0 {
		return nil
	}
	out := make([]string, len(c.activeToolCalls))
	copy(out, c.activeToolCalls)
	return out
}

// Err returns the last stream failure, or nil. It is cleared at the start of
// every Send and is never set by cancellation.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Client) run(ctx context.Context, gen uint64, conversationID, content string) {
	body, err := json.Marshal(sendMessageRequest{Content: content})
	if err != nil {
		c.fail(gen, fmt.Errorf("failed to encode message: %w", err))
		return
	}

	url := fmt.Sprintf("%s/api/v1/conversations/%s/messages/stream", c.baseURL, conversationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		c.fail(gen, fmt.Errorf("failed to build request: %w", err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			c.finish(gen)
			return
		}
		c.fail(gen, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.fail(gen, fmt.Errorf("assistant request failed with status %d", resp.StatusCode))
		return
	}

	decoder := NewEventDecoder(resp.Body)
	for {
		event, err := decoder.Next()
		if err != nil {
			if err == io.EOF || ctx.Err() != nil {
				// End of stream without a terminal frame is not success:
				// leave streaming state but synthesize nothing.
				c.finish(gen)
				return
			}
			c.fail(gen, err)
			return
		}
		if terminal := c.dispatch(gen, event); terminal {
			return
		}
		if ctx.Err() != nil {
			c.finish(gen)
			return
		}
	}
}

// dispatch applies one event to the session and invokes the matching
// callback. It reports whether the event terminated the stream. Events from
// a superseded send are dropped in full.
func (c *Client) dispatch(gen uint64, event *StreamEvent) bool {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return true
	}

	var invoke func()
	terminal := false

	switch event.Type {
	case EventUserMessage:
		if !c.userMessageSeen {
			c.userMessageSeen = true
			if cb := c.callbacks.OnUserMessage; cb != nil {
				id := event.MessageID
				invoke = func() { cb(id) }
			}
		}

	case EventToken:
		if cb := c.callbacks.OnToken; cb != nil {
			fragment := event.Content
			invoke = func() { cb(fragment) }
		}

	case EventToolCall:
		switch event.Status {
		case ToolStatusRunning:
			c.activeToolCalls = append(c.activeToolCalls, event.Name)
		case ToolStatusDone:
			c.removeToolCallLocked(event.Name)
		}

	case EventDone:
		c.terminateLocked()
		terminal = true
		if cb := c.callbacks.OnDone; cb != nil {
			id := event.MessageID
			invoke = func() { cb(id) }
		}

	case EventError:
		c.terminateLocked()
		c.lastErr = fmt.Errorf("%s", event.Message)
		terminal = true

	default:
		c.logger.Debug("ignoring unknown stream event", "type", event.Type)
	}
	c.mu.Unlock()

	// The callback runs outside the lock so it can re-enter Send or Cancel.
	// A Cancel from another goroutine that lands in this gap does not recall
	// an already-selected callback; that last invocation can still fire.
	if invoke != nil {
		invoke()
	}
	return terminal
}

// removeToolCallLocked removes the first running occurrence of name. The
// stream can announce the same tool name twice before either finishes, so
// entries are a multiset and each done frame retires exactly one of them.
func (c *Client) removeToolCallLocked(name string) {
	for i, active := range c.activeToolCalls {
		if active == name {
			c.activeToolCalls = append(c.activeToolCalls[:i], c.activeToolCalls[i+1:]...)
			return
		}
	}
}

// terminateLocked resets the transient session state for the current send.
// Unresolved tool calls are cleared along with everything else.
func (c *Client) terminateLocked() {
	c.streaming = false
	c.activeToolCalls = nil
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// finish ends the stream without recording an error (EOF or cancellation).
func (c *Client) finish(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.terminateLocked()
}

// fail ends the stream and records err for the caller to display.
func (c *Client) fail(gen uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.terminateLocked()
	c.lastErr = err
	c.logger.Debug("assistant stream failed", "error", err)
}
