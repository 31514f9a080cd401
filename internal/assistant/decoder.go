package assistant

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

const dataPrefix = "data: "

// EventDecoder frames a raw byte stream into StreamEvents. The body arrives
// in arbitrarily-sized chunks that do not align with frame boundaries, so the
// decoder buffers bytes until a full newline-terminated line is available and
// only then attempts to interpret it. Lines that do not start with the
// "data: " marker are framing noise (blank separators, comments) and are
// skipped; lines that carry the marker but fail to parse as JSON are dropped
// without aborting the stream.
type EventDecoder struct {
	r *bufio.Reader
}

// NewEventDecoder wraps r, which is typically a streaming HTTP response body.
func NewEventDecoder(r io.Reader) *EventDecoder {
	return &EventDecoder{r: bufio.NewReader(r)}
}

// Next returns the next well-formed event from the stream. It returns io.EOF
// when the stream ends, or the underlying read error if the transport fails
// mid-stream.
func (d *EventDecoder) Next() (*StreamEvent, error) {
	for {
		line, err := d.r.ReadString('\n')
		if err != nil {
			// A trailing fragment without its newline is an incomplete
			// frame, never a complete line.
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, err
		}

		line = strings.TrimRight(line, "\r\n")
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}

		var event StreamEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, dataPrefix)), &event); err != nil {
			continue
		}
		return &event, nil
	}
}
