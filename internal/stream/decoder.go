// Package stream reconstructs delta strings from a line-oriented event
// protocol whose physical chunk boundaries do not align with logical
// message boundaries. The decoder has no knowledge of document structure;
// it only reassembles lines and extracts delta payloads.
package stream

import (
	"context"
	"encoding/json"
	"io"
	"strings"
)

const dataPrefix = "data: "

// Decoder buffers incoming chunks, splits them into complete lines and
// emits one delta per significant frame, strictly in arrival order. A line
// is significant only if, after trimming, it starts with "data: " and its
// JSON payload carries a string-valued "delta" field. Everything else
// (keepalives, "event:"/"id:" comments, malformed JSON, frames without a
// delta) is silently discarded.
type Decoder struct {
	buf  strings.Builder
	emit func(delta string)
}

// NewDecoder returns a decoder that calls emit once per delta.
func NewDecoder(emit func(delta string)) *Decoder {
	return &Decoder{emit: emit}
}

// Feed appends a chunk and processes every complete line it makes
// available. The trailing, possibly incomplete fragment is held back until
// the next Feed or the final Flush.
func (d *Decoder) Feed(chunk string) {
	d.buf.WriteString(chunk)
	pending := d.buf.String()
	lines := strings.Split(pending, "\n")
	d.buf.Reset()
	d.buf.WriteString(lines[len(lines)-1])
	for _, line := range lines[:len(lines)-1] {
		d.processLine(line)
	}
}

// Flush processes whatever remains in the buffer as a final line. Call it
// once, after the underlying stream reports completion.
func (d *Decoder) Flush() {
	rest := d.buf.String()
	d.buf.Reset()
	if rest != "" {
		d.processLine(rest)
	}
}

func (d *Decoder) processLine(line string) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, dataPrefix) {
		return
	}
	payload := trimmed[len(dataPrefix):]

	var frame struct {
		Delta *string `json:"delta"`
	}
	if err := json.Unmarshal([]byte(payload), &frame); err != nil {
		// Degenerate producers put keepalives and comments behind the same
		// prefix; a bad frame is never fatal.
		return
	}
	if frame.Delta == nil {
		return
	}
	d.emit(*frame.Delta)
}

// Decode drains r through a Decoder, feeding chunks at whatever boundaries
// the reader produces. It returns nil once the reader reports EOF, after
// the final buffer flush. Deltas already emitted are confirmed and are
// never retracted, even when Decode subsequently returns an error.
func Decode(ctx context.Context, r io.Reader, emit func(delta string)) error {
	d := NewDecoder(emit)
	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := r.Read(buf)
		if n > 0 {
			d.Feed(string(buf[:n]))
		}
		if err == io.EOF {
			d.Flush()
			return nil
		}
		if err != nil {
			// A canceled context closes the HTTP body underneath us and
			// surfaces as a read error; report the cancellation instead.
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
	}
}
