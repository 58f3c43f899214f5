package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MaxContentLength is the largest accepted message payload (10MB).
const MaxContentLength = 10 * 1024 * 1024

// Conn frames protocol messages over a byte stream using Content-Length
// headers. Reads and writes are not synchronized; the session model is
// strictly one request, then one response.
type Conn struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewConn wraps a byte stream as a framed connection.
func NewConn(rw io.ReadWriter) *Conn {
	return &Conn{
		reader: bufio.NewReader(rw),
		writer: rw,
	}
}

// WriteMessage frames and writes one payload.
func (c *Conn) WriteMessage(payload []byte) error {
	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(payload))
	if _, err := io.WriteString(c.writer, header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := c.writer.Write(payload); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	return nil
}

// ReadMessage reads one framed payload. It returns io.EOF unwrapped when
// the stream ends cleanly before a header starts.
func (c *Conn) ReadMessage() ([]byte, error) {
	contentLength := -1

	for {
		line, err := c.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF && line == "" && contentLength < 0 {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("read header: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}

		name, value, ok := strings.Cut(line, ": ")
		if !ok {
			return nil, fmt.Errorf("invalid header line %q", line)
		}
		if strings.EqualFold(name, "Content-Length") {
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid content-length: %w", err)
			}
			if n < 0 || n > MaxContentLength {
				return nil, fmt.Errorf("content-length %d out of range", n)
			}
			contentLength = n
		}
	}

	if contentLength < 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}

	payload := make([]byte, contentLength)
	if _, err := io.ReadFull(c.reader, payload); err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return payload, nil
}
