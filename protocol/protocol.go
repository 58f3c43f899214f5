// Package protocol defines the debug-session message envelope, the wire
// shape of command bodies, and the response serializer that carries the
// secondary reference list.
package protocol

import "encoding/json"

// Message type tags.
const (
	TypeRequest  = "request"
	TypeResponse = "response"
)

// Request is an incoming command envelope.
type Request struct {
	Seq       int             `json:"seq"`
	Type      string          `json:"type"`
	Command   string          `json:"command"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Response is an outgoing command result envelope. Body holds a typed
// body (SliceBody, LookupBody, ScopesBody) or a mirror/summary; the
// Serializer turns it into wire JSON and derives the refs side-list.
type Response struct {
	Seq        int    `json:"seq"`
	Type       string `json:"type"`
	RequestSeq int    `json:"request_seq"`
	Command    string `json:"command"`
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	Body       any    `json:"body,omitempty"`
}

// NewResponse builds a successful response for a request.
func NewResponse(req *Request, body any) *Response {
	return &Response{
		Type:       TypeResponse,
		RequestSeq: req.Seq,
		Command:    req.Command,
		Success:    true,
		Body:       body,
	}
}

// Fail builds a failure response for a request. Failures carry a message
// and no body.
func Fail(req *Request, message string) *Response {
	return &Response{
		Type:       TypeResponse,
		RequestSeq: req.Seq,
		Command:    req.Command,
		Success:    false,
		Message:    message,
	}
}
