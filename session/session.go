package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/dshills/varpage/classify"
	"github.com/dshills/varpage/mirror"
	"github.com/dshills/varpage/page"
	"github.com/dshills/varpage/protocol"
)

// Marshaler serializes responses to wire JSON.
type Marshaler interface {
	Marshal(resp *protocol.Response) ([]byte, error)
}

// RefFilterInstaller is implemented by marshalers that accept a
// reference-list filter. Marshalers without it simply run without the
// trimmer; that is expected environmental variation, not an error.
type RefFilterInstaller interface {
	SetRefFilter(f protocol.RefFilter)
}

// Config configures a Session.
type Config struct {
	// Engine is the introspection engine for the paused debuggee.
	// Required.
	Engine mirror.Engine

	// Marshaler serializes responses. Defaults to a protocol.Serializer.
	Marshaler Marshaler

	// Logger receives structured diagnostics. Defaults to a nop logger.
	Logger *zap.Logger
}

// Session is the protocol-extension layer. It owns the command registry,
// wraps the lookup/evaluate/scopes handlers with large-object
// post-processing, registers the slice command, and installs the
// reference-list trimmer into the marshaler when the hook point exists.
type Session struct {
	engine     mirror.Engine
	cls        classify.Classifier
	dehydrator *page.Dehydrator
	slicer     *page.Slicer
	registry   *Registry
	marshaler  Marshaler
	log        *zap.Logger
	seq        int
}

// New constructs a session. The engine's capabilities are probed exactly
// once here; the resulting classifier strategy is used uniformly for the
// session's lifetime.
func New(cfg Config) (*Session, error) {
	if cfg.Engine == nil {
		return nil, ErrNoEngine
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	marshaler := cfg.Marshaler
	if marshaler == nil {
		marshaler = protocol.NewSerializer()
	}

	caps := cfg.Engine.Capabilities()
	cls := classify.Select(caps)
	log.Debug("classifier strategy selected",
		zap.Bool("kindFiltered", caps.KindFilteredEnumeration))

	s := &Session{
		engine:     cfg.Engine,
		cls:        cls,
		dehydrator: page.NewDehydrator(cls),
		slicer:     page.NewSlicer(cfg.Engine, cls),
		registry:   NewRegistry(),
		marshaler:  marshaler,
		log:        log,
	}
	s.install()
	return s, nil
}

// install wires each hook independently, so a missing piece never keeps
// the others from working.
func (s *Session) install() {
	s.registry.Register("lookup", s.baseLookup)
	s.registry.Register("evaluate", s.baseEvaluate)
	s.registry.Register("scopes", s.baseScopes)

	s.registry.Wrap("lookup", func(next Handler) Handler {
		return wrapPost(next, s.dehydrateLookup)
	})
	s.registry.Wrap("evaluate", func(next Handler) Handler {
		return wrapPost(next, s.dehydrateEvaluate)
	})
	s.registry.Wrap("scopes", func(next Handler) Handler {
		return wrapPost(next, s.trimScopes)
	})

	s.registry.Register("slice", s.handleSlice)

	if installer, ok := s.marshaler.(RefFilterInstaller); ok {
		installer.SetRefFilter(page.NewRefTrimmer(s.cls))
		s.log.Debug("reference-list trimmer installed")
	} else {
		s.log.Debug("marshaler has no reference-list hook, trimmer not installed")
	}
}

// Registry returns the session's command registry so a host can register
// additional commands.
func (s *Session) Registry() *Registry {
	return s.registry
}

// Marshal serializes a response through the session's marshaler.
func (s *Session) Marshal(resp *protocol.Response) ([]byte, error) {
	return s.marshaler.Marshal(resp)
}

// wrapPost runs post after a successful delegate response. Delegate
// failures propagate unchanged, untouched by post-processing.
func wrapPost(next Handler, post func(req *protocol.Request, resp *protocol.Response)) Handler {
	return func(req *protocol.Request) *protocol.Response {
		resp := next(req)
		if resp == nil || !resp.Success {
			return resp
		}
		post(req, resp)
		return resp
	}
}

// Dispatch routes one request to its handler and numbers the response.
// It never panics: a handler panic becomes a failure response and the
// session keeps serving.
func (s *Session) Dispatch(req *protocol.Request) (resp *protocol.Response) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("handler panic",
				zap.String("command", req.Command), zap.Any("panic", r))
			resp = protocol.Fail(req, fmt.Sprintf("internal error in %q handler", req.Command))
		}
		s.seq++
		resp.Seq = s.seq
	}()

	h := s.registry.Get(req.Command)
	if h == nil {
		return protocol.Fail(req, fmt.Sprintf("unknown command %q", req.Command))
	}
	resp = h(req)
	if resp == nil {
		return protocol.Fail(req, fmt.Sprintf("command %q produced no response", req.Command))
	}
	if !resp.Success {
		s.log.Debug("command failed",
			zap.String("command", req.Command), zap.String("message", resp.Message))
	}
	return resp
}

// ServeConn handles framed requests from a byte stream until it closes.
// Requests are strictly sequential: the debuggee is paused and each
// handler runs to completion before the next request is read.
func (s *Session) ServeConn(rw io.ReadWriter) error {
	conn := protocol.NewConn(rw)
	for {
		payload, err := conn.ReadMessage()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read request: %w", err)
		}

		// A payload that does not parse never reaches the registry; it
		// fails directly with the parse error.
		var req protocol.Request
		var resp *protocol.Response
		if err := json.Unmarshal(payload, &req); err != nil {
			s.log.Warn("malformed request", zap.Error(err))
			s.seq++
			resp = protocol.Fail(&req, fmt.Sprintf("malformed request: %v", err))
			resp.Seq = s.seq
		} else {
			resp = s.Dispatch(&req)
		}

		out, err := s.marshaler.Marshal(resp)
		if err != nil {
			s.log.Error("response serialization failed",
				zap.String("command", req.Command), zap.Error(err))
			fallback := protocol.Fail(&req, "response serialization failed")
			fallback.Seq = resp.Seq
			out, _ = json.Marshal(fallback)
		}
		if err := conn.WriteMessage(out); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
}
