package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/dshills/varpage/mirror"
	"github.com/dshills/varpage/page"
	"github.com/dshills/varpage/protocol"
)

// notFoundMessage is the protocol failure text for an unresolvable
// handle. The literal handle value is part of the message.
func notFoundMessage(handle int) string {
	return fmt.Sprintf("Object #%d# not found", handle)
}

// baseLookup resolves a batch of handles to their mirrors. This is the
// default behavior the dehydrating wrapper post-processes.
func (s *Session) baseLookup(req *protocol.Request) *protocol.Response {
	var args protocol.LookupArguments
	if err := json.Unmarshal(req.Arguments, &args); err != nil {
		return protocol.Fail(req, fmt.Sprintf("invalid lookup arguments: %v", err))
	}

	body := make(protocol.LookupBody, len(args.Handles))
	for _, h := range args.Handles {
		m, err := s.engine.Mirror(h)
		if err != nil {
			return protocol.Fail(req, notFoundMessage(h))
		}
		body[strconv.Itoa(h)] = m
	}
	return protocol.NewResponse(req, body)
}

// dehydrateLookup replaces large mirrors in a lookup body with summaries.
func (s *Session) dehydrateLookup(_ *protocol.Request, resp *protocol.Response) {
	body, ok := resp.Body.(protocol.LookupBody)
	if !ok {
		return
	}
	for key, v := range body {
		m, ok := v.(mirror.Mirror)
		if !ok {
			continue
		}
		out, err := s.dehydrator.Dehydrate(m)
		if err != nil {
			s.log.Debug("dehydrate failed, object stays inlined",
				zap.Int("handle", m.Handle()), zap.Error(err))
			continue
		}
		body[key] = out
	}
}

// baseEvaluate evaluates an expression through the engine.
func (s *Session) baseEvaluate(req *protocol.Request) *protocol.Response {
	ev, ok := s.engine.(mirror.Evaluator)
	if !ok {
		return protocol.Fail(req, "evaluate not supported by engine")
	}

	var args protocol.EvaluateArguments
	if err := json.Unmarshal(req.Arguments, &args); err != nil {
		return protocol.Fail(req, fmt.Sprintf("invalid evaluate arguments: %v", err))
	}

	m, err := ev.Evaluate(args.Expression)
	if err != nil {
		return protocol.Fail(req, fmt.Sprintf("evaluate failed: %v", err))
	}
	return protocol.NewResponse(req, m)
}

// dehydrateEvaluate replaces a large evaluate result with a summary.
func (s *Session) dehydrateEvaluate(_ *protocol.Request, resp *protocol.Response) {
	m, ok := resp.Body.(mirror.Mirror)
	if !ok {
		return
	}
	out, err := s.dehydrator.Dehydrate(m)
	if err != nil {
		s.log.Debug("dehydrate failed, object stays inlined",
			zap.Int("handle", m.Handle()), zap.Error(err))
		return
	}
	resp.Body = out
}

// baseScopes returns the scope chain of a paused frame with each scope's
// variables embedded.
func (s *Session) baseScopes(req *protocol.Request) *protocol.Response {
	lister, ok := s.engine.(mirror.ScopeLister)
	if !ok {
		return protocol.Fail(req, "scopes not supported by engine")
	}

	var args protocol.ScopesArguments
	if err := json.Unmarshal(req.Arguments, &args); err != nil {
		return protocol.Fail(req, fmt.Sprintf("invalid scopes arguments: %v", err))
	}

	chain, err := lister.Scopes(args.Frame)
	if err != nil {
		return protocol.Fail(req, fmt.Sprintf("scopes failed: %v", err))
	}

	body := protocol.ScopesBody{Scopes: make([]protocol.Scope, len(chain))}
	for i, desc := range chain {
		locals, err := scopeLocals(desc.Object)
		if err != nil {
			return protocol.Fail(req, fmt.Sprintf("scope %d: %v", i, err))
		}
		body.Scopes[i] = protocol.Scope{Kind: desc.Kind, Index: i, Locals: locals}
	}
	return protocol.NewResponse(req, body)
}

// scopeLocals enumerates a scope object's variables in engine order.
func scopeLocals(obj mirror.Mirror) ([]protocol.NamedValue, error) {
	if obj == nil {
		return nil, nil
	}
	names, err := obj.PropertyNames(mirror.FilterAll, 0)
	if err != nil {
		return nil, fmt.Errorf("enumerate locals: %w", err)
	}
	locals := make([]protocol.NamedValue, 0, len(names))
	for _, name := range names {
		v, err := obj.Property(name)
		if err != nil {
			continue
		}
		locals = append(locals, protocol.NamedValue{Name: name, Value: v})
	}
	return locals, nil
}

// trimScopes caps embedded locals per scope at the caller-supplied
// maximum.
func (s *Session) trimScopes(req *protocol.Request, resp *protocol.Response) {
	var args protocol.ScopesArguments
	if err := json.Unmarshal(req.Arguments, &args); err != nil {
		return
	}
	body, ok := resp.Body.(protocol.ScopesBody)
	if !ok {
		return
	}
	page.TrimScopes(&body, args.MaxLocals)
	resp.Body = body
}

// handleSlice serves one page of an object's properties.
func (s *Session) handleSlice(req *protocol.Request) *protocol.Response {
	var args protocol.SliceArguments
	if err := json.Unmarshal(req.Arguments, &args); err != nil {
		return protocol.Fail(req, fmt.Sprintf("invalid slice arguments: %v", err))
	}
	switch args.Mode {
	case protocol.SliceNamed, protocol.SliceIndexed, protocol.SliceAll:
	case "":
		args.Mode = protocol.SliceAll
	default:
		return protocol.Fail(req, fmt.Sprintf("unknown slice mode %q", args.Mode))
	}

	result, err := s.slicer.Slice(args)
	if err != nil {
		if errors.Is(err, mirror.ErrNotFound) {
			return protocol.Fail(req, notFoundMessage(args.Handle))
		}
		if errors.Is(err, page.ErrInvalidRange) {
			return protocol.Fail(req, fmt.Sprintf("invalid slice range: start=%d count=%d", args.Start, args.Count))
		}
		return protocol.Fail(req, fmt.Sprintf("slice failed: %v", err))
	}
	return protocol.NewResponse(req, protocol.SliceBody{Result: result})
}
