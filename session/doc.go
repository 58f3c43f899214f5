// Package session composes the protocol-extension layer for large-object
// inspection.
//
// A Session sits between a debugger front-end and the introspection
// engine of a paused process. It keeps the existing inspection protocol
// behaviorally unchanged for small objects while making arbitrarily large
// arrays, typed buffers, and objects inspectable in pages:
//
//   - lookup and evaluate delegate to the engine's default behavior, then
//     replace large results with compact summaries (dehydration)
//   - a slice command serves property windows by handle, offset, and count
//   - scopes responses cap embedded locals at a caller-supplied maximum,
//     recording the original count
//   - the response serializer's reference list drops arrays and large
//     stable-handle objects, which the client pages on demand instead
//
// All of this is composed explicitly at construction time: handlers and
// wrappers are registered into a Registry, and the reference-list trimmer
// is installed only if the marshaler exposes the hook point. Nothing is
// patched into the engine, and every hook works independently of the
// others.
//
// # Concurrency
//
// Request handling is single-threaded and synchronous. The debuggee is
// paused while a request is served; each handler runs to completion and
// returns a response before the next request is dispatched. The session
// only reads the engine's object graph.
//
// # Usage
//
//	sess, err := session.New(session.Config{
//	    Engine: eng,
//	    Logger: logger,
//	})
//	if err != nil {
//	    return err
//	}
//	resp := sess.Dispatch(&protocol.Request{
//	    Type:      protocol.TypeRequest,
//	    Command:   "slice",
//	    Arguments: args,
//	})
//	wire, err := sess.Marshal(resp)
package session
