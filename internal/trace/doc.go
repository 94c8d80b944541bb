// Package trace records what the zc pipeline is doing.
//
// Spans mark driver phases (load, lex, parse, typecheck, codegen, eval,
// assemble), per-module loads and interpreter calls. A tracer travels in the
// context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Begin(ctx, trace.ScopePass, "parse")
//	defer span.End("")
//
// Verbosity is a Level; an event is kept when the level admits its Scope.
// Events are written immediately (stream), kept in memory (ring) or both.
//
//	zc eval --trace=- --trace-level=detail prog.z
package trace
