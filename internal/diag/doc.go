// Package diag defines the diagnostic model shared by all pipeline phases.
//
// Producers (lexer, parser, sema, backends) report through the Reporter
// interface; BagReporter stores findings in a Bag with a fixed limit.
// The first error stops the pipeline: the phase returns it wrapped in *Error
// and the driver decides how to render it (see internal/diagfmt) and which
// exit status to use.
//
// Codes are grouped by phase: LEX 1000s, SYN 2000s, SEM 3000s, IO 4000s, PRJ 5000s.
// Code values are stable; add new codes at the end of a group.
package diag
