// Package filtergraph compiles an edit.Spec into the ordered ffmpeg filter
// chains and argument vector that produce it. Everything here is pure:
// no I/O, no process state, and identical input always yields an identical
// command.
//
// Filter order is load-bearing, not stylistic. The chain is always:
//
//	trim/timestamp reset -> speed remap -> color grade -> reframe -> custom
//
// followed by encoding and container flags as trailing arguments. See the
// individual builders for why each stage must precede the next.
package filtergraph
