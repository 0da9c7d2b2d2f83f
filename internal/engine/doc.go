// Package engine supervises one external transcoding subprocess per job:
// it compiles the command, launches it, streams its merged output, extracts
// progress, retains diagnostic lines for post-mortem reporting, and exposes
// graceful cancellation.
//
// A Supervisor runs at most one job at a time; concurrent jobs each get
// their own Supervisor instance. Terminal status is reported exactly once
// per job through the completion callback.
package engine
