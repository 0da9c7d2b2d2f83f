// Package batch orchestrates multi-segment exports: it fans segment jobs
// out over a bounded worker pool for split export, or runs the
// extract-manifest-concatenate pipeline for concat export. Intermediate
// artifacts live in a per-call temp directory that is removed on every exit
// path.
package batch
