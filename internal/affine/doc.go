// Package affine runs units of work on dedicated OS-locked worker threads.
//
// The legacy control library requires that an object be created and touched
// from one thread for its whole lifetime. Run satisfies that contract by
// spawning a fresh worker goroutine per call and pinning it with
// runtime.LockOSThread before the supplied function executes. Call sites
// depend on the Executor interface, not on raw goroutine plumbing, so the
// affinity requirement lives behind a single seam.
package affine
