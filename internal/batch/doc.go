// Package batch schedules many validation units with bounded concurrency
// and aggregates their results.
//
// Each unit runs instantiate → load → validate → dispose as one closure on
// a thread-affine worker, bounded by a per-unit timeout. A weighted
// semaphore caps how many affine executions are live at once. Fail-fast
// cancellation is cooperative: it is checked only at the scheduling
// boundary, so unscheduled units are skipped while in-flight units run to
// completion and report. A unit that outlives its budget is abandoned and
// reported as a timeout; the orchestrator never waits on it again.
package batch
