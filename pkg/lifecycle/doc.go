// Package lifecycle implements the element lifecycle core: the weak
// registry of managed nodes, the attachment observer that turns mutation
// batches into show/hide transitions, and the per-element load/show/hide
// state machine.
//
// All transitions run on the runtime's scheduler loop. The per-element
// guard flags (loading, showPending, hidePending) are the only transition
// concurrency control; they are read and written within a single
// scheduling turn.
package lifecycle
