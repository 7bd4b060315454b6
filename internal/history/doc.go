// Package history implements the linear undo/redo state machine of the editor.
//
// A Manager keeps two stacks of buffer snapshots. Recording a change pushes the
// pre-change buffer onto the undo stack and discards every redo entry, so the
// history never forks. Undo and redo move the current buffer between the two
// stacks symmetrically: after Redo, a single Undo returns to the state that
// Redo replaced.
//
// # Ownership
//
// Every buffer pushed onto a stack is a clone taken by the Manager, and every
// buffer returned by Undo or Redo is removed from the stacks before it is
// handed out. No snapshot is ever reachable from both a stack and a caller.
//
// # Depth
//
// Both stacks are double-ended queues; the undo stack has a configurable maximum depth.
// When it is full the oldest snapshot is evicted. A depth of zero keeps every
// snapshot for the life of the session.
//
// # Thread Safety
//
// A Manager is not safe for concurrent use; the editor serializes access.
package history
