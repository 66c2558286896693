// Package reconcile computes the difference between the state a roster describes and the
// state a remote platform reports, and records the per-item outcome of applying it.
package reconcile
