// Package guard implements required-field submission guarding for parsed
// documents: every form gains a submit handler that validates required
// controls, marks the failing ones, cancels submission, and raises a single
// localized alert; every control gains an input handler that clears its
// marker as soon as the user edits it.
package guard
