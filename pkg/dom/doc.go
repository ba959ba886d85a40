// Package dom provides a small document/element abstraction over parsed HTML
// trees so form behaviors can run and be tested without a real browser.
//
// A Document is parsed once; element wrappers are stable for the lifetime of
// the document, so event listeners registered on an element survive later
// lookups of the same node. Dispatch is single-threaded and direct-call:
// handlers run to completion, in registration order, before Dispatch returns.
package dom
