// Package ui renders operator-facing output: boxed notice, warning and
// success panels, check lists, and the few interactive prompts.
//
// Styling is applied only when the destination is a terminal; redirected
// output gets plain text so logs stay readable.
package ui
