// Package pipeline turns a form into an ordered sequence of render units.
//
// A render call runs four steps in order: the annotator derives presentation
// metadata for every control (once per bound form), the group resolver orders
// visual groups, the error collector gathers form-level messages, and the
// emission driver walks groups and remaining controls, deferring buttons into
// batches. Units are handed to a Sink; template selection and markup are the
// sink's concern.
//
// Rendered state lives in a Pass scoped to a single call, and the button queue
// is local to the driver, so a Pipeline only keeps the identity of the last
// bound form between calls.
package pipeline
