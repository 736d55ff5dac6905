// Package pipeline holds the Markdown handling that happens before pandoc runs.
//
// Two stages live here:
//   - preprocessing: text substitutions applied to the body sent on stdin
//   - inspection: a read-only goldmark parse used to derive a title and
//     report tables and images
//
// Inspection never feeds back into the document body. pandoc remains the only
// component that interprets the Markdown for output.
package pipeline
