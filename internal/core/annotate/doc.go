// Package annotate maps review issues onto the text they refer to.
//
// Resolution turns one issue into a code point range of the document, and
// segmentation partitions the document into plain text and marked segments
// whose concatenation is exactly the original text. Both are pure functions
// of their inputs; callers recompute them whenever the document or the
// issues change.
//
// All offsets are Unicode code point offsets, matching the backend.
package annotate
