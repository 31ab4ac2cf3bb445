// Package normalize prepares titles and bodies for lexicon scanning.
//
// Content strips markup tags while keeping the text they enclose, so that a
// word hidden inside <script> or an attribute-free wrapper is still scanned.
// Every tag boundary counts as whitespace, and whitespace runs are collapsed
// to a single space. Character references are left untouched: only tag
// markers are removed.
package normalize
