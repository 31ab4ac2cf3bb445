// Package model defines the data structures shared across lexscan.
//
// This package contains the following main types:
//   - Match: A single lexicon hit inside the title or the content
//   - Result: The verdict returned by the compliance checker
//   - Document: A named title/content pair together with its Result,
//     as produced by batch checks and stored in the history database
//
// The models carry JSON tags so that reports, the HTTP API and the history
// database all share one wire representation.
package model
