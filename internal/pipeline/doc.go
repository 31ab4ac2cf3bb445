// Package pipeline checks batches of documents concurrently.
//
// BatchProcessor runs a Checker over many documents with a bounded number
// of goroutines (errgroup with SetLimit) and keeps the input order in its
// results. LoadDocument and ReadDocument turn files and standard input into
// documents: the first non-blank line is the title and the rest is the body.
package pipeline
