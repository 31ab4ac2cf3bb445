// Package automaton implements the prefix-trie matcher used to locate
// lexicon words in text.
//
// An Automaton is built once from one category's word list and is read-only
// afterwards, so a single instance can be scanned from any number of
// goroutines without locking.
//
// # Matching rules
//
// Scan walks the text left to right. At each unconsumed position it reports
// the longest word starting there, then resumes right after that word.
// Shorter words that start inside an already reported span are not reported.
// Matching is exact on characters: no case folding, no width or punctuation
// normalization.
//
//	a := automaton.MustNew([]string{"ab", "abc"})
//	a.Scan("abcd") // [{0 3 abc}]
package automaton
