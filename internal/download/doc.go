// Package download fetches lexicon word lists over HTTP.
//
// Fetcher requests <base>/<escaped file name> for every configured lexicon
// file and writes each one atomically into the lexicon directory. One failed
// file does not stop the rest; the Summary says which files arrived.
package download
