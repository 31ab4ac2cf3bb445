// Package lexicon loads category word lists from a lexicon directory.
//
// The directory layout follows the konsheng/Sensitive-lexicon "Vocabulary"
// folder: plain UTF-8 text files, one word per line. Which files belong to
// which category is configuration (see config.Category).
package lexicon
