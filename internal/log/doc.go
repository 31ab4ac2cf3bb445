// Package log provides secure logging built on top of the standard slog package.
//
// The SecureHandler sanitizes log output before it reaches the wrapped handler:
//   - Credentials (Authorization, X-Api-Key, api_key, tokens) become ***REDACTED***
//   - Lexicon content (word, words, matched_word, preview) becomes a length hint
//     such as "[3 chars]", so flagged vocabulary never ends up in log storage
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Warn("document failed", "category", "ad", "word", "代开发票")
//	// level=WARN msg="document failed" category=ad word="[4 chars]"
//
//	slog.SetDefault(logger)
package log
