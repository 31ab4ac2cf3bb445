// Package compliance implements the multi-category sensitive word check.
//
// A Checker is created once and shared. On its first use it loads the
// configured lexicon and builds one automaton per category; without any
// lexicon it falls back to a permanent skipped state in which every check
// passes with Performed set to false.
//
//	checker := compliance.NewChecker(compliance.Options{
//		Root:       cfg.LexiconDir,
//		Categories: cfg.Categories,
//		Logger:     logger,
//	})
//	result := checker.Check(title, html)
//	if !result.Passed {
//		fmt.Println(result.Message)
//	}
package compliance
