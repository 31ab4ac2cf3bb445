// Package main provides the entry point for the lexscan CLI.
//
// lexscan checks article titles and bodies against local sensitive word
// lists and reports every match with its category and position.
//
// Usage:
//
//	lexscan check post.md
//	lexscan check --title "标题" --content "正文"
//	lexscan serve
//
// See --help for all available options.
package main

// main is the entry point for lexscan.
func main() {
	Execute()
}
