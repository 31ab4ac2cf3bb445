// Package config provides configuration structures and loading for lexscan.
//
// Configuration is layered, lowest to highest precedence:
//  1. Built-in defaults (NewConfig, DefaultCategories)
//  2. A YAML file (.lexscan.yaml in the working directory, or
//     $XDG_CONFIG_HOME/lexscan/config.yaml, or an explicit --config path)
//  3. LEXSCAN_* environment variables
//  4. Command line flags that were explicitly set
//
// The category table, which maps a category identifier to its display name
// and lexicon files, is plain configuration. Nothing in the checker hardcodes
// it.
package config
