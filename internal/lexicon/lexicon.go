package lexicon

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/nao1215/lexscan/internal/config"
)

// maxLineSize bounds a single lexicon line. Real lexicons hold short words;
// anything longer is almost certainly not a word list.
const maxLineSize = 64 * 1024

// commentPrefix marks a comment line in a lexicon file.
const commentPrefix = "#"

// Entry is the word list of one category.
type Entry struct {
	// Category is the category identifier (e.g. "ad").
	Category string

	// Words holds the trimmed, non-empty words in file order.
	// Duplicates are kept; the automaton collapses them.
	Words []string
}

// Lexicon is an ordered set of category word lists. Only categories with
// at least one word are present. A Lexicon is never modified after loading.
type Lexicon []Entry

// Empty reports whether no category has any word.
func (l Lexicon) Empty() bool {
	return len(l) == 0
}

// Categories returns the category identifiers in order.
func (l Lexicon) Categories() []string {
	ids := make([]string, 0, len(l))
	for _, e := range l {
		ids = append(ids, e.Category)
	}
	return ids
}

// Words returns the word list of category, or nil if it is absent.
func (l Lexicon) Words(category string) []string {
	for _, e := range l {
		if e.Category == category {
			return e.Words
		}
	}
	return nil
}

// Len returns the total number of words over all categories.
func (l Lexicon) Len() int {
	n := 0
	for _, e := range l {
		n += len(e.Words)
	}
	return n
}

// Loader reads lexicon files from disk. Read problems are logged and never
// returned: a file that cannot be read contributes no words.
type Loader struct {
	logger *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger used for read warnings.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a Loader. Without WithLogger it logs to slog.Default().
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile reads one lexicon file: one word per line, surrounding
// whitespace trimmed, blank lines and "#" comment lines skipped.
// A byte order mark is honoured and invalid UTF-8 bytes are dropped.
// A missing or unreadable file yields an empty list.
func (l *Loader) LoadFile(path string) []string {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.logger.Warn("lexicon file not found", "path", path)
		} else {
			l.logger.Warn("failed to open lexicon file", "path", path, "error", err)
		}
		return []string{}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		l.logger.Warn("lexicon path is not a regular file", "path", path)
		return []string{}
	}

	words, err := readWords(f)
	if err != nil {
		l.logger.Warn("failed to read lexicon file", "path", path, "error", err)
	}
	l.logger.Debug("lexicon file loaded", "path", path, "count", len(words))
	return words
}

// readWords decodes r and returns its words. On a read error the words
// collected so far are returned with the error.
func readWords(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	words := make([]string, 0)
	for scanner.Scan() {
		// Invalid byte sequences are dropped; a valid U+FFFD is a character.
		w := strings.TrimSpace(strings.ToValidUTF8(scanner.Text(), ""))
		if w == "" || strings.HasPrefix(w, commentPrefix) {
			continue
		}
		words = append(words, w)
	}
	if err := scanner.Err(); err != nil {
		return words, fmt.Errorf("failed to scan lexicon: %w", err)
	}
	return words, nil
}

// LoadCategory concatenates the words of every file of category.
// Relative file names are resolved against root.
func (l *Loader) LoadCategory(root string, category config.Category) []string {
	words := make([]string, 0)
	for _, name := range category.Files {
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, name)
		}
		words = append(words, l.LoadFile(path)...)
	}
	return words
}

// LoadAll loads every category under root, keeping the order of categories.
// Categories without words are left out. If root is missing or is not a
// directory the returned Lexicon is empty.
func (l *Loader) LoadAll(root string, categories []config.Category) Lexicon {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		l.logger.Warn("lexicon directory not found, sensitive word check disabled", "dir", root)
		return Lexicon{}
	}

	lex := make(Lexicon, 0, len(categories))
	for _, c := range categories {
		words := l.LoadCategory(root, c)
		if len(words) == 0 {
			l.logger.Warn("category has no words", "category", c.ID)
			continue
		}
		lex = append(lex, Entry{Category: c.ID, Words: words})
	}
	l.logger.Info("lexicon loaded", "dir", root, "categories", len(lex), "count", lex.Len())
	return lex
}

// LoadFile reads one lexicon file using a Loader that logs to slog.Default().
func LoadFile(path string) []string {
	return NewLoader().LoadFile(path)
}

// LoadCategory loads one category using a Loader that logs to slog.Default().
func LoadCategory(root string, category config.Category) []string {
	return NewLoader().LoadCategory(root, category)
}

// LoadAll loads every category using a Loader that logs to slog.Default().
func LoadAll(root string, categories []config.Category) Lexicon {
	return NewLoader().LoadAll(root, categories)
}
