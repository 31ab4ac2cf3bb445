package compliance

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nao1215/lexscan/internal/automaton"
	"github.com/nao1215/lexscan/internal/config"
	"github.com/nao1215/lexscan/internal/lexicon"
	"github.com/nao1215/lexscan/internal/model"
	"github.com/nao1215/lexscan/internal/normalize"
)

// SkippedReasonNoLexicon is reported when no lexicon word could be loaded.
const SkippedReasonNoLexicon = "本地词库不存在，请配置 lexicon_dir 或运行 lexscan lexicon download"

// State is the lifecycle state of a Checker.
type State int32

const (
	// StateUninitialized means the lexicon has not been loaded yet.
	StateUninitialized State = iota
	// StateReady means at least one category automaton is available.
	StateReady
	// StateSkipped means no lexicon was available. Every check passes
	// without scanning for the lifetime of the Checker.
	StateSkipped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Options configures a Checker built by NewChecker.
type Options struct {
	// Root is the lexicon directory.
	Root string

	// Categories is the category table in scan order.
	// config.DefaultCategories() is used when empty.
	Categories []config.Category

	// Logger receives load and check events. slog.Default() when nil.
	Logger *slog.Logger
}

// categoryScanner pairs a category with its automaton.
type categoryScanner struct {
	id        string
	automaton *automaton.Automaton
}

// Checker scans titles and contents against per-category automatons.
//
// The lexicon is loaded on the first Check (or Warm). That single
// transition moves the Checker from StateUninitialized to StateReady or
// StateSkipped, and the result is kept for the Checker's lifetime.
// A Checker is safe for concurrent use.
type Checker struct {
	root       string
	categories []config.Category
	names      map[string]string
	logger     *slog.Logger

	// lex, when non-nil, replaces loading from root.
	lex lexicon.Lexicon

	once     sync.Once
	state    atomic.Int32
	scanners []categoryScanner

	totalChecks     atomic.Int64
	totalFailed     atomic.Int64
	totalSkipped    atomic.Int64
	totalMatches    atomic.Int64
	lastCheckNanos  atomic.Int64
	buildNanos      atomic.Int64
	lastBuildAtUnix atomic.Int64
}

// NewChecker creates a Checker that loads its lexicon from opts.Root.
// Nothing is read from disk until the first Check or Warm.
func NewChecker(opts Options) *Checker {
	categories := opts.Categories
	if len(categories) == 0 {
		categories = config.DefaultCategories()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{
		root:       opts.Root,
		categories: categories,
		names:      config.DisplayNames(categories),
		logger:     logger,
	}
}

// NewCheckerFromLexicon creates a Checker over an in-memory lexicon.
// categories provides the scan order and display names; when empty the
// lexicon order is used and category IDs double as display names.
func NewCheckerFromLexicon(lex lexicon.Lexicon, categories []config.Category, logger *slog.Logger) *Checker {
	if len(categories) == 0 {
		categories = make([]config.Category, 0, len(lex))
		for _, e := range lex {
			categories = append(categories, config.Category{ID: e.Category})
		}
	}
	c := NewChecker(Options{Categories: categories, Logger: logger})
	if lex == nil {
		lex = lexicon.Lexicon{}
	}
	c.lex = lex
	return c
}

// State returns the current lifecycle state. It never blocks.
func (c *Checker) State() State {
	return State(c.state.Load())
}

// Ready reports whether the Checker scans against a loaded lexicon.
func (c *Checker) Ready() bool {
	return c.State() == StateReady
}

// Warm performs the one-time lexicon load if it has not happened yet and
// returns the resulting state.
func (c *Checker) Warm() State {
	c.ensureReady()
	return c.State()
}

// Categories returns the IDs of the categories that have an automaton,
// in scan order. It is empty before the Checker is warmed.
func (c *Checker) Categories() []string {
	if c.State() != StateReady {
		return []string{}
	}
	ids := make([]string, 0, len(c.scanners))
	for _, s := range c.scanners {
		ids = append(ids, s.id)
	}
	return ids
}

// DisplayNames returns the category ID to display name table.
func (c *Checker) DisplayNames() map[string]string {
	names := make(map[string]string, len(c.names))
	for k, v := range c.names {
		names[k] = v
	}
	return names
}

func (c *Checker) ensureReady() {
	c.once.Do(c.build)
}

// build loads the lexicon and constructs one automaton per category.
// It runs exactly once per Checker.
func (c *Checker) build() {
	start := time.Now()

	lex := c.lex
	if lex == nil {
		lex = lexicon.NewLoader(lexicon.WithLogger(c.logger)).LoadAll(c.root, c.categories)
	}

	scanners := make([]categoryScanner, 0, len(c.categories))
	for _, cat := range c.categories {
		words := lex.Words(cat.ID)
		if len(words) == 0 {
			continue
		}
		a, err := automaton.New(words)
		if err != nil {
			c.logger.Warn("failed to build category automaton", "category", cat.ID, "error", err)
			continue
		}
		scanners = append(scanners, categoryScanner{id: cat.ID, automaton: a})
	}
	c.scanners = scanners

	c.buildNanos.Store(time.Since(start).Nanoseconds())
	c.lastBuildAtUnix.Store(time.Now().Unix())

	if len(scanners) == 0 {
		c.logger.Warn("no lexicon available, sensitive word check skipped", "dir", c.root)
		c.state.Store(int32(StateSkipped))
		return
	}
	c.logger.Debug("checker ready", "categories", len(scanners), "elapsed", time.Since(start))
	c.state.Store(int32(StateReady))
}

// Check scans title and content against every category.
//
// content is treated as markup: tags are removed and whitespace is
// collapsed before scanning. title is only trimmed. Match offsets refer to
// these normalised strings. Check never fails: without a lexicon it
// returns a passing result with Performed set to false.
func (c *Checker) Check(title, content string) model.Result {
	start := time.Now()
	defer func() { c.lastCheckNanos.Store(time.Since(start).Nanoseconds()) }()

	content = normalize.Content(content)
	title = normalize.Title(title)

	c.ensureReady()
	c.totalChecks.Add(1)

	if c.State() != StateReady {
		c.totalSkipped.Add(1)
		return skippedResult()
	}

	matches := make([]model.Match, 0)
	for _, s := range c.scanners {
		matches = appendHits(matches, s.automaton.Scan(title), s.id, model.FieldTitle)
		matches = appendHits(matches, s.automaton.Scan(content), s.id, model.FieldContent)
	}

	result := summarize(matches, c.names)
	if !result.Passed {
		c.totalFailed.Add(1)
		c.totalMatches.Add(int64(len(matches)))
		c.logger.Debug("check failed",
			"categories", result.FailedCategories,
			"matches", len(matches),
			"words", result.Words())
	}
	return result
}

func appendHits(dst []model.Match, hits []automaton.Hit, category string, field model.Field) []model.Match {
	for _, h := range hits {
		dst = append(dst, model.Match{
			Start:    h.Start,
			End:      h.End,
			Word:     h.Word,
			Category: category,
			Field:    field,
		})
	}
	return dst
}

func skippedResult() model.Result {
	return model.Result{
		Passed:           true,
		Matches:          []model.Match{},
		FailedCategories: []string{},
		Message:          "",
		Performed:        false,
		Sources:          model.SourceSkipped,
		SkippedReason:    SkippedReasonNoLexicon,
	}
}

// summarize aggregates matches into a Result of a performed check.
func summarize(matches []model.Match, names map[string]string) model.Result {
	result := model.Result{
		Passed:           len(matches) == 0,
		Matches:          matches,
		FailedCategories: failedCategories(matches),
		Performed:        true,
		Sources:          model.SourceLocal,
	}
	if !result.Passed {
		result.Message = Message(result.FailedCategories, matches, names)
	}
	return result
}

// failedCategories returns the categories of matches, de-duplicated, in
// first-seen order.
func failedCategories(matches []model.Match) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, m := range matches {
		if seen[m.Category] {
			continue
		}
		seen[m.Category] = true
		out = append(out, m.Category)
	}
	return out
}
