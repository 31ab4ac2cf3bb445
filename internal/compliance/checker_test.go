package compliance

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/nao1215/lexscan/internal/config"
	"github.com/nao1215/lexscan/internal/lexicon"
	"github.com/nao1215/lexscan/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestChecker(lex lexicon.Lexicon) *Checker {
	return NewCheckerFromLexicon(lex, config.DefaultCategories(), discardLogger())
}

// TestChecker_Scenarios covers the observable check behaviour over a loaded lexicon.
func TestChecker_Scenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		lex        lexicon.Lexicon
		title      string
		content    string
		wantPassed bool
		wantFailed []string
		wantHits   []model.Match
	}{
		{
			name:       "clean text passes",
			lex:        lexicon.Lexicon{{Category: "ad", Words: []string{"代开发票"}}},
			title:      "今日新闻",
			content:    "<p>天气很好</p>",
			wantPassed: true,
			wantFailed: []string{},
			wantHits:   []model.Match{},
		},
		{
			name:       "word in title fails with title match",
			lex:        lexicon.Lexicon{{Category: "ad", Words: []string{"代开发票"}}},
			title:      "代开发票",
			content:    "",
			wantPassed: false,
			wantFailed: []string{"ad"},
			wantHits: []model.Match{
				{Start: 0, End: 4, Word: "代开发票", Category: "ad", Field: model.FieldTitle},
			},
		},
		{
			name:       "content word in abuse category",
			lex:        lexicon.Lexicon{{Category: "abuse", Words: []string{"垃圾内容"}}},
			title:      "标题",
			content:    "这是垃圾内容示例",
			wantPassed: false,
			wantFailed: []string{"abuse"},
			wantHits: []model.Match{
				{Start: 2, End: 6, Word: "垃圾内容", Category: "abuse", Field: model.FieldContent},
			},
		},
		{
			name:       "longest match wins",
			lex:        lexicon.Lexicon{{Category: "ad", Words: []string{"ab", "abc"}}},
			content:    "abcd",
			wantPassed: false,
			wantFailed: []string{"ad"},
			wantHits: []model.Match{
				{Start: 0, End: 3, Word: "abc", Category: "ad", Field: model.FieldContent},
			},
		},
		{
			name:       "matches do not overlap",
			lex:        lexicon.Lexicon{{Category: "ad", Words: []string{"aa"}}},
			content:    "aaaa",
			wantPassed: false,
			wantFailed: []string{"ad"},
			wantHits: []model.Match{
				{Start: 0, End: 2, Word: "aa", Category: "ad", Field: model.FieldContent},
				{Start: 2, End: 4, Word: "aa", Category: "ad", Field: model.FieldContent},
			},
		},
		{
			name:       "text inside script is still scanned",
			lex:        lexicon.Lexicon{{Category: "abuse", Words: []string{"evil"}}},
			content:    "<p>x</p><script>evil</script>",
			wantPassed: false,
			wantFailed: []string{"abuse"},
			wantHits: []model.Match{
				{Start: 2, End: 6, Word: "evil", Category: "abuse", Field: model.FieldContent},
			},
		},
		{
			name: "categories in configured order, title before content",
			lex: lexicon.Lexicon{
				{Category: "abuse", Words: []string{"笨蛋"}},
				{Category: "ad", Words: []string{"广告"}},
			},
			title:      "笨蛋",
			content:    "广告和笨蛋",
			wantPassed: false,
			wantFailed: []string{"ad", "abuse"},
			wantHits: []model.Match{
				{Start: 0, End: 2, Word: "广告", Category: "ad", Field: model.FieldContent},
				{Start: 0, End: 2, Word: "笨蛋", Category: "abuse", Field: model.FieldTitle},
				{Start: 3, End: 5, Word: "笨蛋", Category: "abuse", Field: model.FieldContent},
			},
		},
		{
			name: "a word in two categories is reported twice",
			lex: lexicon.Lexicon{
				{Category: "porn", Words: []string{"黄色"}},
				{Category: "political", Words: []string{"黄色"}},
			},
			content:    "黄色",
			wantPassed: false,
			wantFailed: []string{"porn", "political"},
			wantHits: []model.Match{
				{Start: 0, End: 2, Word: "黄色", Category: "porn", Field: model.FieldContent},
				{Start: 0, End: 2, Word: "黄色", Category: "political", Field: model.FieldContent},
			},
		},
		{
			name:       "dangling less-than does not hide the rest",
			lex:        lexicon.Lexicon{{Category: "abuse", Words: []string{"垃圾内容"}}},
			content:    "x <y\n垃圾内容",
			wantPassed: false,
			wantFailed: []string{"abuse"},
			wantHits: []model.Match{
				{Start: 5, End: 9, Word: "垃圾内容", Category: "abuse", Field: model.FieldContent},
			},
		},
		{
			name:       "unclosed comment does not hide the rest",
			lex:        lexicon.Lexicon{{Category: "abuse", Words: []string{"垃圾内容"}}},
			content:    "正文<!-- 垃圾内容",
			wantPassed: false,
			wantFailed: []string{"abuse"},
			wantHits: []model.Match{
				{Start: 7, End: 11, Word: "垃圾内容", Category: "abuse", Field: model.FieldContent},
			},
		},
		{
			name:       "empty inputs pass",
			lex:        lexicon.Lexicon{{Category: "ad", Words: []string{"广告"}}},
			wantPassed: true,
			wantFailed: []string{},
			wantHits:   []model.Match{},
		},
		{
			name:       "no case folding",
			lex:        lexicon.Lexicon{{Category: "ad", Words: []string{"spam"}}},
			content:    "SPAM Spam",
			wantPassed: true,
			wantFailed: []string{},
			wantHits:   []model.Match{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestChecker(tt.lex)
			got := c.Check(tt.title, tt.content)

			if got.Passed != tt.wantPassed {
				t.Errorf("Passed = %v, want %v", got.Passed, tt.wantPassed)
			}
			if !reflect.DeepEqual(got.FailedCategories, tt.wantFailed) {
				t.Errorf("FailedCategories = %q, want %q", got.FailedCategories, tt.wantFailed)
			}
			if !reflect.DeepEqual(got.Matches, tt.wantHits) {
				t.Errorf("Matches = %+v, want %+v", got.Matches, tt.wantHits)
			}
			if !got.Performed || got.Sources != model.SourceLocal || got.SkippedReason != "" {
				t.Errorf("expected a performed local check, got %+v", got)
			}
			if tt.wantPassed && got.Message != "" {
				t.Errorf("expected empty message, got %q", got.Message)
			}
			for _, m := range got.Matches {
				if !m.Valid() {
					t.Errorf("invalid match %+v", m)
				}
			}
		})
	}
}

// TestChecker_MissingLexicon tests the fail-open skipped state.
func TestChecker_MissingLexicon(t *testing.T) {
	t.Parallel()

	c := NewChecker(Options{
		Root:   filepath.Join(t.TempDir(), "missing"),
		Logger: discardLogger(),
	})
	if c.State() != StateUninitialized {
		t.Fatalf("expected uninitialized before first check, got %s", c.State())
	}

	got := c.Check("anything", "anything")
	if !got.Passed || got.Performed || got.Sources != model.SourceSkipped {
		t.Errorf("expected skipped pass, got %+v", got)
	}
	if got.SkippedReason != SkippedReasonNoLexicon {
		t.Errorf("unexpected skipped reason %q", got.SkippedReason)
	}
	if got.Matches == nil || got.FailedCategories == nil {
		t.Error("expected empty non-nil slices")
	}
	if got.Message != "" {
		t.Errorf("expected empty message, got %q", got.Message)
	}
	if c.State() != StateSkipped || c.Ready() {
		t.Errorf("expected skipped state, got %s", c.State())
	}
	if len(c.Categories()) != 0 {
		t.Errorf("expected no categories, got %v", c.Categories())
	}
}

// TestChecker_StateIsPermanent tests that the first transition is never repeated.
func TestChecker_StateIsPermanent(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "Vocabulary")
	c := NewChecker(Options{Root: root, Logger: discardLogger()})
	if got := c.Warm(); got != StateSkipped {
		t.Fatalf("expected skipped, got %s", got)
	}

	// The lexicon appears after the transition; it must not be picked up.
	if err := os.MkdirAll(root, 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "广告类型.txt"), []byte("广告\n"), 0600); err != nil {
		t.Fatal(err)
	}

	got := c.Check("", "广告")
	if got.Performed || !got.Passed {
		t.Errorf("expected skipped result after late lexicon, got %+v", got)
	}

	fresh := NewChecker(Options{Root: root, Logger: discardLogger()})
	if got := fresh.Check("", "广告"); got.Passed {
		t.Error("expected a new checker to load the lexicon")
	}
}

// TestChecker_FromDisk tests loading the default category table from a lexicon directory.
func TestChecker_FromDisk(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := map[string]string{
		"广告类型.txt": "# ads\n加微信\n",
		"色情词库.txt": "\xEF\xBB\xBF成人视频\n",
		"补充词库.txt": "垃圾内容\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}

	c := NewChecker(Options{Root: root, Categories: config.DefaultCategories(), Logger: discardLogger()})
	if got := c.Warm(); got != StateReady {
		t.Fatalf("expected ready, got %s", got)
	}
	if got := strings.Join(c.Categories(), ","); got != "ad,porn,abuse" {
		t.Errorf("expected ad,porn,abuse, got %s", got)
	}

	got := c.Check("加微信", "<div>成人视频</div>")
	want := "内容含敏感词，涉及：广告垃圾, 色情垃圾，示例：加微信, 成人视频"
	if got.Message != want {
		t.Errorf("Message = %q, want %q", got.Message, want)
	}
}

// TestChecker_Deterministic tests that identical input gives identical results.
func TestChecker_Deterministic(t *testing.T) {
	t.Parallel()

	c := newTestChecker(lexicon.Lexicon{
		{Category: "ad", Words: []string{"广告", "广告位"}},
		{Category: "abuse", Words: []string{"垃圾"}},
	})
	first := c.Check("广告位招租", "<p>垃圾广告</p>")
	for range 10 {
		if got := c.Check("广告位招租", "<p>垃圾广告</p>"); !reflect.DeepEqual(got, first) {
			t.Fatalf("result changed: %+v vs %+v", got, first)
		}
	}
}

// TestChecker_ConcurrentFirstUse tests that concurrent first calls build once and agree.
func TestChecker_ConcurrentFirstUse(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "补充词库.txt"), []byte("垃圾内容\n"), 0600); err != nil {
		t.Fatal(err)
	}
	c := NewChecker(Options{Root: root, Logger: discardLogger()})

	const workers = 32
	results := make([]model.Result, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = c.Check("标题", "这是垃圾内容示例")
		}()
	}
	wg.Wait()

	for i, r := range results {
		if r.Passed || !reflect.DeepEqual(r, results[0]) {
			t.Errorf("worker %d got %+v", i, r)
		}
	}
	if c.State() != StateReady {
		t.Errorf("expected ready, got %s", c.State())
	}
	if got := c.Stats().TotalChecks; got != workers {
		t.Errorf("expected %d checks, got %d", workers, got)
	}
}

// TestChecker_Stats tests the runtime counters.
func TestChecker_Stats(t *testing.T) {
	t.Parallel()

	c := newTestChecker(lexicon.Lexicon{
		{Category: "ad", Words: []string{"ab", "abc"}},
		{Category: "abuse", Words: []string{"x"}},
	})

	before := c.Stats()
	if before.State != StateUninitialized || len(before.Categories) != 0 {
		t.Errorf("unexpected stats before warm: %+v", before)
	}

	c.Check("", "abc x")
	c.Check("", "clean")

	st := c.Stats()
	if st.StateName != "ready" {
		t.Errorf("expected ready, got %s", st.StateName)
	}
	if st.TotalChecks != 2 || st.TotalFailed != 1 || st.TotalMatches != 2 || st.TotalSkipped != 0 {
		t.Errorf("unexpected counters %+v", st)
	}
	if len(st.Categories) != 2 || st.Categories[0].ID != "ad" || st.Categories[0].Name != "广告垃圾" {
		t.Fatalf("unexpected categories %+v", st.Categories)
	}
	// root + a + b + c
	if st.Categories[0].Words != 2 || st.Categories[0].Nodes != 4 {
		t.Errorf("unexpected ad stats %+v", st.Categories[0])
	}
	if st.TotalWords != 3 {
		t.Errorf("expected 3 words, got %d", st.TotalWords)
	}
	if st.BuiltAt.IsZero() {
		t.Error("expected build time")
	}
}

// TestNewCheckerFromLexicon_NoCategories tests that the lexicon order is used without a table.
func TestNewCheckerFromLexicon_NoCategories(t *testing.T) {
	t.Parallel()

	c := NewCheckerFromLexicon(lexicon.Lexicon{
		{Category: "custom", Words: []string{"词"}},
	}, nil, discardLogger())

	got := c.Check("词", "")
	if got.Message != "内容含敏感词，涉及：custom，示例：词" {
		t.Errorf("unexpected message %q", got.Message)
	}

	empty := NewCheckerFromLexicon(nil, nil, discardLogger())
	if empty.Warm() != StateSkipped {
		t.Error("expected empty lexicon to skip")
	}
}

// TestState_String tests state names.
func TestState_String(t *testing.T) {
	t.Parallel()

	tests := map[State]string{
		StateUninitialized: "uninitialized",
		StateReady:         "ready",
		StateSkipped:       "skipped",
		State(42):          "unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}
