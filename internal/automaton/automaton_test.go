package automaton

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"unicode/utf8"
)

// TestNew tests automaton construction.
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("counts distinct words", func(t *testing.T) {
		t.Parallel()
		a, err := New([]string{"ab", "abc", "ab", " x "})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Len() != 3 {
			t.Errorf("expected 3 words, got %d", a.Len())
		}
		// root + a + b + c + x
		if a.Nodes() != 5 {
			t.Errorf("expected 5 nodes, got %d", a.Nodes())
		}
	})

	t.Run("empty word is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := New([]string{"ok", ""})
		if !errors.Is(err, ErrEmptyWord) {
			t.Errorf("expected ErrEmptyWord, got %v", err)
		}
	})

	t.Run("whitespace-only word is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := New([]string{"  \t"})
		if !errors.Is(err, ErrEmptyWord) {
			t.Errorf("expected ErrEmptyWord, got %v", err)
		}
	})

	t.Run("MustNew panics on empty word", func(t *testing.T) {
		t.Parallel()
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		MustNew([]string{""})
	})
}

// TestScan tests the greedy longest-match scan.
func TestScan(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		words []string
		text  string
		want  []Hit
	}{
		{
			name:  "longest match wins over prefix",
			words: []string{"ab", "abc"},
			text:  "abcd",
			want:  []Hit{{0, 3, "abc"}},
		},
		{
			name:  "matches do not overlap",
			words: []string{"aa"},
			text:  "aaaa",
			want:  []Hit{{0, 2, "aa"}, {2, 4, "aa"}},
		},
		{
			name:  "odd remainder is not matched",
			words: []string{"aa"},
			text:  "aaa",
			want:  []Hit{{0, 2, "aa"}},
		},
		{
			name:  "falls back to shorter word when longer path dead-ends",
			words: []string{"ab", "abcd"},
			text:  "abcx",
			want:  []Hit{{0, 2, "ab"}},
		},
		{
			name:  "word inside consumed span is skipped",
			words: []string{"abc", "bc"},
			text:  "abc bc",
			want:  []Hit{{0, 3, "abc"}, {4, 6, "bc"}},
		},
		{
			name:  "cursor advances by one when nothing matches",
			words: []string{"bc"},
			text:  "abc",
			want:  []Hit{{1, 3, "bc"}},
		},
		{
			name:  "offsets are character offsets",
			words: []string{"垃圾内容"},
			text:  "这是垃圾内容示例",
			want:  []Hit{{2, 6, "垃圾内容"}},
		},
		{
			name:  "no case folding",
			words: []string{"spam"},
			text:  "SPAM spam",
			want:  []Hit{{5, 9, "spam"}},
		},
		{
			name:  "no match",
			words: []string{"xyz"},
			text:  "hello world",
			want:  nil,
		},
		{
			name:  "empty text",
			words: []string{"a"},
			text:  "",
			want:  nil,
		},
		{
			name:  "phrase with space",
			words: []string{"buy now"},
			text:  "please buy now!",
			want:  []Hit{{7, 14, "buy now"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := MustNew(tc.words).Scan(tc.text)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Scan(%q) = %v, want %v", tc.text, got, tc.want)
			}
			for _, h := range got {
				if h.End <= h.Start {
					t.Errorf("hit %v has empty span", h)
				}
				if utf8.RuneCountInString(h.Word) != h.End-h.Start {
					t.Errorf("hit %v word length does not match span", h)
				}
			}
		})
	}
}

// TestScanEmptyAutomaton tests that an automaton without words never matches.
func TestScanEmptyAutomaton(t *testing.T) {
	t.Parallel()

	a := MustNew(nil)
	if hits := a.Scan("anything"); hits != nil {
		t.Errorf("expected no hits, got %v", hits)
	}
	if a.Contains("anything") {
		t.Error("expected Contains to be false")
	}
}

// TestContains tests the short-circuit lookup.
func TestContains(t *testing.T) {
	t.Parallel()

	a := MustNew([]string{"evil"})
	if !a.Contains("x evil") {
		t.Error("expected match")
	}
	if a.Contains("x evi") {
		t.Error("expected no match")
	}
}

// TestScanConcurrent tests that a built automaton can be scanned concurrently.
func TestScanConcurrent(t *testing.T) {
	t.Parallel()

	a := MustNew([]string{"spam", "scam"})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if hits := a.Scan("spam and scam"); len(hits) != 2 {
				t.Errorf("expected 2 hits, got %d", len(hits))
			}
		}()
	}
	wg.Wait()
}

func BenchmarkScan(b *testing.B) {
	a := MustNew([]string{"垃圾", "垃圾内容", "广告", "spam", "buy now"})
	text := "这是一段包含垃圾内容和广告的示例文本，please buy now，并没有其他 spam。"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = a.Scan(text)
	}
}
