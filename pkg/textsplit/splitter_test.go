package textsplit

import (
	"strings"
	"testing"
)

func TestSplitShortText(t *testing.T) {
	chunks := Split("short text", 100, 20)
	if len(chunks) != 1 || chunks[0] != "short text" {
		t.Errorf("expected single chunk, got %v", chunks)
	}
}

func TestSplitEmptyText(t *testing.T) {
	if chunks := Split("   ", 100, 20); chunks != nil {
		t.Errorf("expected nil for blank text, got %v", chunks)
	}
}

func TestSplitOverlapPreservesContext(t *testing.T) {
	words := make([]string, 200)
	for i := range words {
		words[i] = "word"
	}
	text := strings.Join(words, " ")

	chunks := Split(text, 100, 30)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i, c := range chunks {
		if len([]rune(c)) > 100 {
			t.Errorf("chunk %d exceeds window size: %d runes", i, len([]rune(c)))
		}
	}

	// Consecutive chunks must share overlapping text.
	tail := chunks[0][len(chunks[0])-10:]
	if !strings.Contains(chunks[1], strings.TrimSpace(tail)) {
		t.Errorf("chunk 1 does not overlap with chunk 0 tail %q", tail)
	}
}

func TestSplitDeterministic(t *testing.T) {
	text := strings.Repeat("policy text about annual leave entitlement. ", 50)
	a := Split(text, 120, 40)
	b := Split(text, 120, 40)
	if len(a) != len(b) {
		t.Fatalf("chunk counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}
