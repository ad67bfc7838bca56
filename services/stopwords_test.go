package services

import "testing"

func TestRemoveStopWords(t *testing.T) {
	got := RemoveStopWords("Paris is the capital of France")
	want := "Paris capital France"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRemoveStopWordsIsCaseInsensitive(t *testing.T) {
	got := RemoveStopWords("The Quick Brown Fox")
	want := "Quick Brown Fox"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRemoveStopWordsCollapsesWhitespace(t *testing.T) {
	got := RemoveStopWords("  machine\n\nlearning\t models  ")
	want := "machine learning models"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRemoveStopWordsAllStopWords(t *testing.T) {
	if got := RemoveStopWords("the of and is"); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}
