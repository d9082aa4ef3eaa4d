package utils

import "testing"

func TestNameSimilarityIdentical(t *testing.T) {
	if got := NameSimilarity("Sauna Blanket", "sauna  blanket"); got != 1 {
		t.Fatalf("expected 1 for same name modulo case/spacing, got %f", got)
	}
}

func TestNameSimilaritySymmetric(t *testing.T) {
	a, b := "red light panel", "redlight panel"
	if NameSimilarity(a, b) != NameSimilarity(b, a) {
		t.Fatalf("similarity must be symmetric")
	}
}

func TestNameSimilarityClose(t *testing.T) {
	if got := NameSimilarity("cold plunge", "cold plung"); got < 0.8 {
		t.Fatalf("expected typo to score above 0.8, got %f", got)
	}
}

func TestNameSimilarityDistinct(t *testing.T) {
	if got := NameSimilarity("sauna", "treadmill"); got > 0.3 {
		t.Fatalf("unrelated names should score low, got %f", got)
	}
}

func TestNameSimilarityShortStrings(t *testing.T) {
	if got := NameSimilarity("a", "b"); got != 0 {
		t.Fatalf("single-char names score 0, got %f", got)
	}
}
