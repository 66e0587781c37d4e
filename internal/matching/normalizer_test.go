package matching

import (
	"reflect"
	"testing"
)

func TestNormalize_SplitTrimDedupe(t *testing.T) {
	tokens, primary := Normalize(" 111 ;222,111;  ;333\n444", "222")

	want := []string{"111", "222", "333", "444"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("Expected tokens %v, got %v", want, tokens)
	}
	if primary != "222" {
		t.Errorf("Expected primary 222, got %q", primary)
	}
}

func TestNormalize_CaseFolding(t *testing.T) {
	tokens, primary := Normalize("AB-123;ab-123;Cd-9", "CD-9")

	want := []string{"ab-123", "cd-9"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("Expected case-folded tokens %v, got %v", want, tokens)
	}
	if primary != "cd-9" {
		t.Errorf("Expected primary cd-9, got %q", primary)
	}
}

func TestNormalize_LeadingZerosPreserved(t *testing.T) {
	tokens, _ := Normalize("00123;123", "")

	if len(tokens) != 2 {
		t.Fatalf("Expected 00123 and 123 to stay distinct, got %v", tokens)
	}
	if tokens[0] != "00123" || tokens[1] != "123" {
		t.Errorf("Leading zeros must be preserved, got %v", tokens)
	}
}

func TestNormalize_PrimaryMissingFromListIsAdded(t *testing.T) {
	tokens, primary := Normalize("111;222", "999")

	want := []string{"111", "222", "999"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("Expected missing primary appended, got %v", tokens)
	}
	if primary != "999" {
		t.Errorf("Expected primary 999, got %q", primary)
	}
}

func TestNormalize_EmptyPrimaryMarksNothing(t *testing.T) {
	tokens, primary := Normalize("111;222", "  ")

	if primary != "" {
		t.Errorf("Expected no primary for blank input, got %q", primary)
	}
	if len(tokens) != 2 {
		t.Errorf("Expected 2 tokens, got %v", tokens)
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	tokens, primary := Normalize(" ; ;, ", "")

	if len(tokens) != 0 {
		t.Errorf("Expected no tokens from delimiter-only input, got %v", tokens)
	}
	if primary != "" {
		t.Errorf("Expected no primary, got %q", primary)
	}
}

func TestNormalizeTokens_Deterministic(t *testing.T) {
	in := []string{"B2", "a1", "b2", " A1 "}

	first, _ := NormalizeTokens(in, "")
	second, _ := NormalizeTokens(in, "")

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Normalization should be deterministic: %v vs %v", first, second)
	}
	want := []string{"b2", "a1"}
	if !reflect.DeepEqual(first, want) {
		t.Errorf("Expected first-seen order %v, got %v", want, first)
	}
}
