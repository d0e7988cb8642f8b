package models

import (
	"testing"
)

func TestJSONListRoundTripThroughScan(t *testing.T) {
	in := JSONList[DeckWord]{{VocabID: "v1", Headword: "cat", Definition: "con mèo"}}
	v, err := in.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}

	var out JSONList[DeckWord]
	if err := out.Scan([]byte(v.(string))); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(out) != 1 || out[0].Definition != "con mèo" {
		t.Errorf("Unexpected scanned words: %+v", out)
	}
}

func TestJSONListNilValues(t *testing.T) {
	var nilList JSONList[string]
	v, _ := nilList.Value()
	if v != "[]" {
		t.Errorf("Expected nil list to serialize as [], got %v", v)
	}

	var out JSONList[string]
	if err := out.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) failed: %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Errorf("Expected empty non-nil list, got %#v", out)
	}
}

func TestStringSet(t *testing.T) {
	set := NewStringSet(" kitty ", "", "true cat", "kitty")
	v, _ := set.Value()
	if v != "kitty, true cat" {
		t.Errorf("Unexpected stored value %q", v)
	}

	var scanned StringSet
	if err := scanned.Scan("kitty, true cat,,"); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(scanned) != 2 || scanned[1] != "true cat" {
		t.Errorf("Unexpected scanned set %#v", scanned)
	}

	if err := scanned.Scan(42); err == nil {
		t.Error("Expected error scanning an int")
	}
}

func TestIsWordClass(t *testing.T) {
	if !IsWordClass("noun") || !IsWordClass("short_adjective") {
		t.Error("Expected noun and short_adjective to be word classes")
	}
	if IsWordClass("pronoun") {
		t.Error("Did not expect pronoun to be a word class")
	}
}
