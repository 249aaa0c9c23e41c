package handlers

import (
	"encoding/json"
	"testing"
)

func TestDecodeOptionsIgnoresNonObjects(t *testing.T) {
	if got := decodeOptions(json.RawMessage(`"casual"`)); got != nil {
		t.Fatalf("string options should be ignored, got %v", got)
	}
	if got := decodeOptions(json.RawMessage(`[1,2]`)); got != nil {
		t.Fatalf("array options should be ignored, got %v", got)
	}
	got := decodeOptions(json.RawMessage(`{"tone":"formal","wordCount":"lots"}`))
	if tone, ok := got.String("tone"); !ok || tone != "formal" {
		t.Fatalf("tone=%q ok=%v", tone, ok)
	}
	if _, ok := got.Number("wordCount"); ok {
		t.Fatalf("string wordCount must be ignored")
	}
}

func TestTextOf(t *testing.T) {
	cases := map[string]string{
		``:                         "",
		`null`:                     "",
		`"  midterm in 2 weeks  "`: "midterm in 2 weeks",
		`{"course": "BIO 101"}`:    `{"course":"BIO 101"}`,
	}
	for in, want := range cases {
		if got := textOf(json.RawMessage(in)); got != want {
			t.Fatalf("textOf(%q)=%q want %q", in, got, want)
		}
	}
}
