package types

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestFlexListUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single string", `{"ids": "a1"}`, []string{"a1"}},
		{"array", `{"ids": ["a1", "b2"]}`, []string{"a1", "b2"}},
		{"empty array", `{"ids": []}`, []string{}},
		{"null", `{"ids": null}`, nil},
		{"missing", `{}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body struct {
				IDs FlexList[string] `json:"ids"`
			}
			if err := json.Unmarshal([]byte(tt.input), &body); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if !slices.Equal(body.IDs.Slice(), tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, body.IDs)
			}
		})
	}
}

func TestFlexListRejectsWrongType(t *testing.T) {
	var body struct {
		IDs FlexList[string] `json:"ids"`
	}
	if err := json.Unmarshal([]byte(`{"ids": 42}`), &body); err == nil {
		t.Error("Expected an error for a number where strings are expected")
	}
}

func TestFlexListMarshalsAsArray(t *testing.T) {
	out, err := json.Marshal(struct {
		IDs FlexList[string] `json:"ids"`
	}{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != `{"ids":[]}` {
		t.Errorf("Expected empty array, got %s", out)
	}
}
