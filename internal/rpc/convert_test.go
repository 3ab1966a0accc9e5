package rpc

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestToStructAndBack(t *testing.T) {
	in := map[string]any{
		"id":    7,
		"name":  "Jane",
		"score": 92.5,
		"tags":  []string{"a", "b"},
	}
	s, err := ToStruct(in)
	if err != nil {
		t.Fatalf("ToStruct: %v", err)
	}
	if s.Fields["name"].GetStringValue() != "Jane" {
		t.Fatalf("name = %v", s.Fields["name"])
	}

	var out map[string]any
	if err := FromMessage(s, &out); err != nil {
		t.Fatalf("FromMessage: %v", err)
	}
	want := map[string]any{
		"id":    json.Number("7"),
		"name":  "Jane",
		"score": json.Number("92.5"),
		"tags":  []any{"a", "b"},
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestToStruct_RejectsNonObject(t *testing.T) {
	if _, err := ToStruct([]int{1, 2}); err == nil {
		t.Fatal("expected error for array payload")
	}
	if _, err := ToList(map[string]int{"a": 1}); err == nil {
		t.Fatal("expected error for object payload")
	}
}

func TestToList(t *testing.T) {
	l, err := ToList([]map[string]any{{"id": 1}, {"id": 2}})
	if err != nil {
		t.Fatalf("ToList: %v", err)
	}
	if len(l.Values) != 2 || l.Values[1].GetStructValue().Fields["id"].GetNumberValue() != 2 {
		t.Fatalf("list = %v", l)
	}
	var back []map[string]any
	if err := FromMessage(l, &back); err != nil || len(back) != 2 {
		t.Fatalf("FromMessage = %v, %v", back, err)
	}
}
