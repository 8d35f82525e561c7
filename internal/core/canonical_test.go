package core

import (
	"encoding/json"
	"testing"
)

func TestMarshalCanonical_Deterministic(t *testing.T) {
	v := map[string]any{"name": "Widget", "type": "SOFT_DELETE"}
	b1, err := MarshalCanonical(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b2, _ := MarshalCanonical(v)
	if string(b1) != string(b2) {
		t.Fatalf("same input produced different text: %s vs %s", b1, b2)
	}
	if string(b1) != `{"name":"Widget","type":"SOFT_DELETE"}` {
		t.Fatalf("unexpected text: %s", b1)
	}
}

func TestMarshalCanonical_KeyOrderIrrelevant(t *testing.T) {
	b1, _ := MarshalCanonical(json.RawMessage(`{"b":"x","a":1}`))
	b2, _ := MarshalCanonical(json.RawMessage(`{"a":1, "b":"x"}`))
	if string(b1) != string(b2) {
		t.Fatalf("different key order produced different text: %s vs %s", b1, b2)
	}
	if string(b1) != `{"a":1,"b":"x"}` {
		t.Fatalf("unexpected text: %s", b1)
	}
}

func TestMarshalCanonical_StructFieldsSorted(t *testing.T) {
	v := struct {
		Type  string `json:"type"`
		Count int    `json:"count"`
	}{Type: "REORDER", Count: 3}
	b, err := MarshalCanonical(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"count":3,"type":"REORDER"}` {
		t.Fatalf("unexpected text: %s", b)
	}
}

func TestMarshalCanonical_NestedAndArrays(t *testing.T) {
	v := map[string]any{
		"z": []any{map[string]any{"y": 1, "x": 2}},
		"a": map[string]any{"d": true, "c": nil},
	}
	b, err := MarshalCanonical(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"a":{"c":null,"d":true},"z":[{"x":2,"y":1}]}`
	if string(b) != want {
		t.Fatalf("got %s, want %s", b, want)
	}
}

func TestMarshalCanonical_NoHTMLEscaping(t *testing.T) {
	b, err := MarshalCanonical(map[string]string{"url": "https://x.test/?a=1&b=<2>"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"url":"https://x.test/?a=1&b=<2>"}` {
		t.Fatalf("unexpected text: %s", b)
	}
}

func TestMarshalCanonical_LargeNumbersKeepPrecision(t *testing.T) {
	b, err := MarshalCanonical(json.RawMessage(`{"id":9007199254740993}`))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"id":9007199254740993}` {
		t.Fatalf("unexpected text: %s", b)
	}
}

func TestMarshalCanonical_Unsupported(t *testing.T) {
	if _, err := MarshalCanonical(map[string]any{"ch": make(chan int)}); err == nil {
		t.Fatal("expected error for unsupported value")
	}
}
