package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alfredjeanlab/leadcommander/internal/model"
)

func TestDecodeCSV(t *testing.T) {
	in := "name,company,score,risk_score,market_signal_detected,notes\n" +
		"John Doe,Acme Inc.,87,0.25,TRUE,\n" +
		"Jane Smith,,92,0.8,false,call back\n"

	got, err := DecodeCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("DecodeCSV: %v", err)
	}
	want := []model.Lead{
		{"id": 0, "name": "John Doe", "company": "Acme Inc.", "score": int64(87), "risk_score": 0.25, "market_signal_detected": true},
		{"id": 1, "name": "Jane Smith", "score": int64(92), "risk_score": 0.8, "market_signal_detected": false, "notes": "call back"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeCSV mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeCSV_KeepsExplicitID(t *testing.T) {
	got, err := DecodeCSV(strings.NewReader("id,Company\nL-7,Acme\n,Beta\n"))
	if err != nil {
		t.Fatalf("DecodeCSV: %v", err)
	}
	if id, _ := got[0].ID(); id != "L-7" {
		t.Errorf("row 0 id = %q, want L-7", id)
	}
	if id, _ := got[1].ID(); id != "1" {
		t.Errorf("row 1 id = %q, want row index 1", id)
	}
}

func TestDecodeCSV_Cells(t *testing.T) {
	for _, tc := range []struct {
		cell    string
		want    any
		present bool
	}{
		{"42", int64(42), true},
		{"-3", int64(-3), true},
		{"4.5", 4.5, true},
		{"True", true, true},
		{"false", false, true},
		{"  ", nil, false},
		{"NaN", nil, false},
		{"inf", "inf", true},
		{"Send Proposal", "Send Proposal", true},
	} {
		got, ok := inferCell(tc.cell)
		if ok != tc.present || got != tc.want {
			t.Errorf("inferCell(%q) = %v, %v; want %v, %v", tc.cell, got, ok, tc.want, tc.present)
		}
	}
}

func TestDecodeCSV_MissingColumns(t *testing.T) {
	for _, in := range []string{"", "email,score\nx@y.z,1\n"} {
		if _, err := DecodeCSV(strings.NewReader(in)); !errors.Is(err, ErrMissingColumns) {
			t.Errorf("DecodeCSV(%q) err = %v, want ErrMissingColumns", in, err)
		}
	}
}

func TestDecodeCSV_HeaderOnly(t *testing.T) {
	got, err := DecodeCSV(strings.NewReader("\ufeffName\n"))
	if err != nil {
		t.Fatalf("DecodeCSV: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil collection, got %#v", got)
	}
}

func TestDecodeJSON(t *testing.T) {
	got, err := DecodeJSON(strings.NewReader(`[{"id": 1, "name": "A", "risk_score": 0.2}, {"id": "b"}]`))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 leads, got %d", len(got))
	}
	if id, _ := got[0].ID(); id != "1" {
		t.Errorf("id = %q", id)
	}
	if r, _, err := got[0].Float(model.FieldRiskScore); err != nil || r != 0.2 {
		t.Errorf("risk_score = %v, %v", r, err)
	}

	if _, err := DecodeJSON(strings.NewReader(`{"id": 1}`)); err == nil {
		t.Error("expected error for a non-array document")
	}
	if _, err := DecodeJSON(strings.NewReader(`[null]`)); err == nil {
		t.Error("expected error for a null element")
	}
	empty, err := DecodeJSON(strings.NewReader(`null`))
	if err != nil || empty == nil {
		t.Errorf("DecodeJSON(null) = %#v, %v", empty, err)
	}
}

func TestDecodeJSONL(t *testing.T) {
	got, err := DecodeJSONL(strings.NewReader("{\"id\": 1}\n\n{\"id\": 2, \"name\": \"B\"}\n"))
	if err != nil {
		t.Fatalf("DecodeJSONL: %v", err)
	}
	if len(got) != 2 || got[1].Name() != "B" {
		t.Errorf("got %v", got)
	}

	_, err = DecodeJSONL(strings.NewReader("{\"id\": 1}\nnot json\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected line 2 error, got %v", err)
	}
}

func TestFormatFromName(t *testing.T) {
	for name, want := range map[string]Format{
		"leads.csv":          FormatCSV,
		"exports/LEADS.JSON": FormatJSON,
		"a.jsonl":            FormatJSONL,
		"a.ndjson":           FormatJSONL,
	} {
		got, err := FormatFromName(name)
		if err != nil || got != want {
			t.Errorf("FormatFromName(%q) = %q, %v; want %q", name, got, err, want)
		}
	}
	if _, err := FormatFromName("leads.xlsx"); err == nil {
		t.Error("expected error for .xlsx")
	}
}

func TestFormatFromContentType(t *testing.T) {
	for ct, want := range map[string]Format{
		"text/csv; charset=utf-8": FormatCSV,
		"application/x-ndjson":    FormatJSONL,
		"application/json":        FormatJSON,
		"":                        FormatJSON,
	} {
		if got := FormatFromContentType(ct); got != want {
			t.Errorf("FormatFromContentType(%q) = %q, want %q", ct, got, want)
		}
	}
}
