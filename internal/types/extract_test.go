package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestExtractString(t *testing.T) {
	tests := []struct {
		name string
		arg  any
		want string
	}{
		{"string", "hello", "hello"},
		{"float64 integral", float64(42), "42"},
		{"float64", 3.14, "3.14"},
		{"int", 7, "7"},
		{"bool", true, "true"},
		{"nil", nil, ""},
		{"json.Number", json.Number("12.5"), "12.5"},
		{"object", map[string]any{"a": float64(1)}, `{"a":1}`},
		{"list", []any{"x", float64(2)}, `["x",2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractString(tt.arg)
			if got != tt.want {
				t.Errorf("ExtractString(%v) = %q, want %q", tt.arg, got, tt.want)
			}
		})
	}
}

func TestExtractInt(t *testing.T) {
	tests := []struct {
		name   string
		arg    any
		want   int
		wantOK bool
	}{
		{"float64", float64(15), 15, true},
		{"float64 truncates", 2.9, 2, true},
		{"int64", int64(3), 3, true},
		{"numeric string", " 160 ", 160, true},
		{"bad string", "many", 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractInt(tt.arg)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ExtractInt(%v) = (%d, %v), want (%d, %v)", tt.arg, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestExtractFloat64(t *testing.T) {
	if f, ok := ExtractFloat64(float64(0.75)); !ok || f != 0.75 {
		t.Errorf("ExtractFloat64(0.75) = (%v, %v)", f, ok)
	}
	if f, ok := ExtractFloat64("82.5"); !ok || f != 82.5 {
		t.Errorf("ExtractFloat64(\"82.5\") = (%v, %v)", f, ok)
	}
	if _, ok := ExtractFloat64([]any{}); ok {
		t.Error("ExtractFloat64([]any{}) should fail")
	}
}

func TestExtractBool(t *testing.T) {
	tests := []struct {
		arg    any
		want   bool
		wantOK bool
	}{
		{true, true, true},
		{false, false, true},
		{"true", true, true},
		{"FALSE", false, true},
		{"yes", false, false},
		{float64(1), false, false},
	}
	for _, tt := range tests {
		got, ok := ExtractBool(tt.arg)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ExtractBool(%v) = (%v, %v), want (%v, %v)", tt.arg, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestExtractTime(t *testing.T) {
	got, ok := ExtractTime("2024-01-15T10:30:00")
	if !ok || !got.Equal(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)) {
		t.Errorf("ExtractTime datetime = (%v, %v)", got, ok)
	}
	got, ok = ExtractTime("2024-06-30")
	if !ok || got.Day() != 30 {
		t.Errorf("ExtractTime date = (%v, %v)", got, ok)
	}
	if _, ok := ExtractTime(float64(0)); ok {
		t.Error("ExtractTime(number) should fail")
	}
}

func TestField(t *testing.T) {
	var doc any
	if err := json.Unmarshal([]byte(`{"summary":{"total_trains":25,"utilization_rate":82.5},"today_plan":{"approval_status":"pending"}}`), &doc); err != nil {
		t.Fatal(err)
	}

	if n, ok := FieldInt(doc, "summary.total_trains"); !ok || n != 25 {
		t.Errorf("summary.total_trains = (%d, %v)", n, ok)
	}
	if f, ok := FieldFloat64(doc, "summary.utilization_rate"); !ok || f != 82.5 {
		t.Errorf("summary.utilization_rate = (%v, %v)", f, ok)
	}
	if s := FieldString(doc, "today_plan.approval_status"); s != "pending" {
		t.Errorf("approval_status = %q", s)
	}
	if v := Field(doc, "summary.missing.deeper"); v != nil {
		t.Errorf("missing path = %v, want nil", v)
	}
	if v := Field("not an object", "a"); v != nil {
		t.Errorf("non-object = %v, want nil", v)
	}
}

func TestItems(t *testing.T) {
	if got := Items([]any{1, 2}); len(got) != 2 {
		t.Errorf("Items = %v", got)
	}
	if got := Items(map[string]any{}); got != nil {
		t.Errorf("Items(object) = %v, want nil", got)
	}
}
