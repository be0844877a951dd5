package util

import (
	"reflect"
	"testing"
)

func TestTrimQuotes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"no quotes", "hello", "hello"},
		{"double quoted", `"hello"`, "hello"},
		{"single quotes only", "'hello'", "'hello'"},
		{"quotes in middle", `he"llo`, `he"llo`},
		{"only quotes", `""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TrimQuotes(tt.input)
			if result != tt.expected {
				t.Errorf("TrimQuotes(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFixEscapeQuotes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"no escaped quotes", "hello", "hello"},
		{"single escaped quote", `he""llo`, `he"llo`},
		{"multiple escaped quotes", `a""b""c`, `a"b"c`},
		{"consecutive escaped", `a""""b`, `a""b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FixEscapeQuotes(tt.input)
			if result != tt.expected {
				t.Errorf("FixEscapeQuotes(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty", "", nil},
		{"blank", "   ", nil},
		{"words", "a b  c", []string{"a", "b", "c"}},
		{"quoted", `scene-a "1 2 3"`, []string{"scene-a", `"1 2 3"`}},
		{"key value", `title="Front door" type=hotspot`, []string{`title="Front door"`, "type=hotspot"}},
		{"escaped quote", `"say ""hi"""`, []string{`"say ""hi"""`}},
		{"empty quoted", `a "" b`, []string{"a", `""`, "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SplitArgs(tt.input)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("SplitArgs(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestKeyValue(t *testing.T) {
	tests := []struct {
		input string
		key   string
		value string
		ok    bool
	}{
		{"type=hotspot", "type", "hotspot", true},
		{`title="Front door"`, "title", "Front door", true},
		{`title="say ""hi"""`, "title", `say "hi"`, true},
		{"url=https://x/a.mp4?a=b", "url", "https://x/a.mp4?a=b", true},
		{"noequals", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			k, v, ok := KeyValue(tt.input)
			if k != tt.key || v != tt.value || ok != tt.ok {
				t.Errorf("KeyValue(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.input, k, v, ok, tt.key, tt.value, tt.ok)
			}
		})
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{`""`, ""},
		{`"plain"`, "plain"},
		{"bare", "bare"},
		{`"say ""hi"""`, `say "hi"`},
	}

	for _, tt := range tests {
		if got := Unquote(tt.input); got != tt.expected {
			t.Errorf("Unquote(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
