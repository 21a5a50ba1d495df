package termtext

import (
	"bytes"
	"strings"
	"testing"
)

func TestNormalizeTabs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"tab at column 0", "\t12345", "    12345"},
		{"tab at column 1", "1\t2345", "1   2345"},
		{"tab at column 2", "12\t345", "12  345"},
		{"tab at column 3", "123\t45", "123 45"},
		{"tab at column 4", "1234\t5", "1234    5"},
		{"consecutive tabs", "\t\tx", "        x"},
		{"newline resets column", "abc\n\tx", "abc\n    x"},
		{"no tabs", "plain text", "plain text"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(NormalizeTabs([]byte(tt.input)))
			if got != tt.want {
				t.Fatalf("NormalizeTabs(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeTabs_EscapeSequencesTakeNoColumns(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"sgr", "\x1b[31mab\x1b[0m\tc", "\x1b[31mab\x1b[0m  c"},
		{"osc bel", "\x1b]0;title\x07a\tb", "\x1b]0;title\x07a   b"},
		{"osc st", "\x1b]0;t\x1b\\ab\tc", "\x1b]0;t\x1b\\ab  c"},
		{"charset", "\x1b(Babc\td", "\x1b(Babc d"},
		{"truncated csi copied", "a\tb\x1b[3", "a   b\x1b[3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(NormalizeTabs([]byte(tt.input)))
			if got != tt.want {
				t.Fatalf("NormalizeTabs(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeTabs_BrokenSequencesKeepOutput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"tab breaks csi", "a\x1b[3\tbcd", "a   bcd"},
		{"tab breaks osc", "\x1b]0;t\tx\ty", "    x   y"},
		{"tab breaks charset", "ab\x1b(\tc", "ab  c"},
		{"escape restarts csi", "x\x1b\x1b[31my\tz", "xy  z"},
		{"dcs string", "\x1bPq\x1b\\a\tb", "a   b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeString(string(NormalizeTabs([]byte(tt.input)))).Plain()
			if got != tt.want {
				t.Fatalf("decoded NormalizeTabs(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeTabs_DropsBrokenPrefix(t *testing.T) {
	got := string(NormalizeTabs([]byte("a\x1b[3\tbcd")))
	if want := "a   bcd"; got != want {
		t.Fatalf("NormalizeTabs = %q, want %q", got, want)
	}
}

func TestNormalizeTabs_WideCharacters(t *testing.T) {
	// Each CJK character occupies two columns.
	got := string(NormalizeTabs([]byte("日\tx")))
	if want := "日  x"; got != want {
		t.Fatalf("NormalizeTabs = %q, want %q", got, want)
	}
	got = string(NormalizeTabs([]byte("日本語\tx")))
	if want := "日本語  x"; got != want {
		t.Fatalf("NormalizeTabs = %q, want %q", got, want)
	}
}

func TestNormalizeTabs_AlignsToMultipleOfTabSize(t *testing.T) {
	inputs := []string{
		"a\tbb\tccc\tdddd\te",
		"\x1b[1mx\x1b[0m\ty\tz",
		"1\t\n22\t\n333\t\n",
	}
	for _, input := range inputs {
		out := NormalizeTabs([]byte(input))
		if bytes.IndexByte(out, '\t') >= 0 {
			t.Fatalf("NormalizeTabs(%q) left a tab: %q", input, out)
		}
		// Every original tab position ends at a column that is a multiple of
		// TabSize; checking the plain projection of each line is enough.
		for _, line := range strings.Split(DecodeString(string(out)).Plain(), "\n") {
			trimmed := strings.TrimRight(line, " ")
			if trimmed != line && len(line)%TabSize != 0 {
				t.Fatalf("line %q from %q does not end on a tab stop", line, input)
			}
		}
	}
}
