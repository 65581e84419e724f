package csv

import (
	"errors"
	"reflect"
	"testing"
)

// ----------------------------------------------------------------------------
// Decode Tests
// ----------------------------------------------------------------------------

func TestDecodeDelimiterAutodetect(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]string
	}{
		{
			name:  "more commas than semicolons selects comma",
			input: "a,b;c,d",
			want:  [][]string{{"a", "b;c", "d"}},
		},
		{
			name:  "more semicolons than commas selects semicolon",
			input: "a;b;c,d",
			want:  [][]string{{"a", "b", "c,d"}},
		},
		{
			name:  "tie falls back to comma",
			input: "a,b;c",
			want:  [][]string{{"a", "b;c"}},
		},
		{
			name:  "no delimiter at all yields single cell rows",
			input: "alpha\nbeta",
			want:  [][]string{{"alpha"}, {"beta"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.input)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeSentinel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]string
	}{
		{
			name:  "sentinel forces semicolon despite comma majority",
			input: "sep=;\na,b;c,d",
			want:  [][]string{{"a,b", "c,d"}},
		},
		{
			name:  "sentinel forces comma",
			input: "sep=,\nx;y,z",
			want:  [][]string{{"x;y", "z"}},
		},
		{
			name:  "sentinel is case insensitive with whitespace",
			input: "SEP = ; \na;b",
			want:  [][]string{{"a", "b"}},
		},
		{
			name:  "sentinel with CRLF line ending",
			input: "sep=;\r\na;b\r\nc;d",
			want:  [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "sep= inside a data cell is not a sentinel",
			input: "note,val\nsep=;,x",
			want:  [][]string{{"note", "val"}, {"sep=;", "x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.input)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeQuoting(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]string
	}{
		{
			name:  "quoted delimiter stays in cell",
			input: `a,"b,c",d`,
			want:  [][]string{{"a", "b,c", "d"}},
		},
		{
			name:  "doubled quote emits literal quote",
			input: `"say ""hi""",x`,
			want:  [][]string{{`say "hi"`, "x"}},
		},
		{
			name:  "quoted newline stays in cell",
			input: "\"line1\nline2\",x",
			want:  [][]string{{"line1\nline2", "x"}},
		},
		{
			name:  "quoted CRLF stays in cell",
			input: "\"a\r\nb\",x",
			want:  [][]string{{"a\r\nb", "x"}},
		},
		{
			name:  "unterminated quote consumes to end of input",
			input: "a,\"rest of, everything\nincluded",
			want:  [][]string{{"a", "rest of, everything\nincluded"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.input)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeRowHandling(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]string
	}{
		{
			name:  "BOM stripped",
			input: "\ufeffa,b",
			want:  [][]string{{"a", "b"}},
		},
		{
			name:  "trailing blank lines discarded",
			input: "a,b\n\n\n",
			want:  [][]string{{"a", "b"}},
		},
		{
			name:  "blank multi-cell row kept",
			input: "a,b\n,\nc,d",
			want:  [][]string{{"a", "b"}, {"", ""}, {"c", "d"}},
		},
		{
			name:  "CR alone ends a row",
			input: "a,b\rc,d",
			want:  [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "trailing cell without newline flushed",
			input: "a,b\nc,d",
			want:  [][]string{{"a", "b"}, {"c", "d"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.input)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "BOM only", input: "\ufeff"},
		{name: "sentinel only", input: "sep=;"},
		{name: "sentinel then blank lines", input: "sep=;\n\n\n"},
		{name: "whitespace line only", input: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input)
			if !errors.Is(err, ErrMalformedInput) {
				t.Errorf("Decode() error = %v, want ErrMalformedInput", err)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// Encode Tests
// ----------------------------------------------------------------------------

func TestEncode(t *testing.T) {
	rows := [][]string{
		{"No", "Email"},
		{"1", `has "quotes" and ;delims,`},
	}

	got := Encode(rows, ';')
	want := "sep=;\n\"No\";\"Email\"\n\"1\";\"has \"\"quotes\"\" and ;delims,\""

	if got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
	}{
		{
			name: "plain cells",
			rows: [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name: "embedded delimiters quotes and newlines",
			rows: [][]string{
				{"x;y", `quote " inside`, "multi\nline"},
				{"", ";;;", "\r\n"},
			},
		},
		{
			name: "unicode content",
			rows: [][]string{{"produk warna mérah", "日本語"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(Encode(tt.rows, ';'))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.rows) {
				t.Errorf("round trip = %v, want %v", got, tt.rows)
			}
		})
	}
}
