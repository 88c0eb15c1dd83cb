package ui

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
)

func TestOutputWithoutColors(t *testing.T) {
	original := color.NoColor
	defer func() { color.NoColor = original }()
	InitColors(true)

	tests := []struct {
		name  string
		print func(*bytes.Buffer)
		want  string
	}{
		{
			name:  "success",
			print: func(b *bytes.Buffer) { Successf(b, "backed up %d tables", 3) },
			want:  "✓ backed up 3 tables\n",
		},
		{
			name:  "warning",
			print: func(b *bytes.Buffer) { Warningf(b, "score %.2f", 0.5) },
			want:  "⚠ score 0.50\n",
		},
		{
			name:  "error",
			print: func(b *bytes.Buffer) { Errorf(b, "%s", "no such table") },
			want:  "✗ no such table\n",
		},
		{
			name:  "info",
			print: func(b *bytes.Buffer) { Infof(b, "opened") },
			want:  "ℹ opened\n",
		},
		{
			name:  "header",
			print: func(b *bytes.Buffer) { Header(b, "Tables") },
			want:  "Tables\n======\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.print(&buf)
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	if got := Label("path:"); got != "path:" {
		t.Errorf("Label() = %q", got)
	}
	if got := CountText(42); got != "42" {
		t.Errorf("CountText() = %q", got)
	}
	if got := DimText("a.db"); got != "a.db" {
		t.Errorf("DimText() = %q", got)
	}
}
