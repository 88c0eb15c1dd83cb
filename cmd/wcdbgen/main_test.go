package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const source = "package chat\n\ntype Message struct {\n\tID int64 `wcdb:\"id,primary,autoincrement\"`\n\tBody string `wcdb:\"body\"`\n}\n\ntype Room struct {\n\tName string `wcdb:\"name,primary\"`\n}\n"

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     func(dir string) []string
		wantCode int
		output   string
		contains []string
		missing  []string
	}{
		{
			name:     "every record into the default output",
			args:     func(dir string) []string { return []string{filepath.Join(dir, "chat.go")} },
			output:   "chat_wcdb.go",
			contains: []string{"type DBMessage struct", "type DBRoom struct"},
		},
		{
			name: "selected record into an explicit output",
			args: func(dir string) []string {
				return []string{"--type", "Room", "-o", filepath.Join(dir, "room.go"), "--package", "rooms", filepath.Join(dir, "chat.go")}
			},
			output:   "room.go",
			contains: []string{"package rooms", "type DBRoom struct"},
			missing:  []string{"DBMessage"},
		},
		{
			name:     "unknown record",
			args:     func(dir string) []string { return []string{"--type", "Missing", filepath.Join(dir, "chat.go")} },
			wantCode: 1,
		},
		{
			name:     "missing input",
			args:     func(dir string) []string { return []string{filepath.Join(dir, "none.go")} },
			wantCode: 1,
		},
		{
			name:     "unknown flag",
			args:     func(string) []string { return []string{"--bogus"} },
			wantCode: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "chat.go"), []byte(source), 0o600))

			var stdout, stderr bytes.Buffer
			code := run(tt.args(dir), &stdout, &stderr)
			require.Equal(t, tt.wantCode, code, stderr.String())
			if tt.output == "" {
				return
			}
			assert.Contains(t, stdout.String(), "✓ generated")
			data, err := os.ReadFile(filepath.Join(dir, tt.output))
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, string(data), want)
			}
			for _, unwanted := range tt.missing {
				assert.NotContains(t, string(data), unwanted)
			}
		})
	}
}
