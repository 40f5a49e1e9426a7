package vars

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected map[string]string
	}{
		{
			name:     "simple key-value",
			content:  "API_KEY=secret123",
			expected: map[string]string{"API_KEY": "secret123"},
		},
		{
			name:    "multiple keys",
			content: "KEY1=value1\nKEY2=value2",
			expected: map[string]string{
				"KEY1": "value1",
				"KEY2": "value2",
			},
		},
		{
			name:     "double quoted value",
			content:  `TOKEN="secret with spaces"`,
			expected: map[string]string{"TOKEN": "secret with spaces"},
		},
		{
			name:     "single quoted value",
			content:  `TOKEN='secret with spaces'`,
			expected: map[string]string{"TOKEN": "secret with spaces"},
		},
		{
			name:     "comments and blank lines",
			content:  "# header\n\nHOST=api.example.com\n  # indented\n",
			expected: map[string]string{"HOST": "api.example.com"},
		},
		{
			name:     "export prefix",
			content:  "export HOST=api.example.com",
			expected: map[string]string{"HOST": "api.example.com"},
		},
		{
			name:     "value containing equals",
			content:  "QUERY=a=b",
			expected: map[string]string{"QUERY": "a=b"},
		},
		{
			name:     "lines without equals are skipped",
			content:  "garbage\nOK=1\n=nokey",
			expected: map[string]string{"OK": "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ".env")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			got, err := LoadDotEnv(path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLoadDotEnvFileNotFound(t *testing.T) {
	_, err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestParseAssignments(t *testing.T) {
	got, err := ParseAssignments([]string{"host=api.example.com", "empty=", "q=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"host": "api.example.com", "empty": "", "q": "a=b"}, got)

	_, err = ParseAssignments([]string{"novalue"})
	assert.Error(t, err)
	_, err = ParseAssignments([]string{"=x"})
	assert.Error(t, err)
}
