package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Validate(t *testing.T) {
	v := MustNew()

	tests := []struct {
		name    string
		payload any
		want    string
		errMsg  string
	}{
		{
			name:    "valid statement",
			payload: map[string]any{"reqline": "HTTP GET | URL https://example.com"},
			want:    "HTTP GET | URL https://example.com",
		},
		{
			name:    "statement is trimmed",
			payload: map[string]any{"reqline": "  HTTP GET | URL https://example.com \n"},
			want:    "HTTP GET | URL https://example.com",
		},
		{
			name:    "struct payload",
			payload: Input{Reqline: "HTTP POST | URL https://example.com"},
			want:    "HTTP POST | URL https://example.com",
		},
		{
			name:    "missing reqline",
			payload: map[string]any{"other": "x"},
			errMsg:  "reqline is required",
		},
		{
			name:    "reqline not a string",
			payload: map[string]any{"reqline": 42},
			errMsg:  "reqline must be a string",
		},
		{
			name:    "blank reqline",
			payload: map[string]any{"reqline": "   "},
			errMsg:  "reqline must not be empty",
		},
		{
			name:    "empty reqline",
			payload: map[string]any{"reqline": ""},
			errMsg:  "reqline must not be empty",
		},
		{
			name:    "null payload",
			payload: nil,
			errMsg:  "request body must be a JSON object",
		},
		{
			name:    "array payload",
			payload: []any{"HTTP GET | URL https://example.com"},
			errMsg:  "request body must be a JSON object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Validate(tt.payload)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Equal(t, tt.errMsg, err.Error())
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
