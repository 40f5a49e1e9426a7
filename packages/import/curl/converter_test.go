package curl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SimpleGet(t *testing.T) {
	parsed, err := Parse(`curl https://api.example.com/users`)
	require.NoError(t, err)
	assert.Equal(t, "GET", parsed.Method)
	assert.Equal(t, "https://api.example.com/users", parsed.URL)
}

func TestParse_PostWithData(t *testing.T) {
	parsed, err := Parse(`curl https://api.example.com/users -d '{"name":"John"}'`)
	require.NoError(t, err)
	assert.Equal(t, "POST", parsed.Method)
	assert.Equal(t, `{"name":"John"}`, parsed.Body)
}

func TestParse_WithHeaders(t *testing.T) {
	parsed, err := Parse(`curl -H "Content-Type: application/json" -H 'Authorization: Bearer token123' https://api.example.com/users`)
	require.NoError(t, err)
	assert.Equal(t, [][2]string{
		{"Content-Type", "application/json"},
		{"Authorization", "Bearer token123"},
	}, parsed.Headers)
	assert.Equal(t, "Bearer token123", parsed.Header("authorization"))
}

func TestParse_IgnoredFlags(t *testing.T) {
	parsed, err := Parse(`curl -k -L --max-time 5 https://api.example.com`)
	require.NoError(t, err)
	assert.Equal(t, []string{"-k", "-L", "--max-time"}, parsed.Ignored)
	assert.Equal(t, "https://api.example.com", parsed.URL)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("curl")
	assert.ErrorIs(t, err, ErrNoURL)

	_, err = Parse("curl -X POST")
	require.Error(t, err)

	_, err = Parse("curl https://api.example.com -H")
	assert.EqualError(t, err, "missing value for -H")
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name     string
		cmd      string
		expected string
	}{
		{
			name:     "get",
			cmd:      `curl https://api.example.com/users`,
			expected: `HTTP GET | URL https://api.example.com/users`,
		},
		{
			name:     "query string becomes QUERY",
			cmd:      `curl 'https://api.example.com/users?page=2&name=John%20Doe'`,
			expected: `HTTP GET | URL https://api.example.com/users | QUERY {"page":"2","name":"John Doe"}`,
		},
		{
			name:     "post with headers and body",
			cmd:      `curl -X POST https://api.example.com/users -H "X-Trace: abc" --data-raw '{"name": "John", "age": 30}'`,
			expected: `HTTP POST | URL https://api.example.com/users | HEADERS {"X-Trace":"abc"} | BODY {"name":"John","age":30}`,
		},
		{
			name:     "basic auth",
			cmd:      `curl -u admin:secret https://api.example.com/admin`,
			expected: `HTTP GET | URL https://api.example.com/admin | HEADERS {"Authorization":"Basic YWRtaW46c2VjcmV0"}`,
		},
		{
			name:     "json flag",
			cmd:      `curl --json '{"a":1}' https://api.example.com`,
			expected: `HTTP POST | URL https://api.example.com | HEADERS {"Content-Type":"application/json"} | BODY {"a":1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv, err := Convert(tt.cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, conv.Statement)
		})
	}
}

func TestConvert_Rejections(t *testing.T) {
	_, err := Convert(`curl -X DELETE https://api.example.com/users/1`)
	assert.ErrorIs(t, err, ErrUnsupportedMethod)

	_, err = Convert(`curl -d 'name=John' https://api.example.com/users`)
	assert.ErrorIs(t, err, ErrBodyNotObject)

	_, err = Convert(`curl -H 'X-Note: a | b' https://api.example.com`)
	assert.Error(t, err)
}

func TestConvertAll(t *testing.T) {
	input := `# exported from the browser
curl https://api.example.com/users \
  -H 'Accept: application/json'

curl -k https://api.example.com/health
`
	convs, err := ConvertAll(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, `HTTP GET | URL https://api.example.com/users | HEADERS {"Accept":"application/json"}`, convs[0].Statement)
	assert.Equal(t, []string{"-k"}, convs[1].Ignored)

	_, err = ConvertAll(strings.NewReader("curl -X PUT https://api.example.com\n"))
	assert.ErrorContains(t, err, "command 1")
}

func TestParse_ShellQuoting(t *testing.T) {
	parsed, err := Parse(`curl -H "X-Name: John Doe" -d '{"note":"it'\''s"}' https://api.example.com`)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", parsed.Header("X-Name"))
	assert.Equal(t, `{"note":"it's"}`, parsed.Body)

	_, err = Parse(`curl -H "unterminated https://api.example.com`)
	assert.Error(t, err)
}
