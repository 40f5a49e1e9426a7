package capture

import (
	"encoding/json"
	"testing"

	"github.com/abdul-hamid-achik/reqline/packages/core/executor"
	"github.com/abdul-hamid-achik/reqline/packages/core/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResult(t *testing.T, data any) *executor.Result {
	t.Helper()
	headers, err := parser.ParseObject(`{"X-Token": "abc"}`)
	require.NoError(t, err)
	query, err := parser.ParseObject(`{"page": 2}`)
	require.NoError(t, err)

	return &executor.Result{
		Request: executor.RequestInfo{
			Headers: headers,
			Query:   query,
			Body:    parser.NewObject(),
			FullURL: "https://example.com/items?page=2",
		},
		Response: executor.ResponseInfo{
			HTTPStatus:   200,
			Duration:     17,
			ResponseData: data,
		},
	}
}

func TestParseSelector(t *testing.T) {
	tests := []struct {
		expr    string
		want    *Selector
		wantErr bool
	}{
		{expr: "status", want: &Selector{Source: SourceStatus}},
		{expr: " duration ", want: &Selector{Source: SourceDuration}},
		{expr: "body", want: &Selector{Source: SourceBody}},
		{expr: "body.items.0.id", want: &Selector{Source: SourceBody, Path: "items.0.id"}},
		{expr: "headers.X-Token", want: &Selector{Source: SourceHeaders, Path: "X-Token"}},
		{expr: "status.code", wantErr: true},
		{expr: "cookies.session", wantErr: true},
		{expr: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := ParseSelector(tt.expr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractor_JSONBody(t *testing.T) {
	result := newResult(t, json.RawMessage(`{"items": [{"id": 7, "name": "a"}], "total": 1}`))
	ext := NewExtractor(result)

	value, ok := ext.Extract(&Selector{Source: SourceBody, Path: "items.0.id"})
	require.True(t, ok)
	assert.Equal(t, float64(7), value)

	value, ok = ext.Extract(&Selector{Source: SourceBody, Path: "items.#"})
	require.True(t, ok)
	assert.Equal(t, float64(1), value)

	_, ok = ext.Extract(&Selector{Source: SourceBody, Path: "missing"})
	assert.False(t, ok)

	value, ok = ext.Extract(&Selector{Source: SourceBody})
	require.True(t, ok)
	assert.IsType(t, map[string]any{}, value)
}

func TestExtractor_TextBody(t *testing.T) {
	ext := NewExtractor(newResult(t, "plain text"))

	value, ok := ext.Extract(&Selector{Source: SourceBody})
	require.True(t, ok)
	assert.Equal(t, "plain text", value)

	_, ok = ext.Extract(&Selector{Source: SourceBody, Path: "a"})
	assert.False(t, ok)
}

func TestExtractor_Metadata(t *testing.T) {
	ext := NewExtractor(newResult(t, ""))

	status, ok := ext.Extract(&Selector{Source: SourceStatus})
	require.True(t, ok)
	assert.Equal(t, 200, status)

	duration, ok := ext.Extract(&Selector{Source: SourceDuration})
	require.True(t, ok)
	assert.Equal(t, int64(17), duration)

	url, ok := ext.Extract(&Selector{Source: SourceURL})
	require.True(t, ok)
	assert.Equal(t, "https://example.com/items?page=2", url)

	token, ok := ext.Extract(&Selector{Source: SourceHeaders, Path: "X-Token"})
	require.True(t, ok)
	assert.Equal(t, "abc", token)

	page, ok := ext.Extract(&Selector{Source: SourceQuery, Path: "page"})
	require.True(t, ok)
	assert.Equal(t, float64(2), page)
}

func TestSelect(t *testing.T) {
	result := newResult(t, json.RawMessage(`{"user": {"name": "John"}}`))

	value, err := Select(result, "body.user.name")
	require.NoError(t, err)
	assert.Equal(t, "John", value)

	_, err = Select(result, "body.user.age")
	assert.Error(t, err)

	_, err = Select(result, "nope")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "John", Format("John"))
	assert.Equal(t, "200", Format(200))
	assert.Equal(t, `{"a":1}`, Format(map[string]any{"a": float64(1)}))
	assert.Equal(t, "null", Format(nil))
}
