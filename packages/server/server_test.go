package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abdul-hamid-achik/reqline/packages/core/executor"
	"github.com/abdul-hamid-achik/reqline/packages/core/validator"
	rhttp "github.com/abdul-hamid-achik/reqline/packages/http"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type processorFunc func(ctx context.Context, payload any) *executor.Envelope

func (f processorFunc) Process(ctx context.Context, payload any) *executor.Envelope {
	return f(ctx, payload)
}

func newTestServer(t *testing.T, p Processor) (*httptest.Server, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	srv := NewServer(p, WithLogger(logger))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, hook
}

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded), string(data))
	return resp, decoded
}

func TestServer_SuccessReturns200(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 1, "quote": "hi"}`))
	}))
	defer upstream.Close()

	svc := executor.NewService(validator.MustNew(), executor.New(rhttp.NewClient()))
	ts, _ := newTestServer(t, svc)

	body, _ := json.Marshal(map[string]string{"reqline": "HTTP GET | URL " + upstream.URL + "/quotes/1"})
	resp, decoded := postJSON(t, ts.URL, string(body))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	request := decoded["request"].(map[string]any)
	assert.Equal(t, upstream.URL+"/quotes/1", request["full_url"])
	response := decoded["response"].(map[string]any)
	assert.Equal(t, float64(200), response["http_status"])
	assert.Equal(t, "hi", response["response_data"].(map[string]any)["quote"])
}

func TestServer_FailureReturns400(t *testing.T) {
	svc := executor.NewService(validator.MustNew(), executor.New(rhttp.NewClient()))
	ts, _ := newTestServer(t, svc)

	resp, decoded := postJSON(t, ts.URL, `{"reqline": "HTTP get | URL https://example.com"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, true, decoded["error"])
	assert.Equal(t, "HTTP method must be uppercase", decoded["message"])
}

func TestServer_InvalidJSONBody(t *testing.T) {
	called := false
	ts, _ := newTestServer(t, processorFunc(func(ctx context.Context, payload any) *executor.Envelope {
		called = true
		return executor.Failure("unreachable")
	}))

	resp, decoded := postJSON(t, ts.URL, `{"reqline": `)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid JSON request body", decoded["message"])
	assert.False(t, called)
}

func TestServer_RequestIDAndAccessLog(t *testing.T) {
	ts, hook := newTestServer(t, processorFunc(func(ctx context.Context, payload any) *executor.Envelope {
		assert.Equal(t, "abc-123", RequestID(ctx))
		return executor.Failure("nope")
	}))

	req, err := http.NewRequest(http.MethodPost, ts.URL, bytes.NewBufferString(`{}`))
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "request completed", entry.Message)
	assert.Equal(t, "abc-123", entry.Data["request_id"])
	assert.Equal(t, http.StatusBadRequest, entry.Data["status"])
}

func TestServer_GeneratesRequestID(t *testing.T) {
	ts, _ := newTestServer(t, processorFunc(func(ctx context.Context, payload any) *executor.Envelope {
		return executor.Failure("nope")
	}))

	resp, _ := postJSON(t, ts.URL, `{}`)
	assert.Len(t, resp.Header.Get("X-Request-ID"), 36)
}

func TestServer_Health(t *testing.T) {
	ts, _ := newTestServer(t, processorFunc(func(ctx context.Context, payload any) *executor.Envelope {
		return nil
	}))

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_RejectsOtherMethods(t *testing.T) {
	ts, _ := newTestServer(t, processorFunc(func(ctx context.Context, payload any) *executor.Envelope {
		return nil
	}))

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
