package http

import (
	"encoding/json"
)

type Response struct {
	StatusCode int
	Body       []byte
}

func (r *Response) BodyString() string {
	return string(r.Body)
}

// Data returns the body as the caller should see it: the raw JSON document
// when the body is valid JSON, the body text otherwise. JSON is kept raw so
// key order and number precision survive re-encoding.
func (r *Response) Data() any {
	if len(r.Body) > 0 && json.Valid(r.Body) {
		return json.RawMessage(r.Body)
	}
	return r.BodyString()
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
