package http

import (
	"fmt"
)

// StatusError is returned for non-2xx responses when the client does not
// accept every status. The response is attached for inspection.
type StatusError struct {
	StatusCode int
	Response   *Response
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Request failed with status code %d", e.StatusCode)
}
