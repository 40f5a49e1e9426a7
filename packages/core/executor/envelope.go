package executor

import (
	"encoding/json"
)

// Envelope is the outcome handed back to callers: either a Result or an
// error message, never both.
type Envelope struct {
	Result  *Result
	Message string
	// Cause is the error behind a failure, when there is one. It is never
	// serialised.
	Cause error
}

type failure struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

func Success(result *Result) *Envelope {
	return &Envelope{Result: result}
}

func Failure(message string) *Envelope {
	return &Envelope{Message: message}
}

func (e *Envelope) Failed() bool {
	return e.Result == nil
}

func (e *Envelope) MarshalJSON() ([]byte, error) {
	if e.Failed() {
		return json.Marshal(failure{Error: true, Message: e.Message})
	}
	return json.Marshal(e.Result)
}
