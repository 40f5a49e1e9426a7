package parser

import (
	"fmt"
)

// ErrorKind identifies which rule of the reqline grammar was violated.
type ErrorKind string

const (
	KindMissingHTTPKeyword       ErrorKind = "MISSING_HTTP_KEYWORD"
	KindMissingURLKeyword        ErrorKind = "MISSING_URL_KEYWORD"
	KindInvalidHTTPMethod        ErrorKind = "INVALID_HTTP_METHOD"
	KindInvalidHTTPMethodCase    ErrorKind = "INVALID_HTTP_METHOD_CASE"
	KindInvalidSpacing           ErrorKind = "INVALID_SPACING"
	KindInvalidHeadersJSON       ErrorKind = "INVALID_HEADERS_JSON"
	KindInvalidQueryJSON         ErrorKind = "INVALID_QUERY_JSON"
	KindInvalidBodyJSON          ErrorKind = "INVALID_BODY_JSON"
	KindKeywordsMustBeUppercase  ErrorKind = "KEYWORDS_MUST_BE_UPPERCASE"
	KindMissingSpaceAfterKeyword ErrorKind = "MISSING_SPACE_AFTER_KEYWORD"
	KindMultipleSpaces           ErrorKind = "MULTIPLE_SPACES"
	KindMissingValue             ErrorKind = "MISSING_VALUE"
	KindDuplicateKeyword         ErrorKind = "DUPLICATE_KEYWORD"
	KindUnknownKeyword           ErrorKind = "UNKNOWN_KEYWORD"
)

// Messages holds the canonical message for every kind with a fixed text.
// MISSING_VALUE, DUPLICATE_KEYWORD and UNKNOWN_KEYWORD embed the offending
// keyword or segment and are built by their constructors.
var Messages = map[ErrorKind]string{
	KindMissingHTTPKeyword:       "Missing required HTTP keyword",
	KindMissingURLKeyword:        "Missing required URL keyword",
	KindInvalidHTTPMethod:        "Invalid HTTP method. Only GET and POST are supported",
	KindInvalidHTTPMethodCase:    "HTTP method must be uppercase",
	KindInvalidSpacing:           "Invalid spacing around pipe delimiter",
	KindInvalidHeadersJSON:       "Invalid JSON format in HEADERS section",
	KindInvalidQueryJSON:         "Invalid JSON format in QUERY section",
	KindInvalidBodyJSON:          "Invalid JSON format in BODY section",
	KindKeywordsMustBeUppercase:  "Keywords must be uppercase",
	KindMissingSpaceAfterKeyword: "Missing space after keyword",
	KindMultipleSpaces:           "Multiple spaces found where single space expected",
}

// Sentinels for errors.Is. Matching compares kinds only.
var (
	ErrMissingHTTPKeyword       = &ParseError{Kind: KindMissingHTTPKeyword, Message: Messages[KindMissingHTTPKeyword]}
	ErrMissingURLKeyword        = &ParseError{Kind: KindMissingURLKeyword, Message: Messages[KindMissingURLKeyword]}
	ErrInvalidHTTPMethod        = &ParseError{Kind: KindInvalidHTTPMethod, Message: Messages[KindInvalidHTTPMethod]}
	ErrInvalidHTTPMethodCase    = &ParseError{Kind: KindInvalidHTTPMethodCase, Message: Messages[KindInvalidHTTPMethodCase]}
	ErrInvalidSpacing           = &ParseError{Kind: KindInvalidSpacing, Message: Messages[KindInvalidSpacing]}
	ErrInvalidHeadersJSON       = &ParseError{Kind: KindInvalidHeadersJSON, Message: Messages[KindInvalidHeadersJSON]}
	ErrInvalidQueryJSON         = &ParseError{Kind: KindInvalidQueryJSON, Message: Messages[KindInvalidQueryJSON]}
	ErrInvalidBodyJSON          = &ParseError{Kind: KindInvalidBodyJSON, Message: Messages[KindInvalidBodyJSON]}
	ErrKeywordsMustBeUppercase  = &ParseError{Kind: KindKeywordsMustBeUppercase, Message: Messages[KindKeywordsMustBeUppercase]}
	ErrMissingSpaceAfterKeyword = &ParseError{Kind: KindMissingSpaceAfterKeyword, Message: Messages[KindMissingSpaceAfterKeyword]}
	ErrMultipleSpaces           = &ParseError{Kind: KindMultipleSpaces, Message: Messages[KindMultipleSpaces]}
	ErrMissingValue             = &ParseError{Kind: KindMissingValue, Message: "Missing value"}
	ErrDuplicateKeyword         = &ParseError{Kind: KindDuplicateKeyword, Message: "Duplicate keyword found"}
	ErrUnknownKeyword           = &ParseError{Kind: KindUnknownKeyword, Message: "Unknown keyword or invalid syntax"}
)

// ParseError reports the first grammar violation found in a statement.
type ParseError struct {
	Kind    ErrorKind
	Message string
	// Segment is the index of the offending pipe-delimited segment, or -1 when
	// the violation concerns the statement as a whole.
	Segment int
	Snippet string
}

// Error returns the canonical message, which is what callers show to users.
func (e *ParseError) Error() string {
	return e.Message
}

func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind ErrorKind, seg *segment) *ParseError {
	e := &ParseError{Kind: kind, Message: Messages[kind], Segment: -1}
	if seg != nil {
		e.Segment = seg.index
		e.Snippet = seg.text
	}
	return e
}

func missingValueError(kw Keyword, seg *segment) *ParseError {
	e := newError(KindMissingValue, seg)
	e.Message = fmt.Sprintf("Missing %s value", kw)
	return e
}

func duplicateKeywordError(kw Keyword, seg *segment) *ParseError {
	e := newError(KindDuplicateKeyword, seg)
	e.Message = fmt.Sprintf("Duplicate %s keyword found", kw)
	return e
}

func unknownKeywordError(seg *segment) *ParseError {
	e := newError(KindUnknownKeyword, seg)
	e.Message = "Unknown keyword or invalid syntax: " + seg.text
	return e
}
