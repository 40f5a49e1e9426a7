package parser

import (
	"strings"
)

type Method string

const (
	MethodGet  Method = "GET"
	MethodPost Method = "POST"
)

// Methods lists the methods a reqline may use, in canonical form.
var Methods = []Method{MethodGet, MethodPost}

func (m Method) String() string {
	return string(m)
}

// Lower returns the method the way it is handed to the transport.
func (m Method) Lower() string {
	return strings.ToLower(string(m))
}

type Keyword string

const (
	KeywordHTTP    Keyword = "HTTP"
	KeywordURL     Keyword = "URL"
	KeywordHeaders Keyword = "HEADERS"
	KeywordQuery   Keyword = "QUERY"
	KeywordBody    Keyword = "BODY"
)

// Request is a parsed reqline statement.
type Request struct {
	Method  Method
	URL     string
	Headers *Object
	Query   *Object
	Body    *Object
	FullURL string
}

func newRequest() *Request {
	return &Request{
		Headers: NewObject(),
		Query:   NewObject(),
		Body:    NewObject(),
	}
}

// BuildFullURL returns URL with the query object appended as a form-encoded
// query string. Without query entries it returns URL unchanged.
func (r *Request) BuildFullURL() string {
	if r.Query == nil || r.Query.Len() == 0 {
		return r.URL
	}
	return r.URL + "?" + r.Query.Encode()
}

// HasBody reports whether the request carries a body that should be sent.
func (r *Request) HasBody() bool {
	return r.Method == MethodPost && r.Body != nil && r.Body.Len() > 0
}

// String renders the request back into reqline syntax. Empty objects are
// omitted.
func (r *Request) String() string {
	var b strings.Builder
	b.WriteString(string(KeywordHTTP) + " " + string(r.Method))
	b.WriteString(Delimiter + string(KeywordURL) + " " + r.URL)

	sections := []struct {
		keyword Keyword
		value   *Object
	}{
		{KeywordHeaders, r.Headers},
		{KeywordQuery, r.Query},
		{KeywordBody, r.Body},
	}
	for _, s := range sections {
		if s.value == nil || s.value.Len() == 0 {
			continue
		}
		b.WriteString(Delimiter + string(s.keyword) + " " + s.value.String())
	}
	return b.String()
}
