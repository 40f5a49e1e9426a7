package parser

import (
	"regexp"
	"strings"
)

// Delimiter separates segments in a well-formed statement.
const Delimiter = " | "

const pipe = "|"

var (
	httpSegmentPattern = regexp.MustCompile(`^HTTP\s+(.+)$`)
	// An uppercase run followed by more letters, e.g. URLhttps://...
	gluedKeywordPattern = regexp.MustCompile(`^[A-Z]+[a-zA-Z]`)
)

type segment struct {
	index int
	raw   string
	text  string
}

// section describes one "<KEYWORD> <value>" segment. Sections with a jsonKind
// carry a JSON object; the others carry plain text.
type section struct {
	keyword  Keyword
	jsonKind ErrorKind
	assign   func(req *Request, text string, obj *Object)
}

var sections = []section{
	{
		keyword: KeywordURL,
		assign:  func(req *Request, text string, _ *Object) { req.URL = text },
	},
	{
		keyword:  KeywordHeaders,
		jsonKind: KindInvalidHeadersJSON,
		assign:   func(req *Request, _ string, obj *Object) { req.Headers = obj },
	},
	{
		keyword:  KeywordQuery,
		jsonKind: KindInvalidQueryJSON,
		assign:   func(req *Request, _ string, obj *Object) { req.Query = obj },
	},
	{
		keyword:  KeywordBody,
		jsonKind: KindInvalidBodyJSON,
		assign:   func(req *Request, _ string, obj *Object) { req.Body = obj },
	},
}

// match reports whether text is this section's keyword, returning whatever
// follows the keyword and its separating space.
func (s section) match(text string) (string, bool) {
	kw := string(s.keyword)
	if text == kw {
		return "", true
	}
	if strings.HasPrefix(text, kw+" ") {
		return text[len(kw)+1:], true
	}
	return "", false
}

type Parser struct {
	input string
	req   *Request
	seen  map[Keyword]bool
}

func NewParser(input string) *Parser {
	return &Parser{input: input}
}

// Parse parses a single reqline statement. Every rejection is a *ParseError.
func Parse(input string) (*Request, error) {
	return NewParser(input).Parse()
}

func (p *Parser) Parse() (*Request, error) {
	p.req = newRequest()
	p.seen = make(map[Keyword]bool)

	if !strings.HasPrefix(p.input, string(KeywordHTTP)+" ") {
		return nil, newError(KindMissingHTTPKeyword, nil)
	}

	segments := splitSegments(p.input)
	if len(segments) < 2 {
		return nil, newError(KindMissingURLKeyword, nil)
	}

	if err := checkSpacing(segments); err != nil {
		return nil, err
	}

	if err := p.parseMethod(segments[0]); err != nil {
		return nil, err
	}

	for _, seg := range segments[1:] {
		if err := p.parseSegment(seg); err != nil {
			return nil, err
		}
	}

	if !p.seen[KeywordURL] {
		return nil, newError(KindMissingURLKeyword, nil)
	}

	p.req.FullURL = p.req.BuildFullURL()
	return p.req, nil
}

func splitSegments(input string) []*segment {
	parts := strings.Split(input, pipe)
	segments := make([]*segment, len(parts))
	for i, part := range parts {
		segments[i] = &segment{
			index: i,
			raw:   part,
			text:  strings.TrimSpace(part),
		}
	}
	return segments
}

// checkSpacing enforces a space on both sides of every pipe.
func checkSpacing(segments []*segment) error {
	last := len(segments) - 1
	for i, seg := range segments {
		if i > 0 && !strings.HasPrefix(seg.raw, " ") {
			return newError(KindInvalidSpacing, seg)
		}
		if i < last && !strings.HasSuffix(seg.raw, " ") {
			return newError(KindInvalidSpacing, seg)
		}
	}
	return nil
}

func (p *Parser) parseMethod(seg *segment) error {
	m := httpSegmentPattern.FindStringSubmatch(seg.text)
	if m == nil {
		return newError(KindMissingHTTPKeyword, seg)
	}

	method := Method(strings.TrimSpace(m[1]))
	if method != MethodGet && method != MethodPost {
		lower := strings.ToLower(string(method))
		for _, allowed := range Methods {
			if lower == allowed.Lower() {
				return newError(KindInvalidHTTPMethodCase, seg)
			}
		}
		return newError(KindInvalidHTTPMethod, seg)
	}

	// The untrimmed segment is checked so "HTTP GET  | ..." is caught too.
	if strings.Contains(seg.raw, "  ") {
		return newError(KindMultipleSpaces, seg)
	}

	p.req.Method = method
	p.seen[KeywordHTTP] = true
	return nil
}

func (p *Parser) parseSegment(seg *segment) error {
	if seg.text == "" {
		if !p.seen[KeywordURL] {
			return newError(KindMissingURLKeyword, seg)
		}
		e := newError(KindMissingValue, seg)
		e.Message = "Missing value after pipe delimiter"
		return e
	}

	for _, s := range sections {
		if value, ok := s.match(seg.text); ok {
			return p.parseSection(s, value, seg)
		}
	}

	if seg.text == string(KeywordHTTP) || strings.HasPrefix(seg.text, string(KeywordHTTP)+" ") {
		return duplicateKeywordError(KeywordHTTP, seg)
	}

	lower := strings.ToLower(seg.text)
	for _, s := range sections {
		if strings.HasPrefix(lower, strings.ToLower(string(s.keyword))+" ") {
			return newError(KindKeywordsMustBeUppercase, seg)
		}
	}

	if gluedKeywordPattern.MatchString(seg.text) {
		return newError(KindMissingSpaceAfterKeyword, seg)
	}

	return unknownKeywordError(seg)
}

// parseSection applies the checks shared by every "<KEYWORD> <value>" segment:
// uniqueness, a non-empty value, single spacing and, for JSON sections, a
// decodable object.
func (p *Parser) parseSection(s section, value string, seg *segment) error {
	if p.seen[s.keyword] {
		return duplicateKeywordError(s.keyword, seg)
	}
	if value == "" {
		return missingValueError(s.keyword, seg)
	}
	// Runs over the JSON text as well, so a string literal holding two
	// consecutive spaces is rejected here.
	if strings.Contains(seg.text, "  ") {
		return newError(KindMultipleSpaces, seg)
	}

	var obj *Object
	if s.jsonKind != "" {
		var err error
		obj, err = ParseObject(value)
		if err != nil {
			return newError(s.jsonKind, seg)
		}
	}

	s.assign(p.req, value, obj)
	p.seen[s.keyword] = true
	return nil
}
