package capture

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/reqline/packages/core/executor"
	"github.com/abdul-hamid-achik/reqline/packages/core/parser"
	"github.com/tidwall/gjson"
)

// Source is the root a selector reads from.
type Source string

const (
	SourceStatus   Source = "status"
	SourceDuration Source = "duration"
	SourceURL      Source = "url"
	SourceBody     Source = "body"
	SourceHeaders  Source = "headers"
	SourceQuery    Source = "query"
)

// Selector is a parsed "<source>[.<path>]" expression.
type Selector struct {
	Source Source
	Path   string
}

// ParseSelector splits expr at its first dot.
func ParseSelector(expr string) (*Selector, error) {
	expr = strings.TrimSpace(expr)
	root, path, _ := strings.Cut(expr, ".")

	switch src := Source(root); src {
	case SourceStatus, SourceDuration, SourceURL:
		if path != "" {
			return nil, fmt.Errorf("selector %q: %s takes no path", expr, src)
		}
		return &Selector{Source: src}, nil
	case SourceBody, SourceHeaders, SourceQuery:
		return &Selector{Source: src, Path: path}, nil
	default:
		return nil, fmt.Errorf("unknown selector source %q", root)
	}
}

type Extractor struct {
	result   *executor.Result
	bodyJSON gjson.Result
}

func NewExtractor(result *executor.Result) *Extractor {
	e := &Extractor{
		result: result,
	}
	if raw, ok := result.Response.ResponseData.(json.RawMessage); ok {
		e.bodyJSON = gjson.ParseBytes(raw)
	}
	return e
}

func (e *Extractor) Extract(sel *Selector) (any, bool) {
	switch sel.Source {
	case SourceStatus:
		return e.result.Response.HTTPStatus, true
	case SourceDuration:
		return e.result.Response.Duration, true
	case SourceURL:
		return e.result.Request.FullURL, true
	case SourceBody:
		return e.extractFromBody(sel.Path)
	case SourceHeaders:
		return extractFromObject(e.result.Request.Headers, sel.Path)
	case SourceQuery:
		return extractFromObject(e.result.Request.Query, sel.Path)
	default:
		return nil, false
	}
}

func (e *Extractor) extractFromBody(path string) (any, bool) {
	if !e.bodyJSON.Exists() {
		if path == "" {
			return e.result.Response.ResponseData, true
		}
		return nil, false
	}

	if path == "" {
		return e.bodyJSON.Value(), true
	}

	result := e.bodyJSON.Get(path)
	if !result.Exists() {
		return nil, false
	}
	return result.Value(), true
}

func extractFromObject(obj *parser.Object, path string) (any, bool) {
	if obj == nil {
		return nil, false
	}
	if path == "" {
		return obj.Map(), true
	}
	result := gjson.Get(obj.String(), path)
	if !result.Exists() {
		return nil, false
	}
	return result.Value(), true
}

// Select parses expr and extracts it from result in one step.
func Select(result *executor.Result, expr string) (any, error) {
	sel, err := ParseSelector(expr)
	if err != nil {
		return nil, err
	}
	value, ok := NewExtractor(result).Extract(sel)
	if !ok {
		return nil, fmt.Errorf("selector %q matched nothing", expr)
	}
	return value, nil
}

// Format renders a selected value for printing: strings as is, everything else
// as compact JSON.
func Format(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(data)
}
