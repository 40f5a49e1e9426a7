// Package curl converts curl command lines into reqline statements.
package curl

import (
	"bufio"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/abdul-hamid-achik/reqline/packages/core/parser"
	"github.com/google/shlex"
)

var (
	ErrNoURL             = errors.New("no URL found in curl command")
	ErrUnsupportedMethod = errors.New("only GET and POST can be expressed as a reqline")
	ErrBodyNotObject     = errors.New("request body must be a JSON object")
)

// ParsedCurl is the subset of a curl invocation reqline can express.
type ParsedCurl struct {
	Method  string
	URL     string
	Headers [][2]string
	Body    string
	User    string
	// Ignored lists the flags that were recognised but have no reqline
	// equivalent, such as -k or -L.
	Ignored []string
}

// Header returns the last value set for name, compared case-insensitively.
func (p *ParsedCurl) Header(name string) string {
	value := ""
	for _, h := range p.Headers {
		if strings.EqualFold(h[0], name) {
			value = h[1]
		}
	}
	return value
}

// Conversion is one converted curl command.
type Conversion struct {
	Statement string
	Ignored   []string
}

// Convert turns a single curl command into a reqline statement. The result is
// checked with the reqline parser before it is returned.
func Convert(curlCmd string) (*Conversion, error) {
	parsed, err := Parse(curlCmd)
	if err != nil {
		return nil, err
	}
	req, err := ToRequest(parsed)
	if err != nil {
		return nil, err
	}

	stmt := req.String()
	if _, err := parser.Parse(stmt); err != nil {
		return nil, fmt.Errorf("converted statement is not valid: %w", err)
	}
	return &Conversion{Statement: stmt, Ignored: parsed.Ignored}, nil
}

// ConvertAll converts every command in r. Commands may span lines with a
// trailing backslash; blank lines and # comments are skipped.
func ConvertAll(r io.Reader) ([]*Conversion, error) {
	var (
		commands []string
		current  strings.Builder
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasSuffix(line, "\\") {
			current.WriteString(strings.TrimSuffix(line, "\\"))
			current.WriteString(" ")
			continue
		}

		current.WriteString(line)
		commands = append(commands, current.String())
		current.Reset()
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read commands: %w", err)
	}
	if current.Len() > 0 {
		commands = append(commands, current.String())
	}

	out := make([]*Conversion, 0, len(commands))
	for i, cmd := range commands {
		conv, err := Convert(cmd)
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i+1, err)
		}
		out = append(out, conv)
	}
	return out, nil
}

// Parse reads a curl command line.
func Parse(curlCmd string) (*ParsedCurl, error) {
	parsed := &ParsedCurl{Method: "GET"}

	curlCmd = strings.TrimSpace(curlCmd)
	if curlCmd == "curl" {
		return nil, ErrNoURL
	}
	curlCmd = strings.TrimPrefix(curlCmd, "curl ")

	tokens, err := shlex.Split(curlCmd)
	if err != nil {
		return nil, fmt.Errorf("invalid command line: %w", err)
	}
	methodSet := false

	for i := 0; i < len(tokens); i++ {
		token := tokens[i]

		value := func() (string, error) {
			if i+1 >= len(tokens) {
				return "", fmt.Errorf("missing value for %s", token)
			}
			i++
			return tokens[i], nil
		}

		switch token {
		case "-X", "--request":
			v, err := value()
			if err != nil {
				return nil, err
			}
			parsed.Method = strings.ToUpper(v)
			methodSet = true

		case "-H", "--header":
			v, err := value()
			if err != nil {
				return nil, err
			}
			if name, val, ok := strings.Cut(v, ":"); ok {
				parsed.Headers = append(parsed.Headers, [2]string{strings.TrimSpace(name), strings.TrimSpace(val)})
			}

		case "-d", "--data", "--data-raw", "--data-binary", "--json":
			v, err := value()
			if err != nil {
				return nil, err
			}
			parsed.Body = v
			if !methodSet {
				parsed.Method = "POST"
			}
			if token == "--json" {
				parsed.Headers = append(parsed.Headers, [2]string{"Content-Type", "application/json"})
			}

		case "-u", "--user":
			v, err := value()
			if err != nil {
				return nil, err
			}
			parsed.User = v

		case "-A", "--user-agent":
			v, err := value()
			if err != nil {
				return nil, err
			}
			parsed.Headers = append(parsed.Headers, [2]string{"User-Agent", v})

		case "-e", "--referer":
			v, err := value()
			if err != nil {
				return nil, err
			}
			parsed.Headers = append(parsed.Headers, [2]string{"Referer", v})

		case "-b", "--cookie":
			v, err := value()
			if err != nil {
				return nil, err
			}
			parsed.Headers = append(parsed.Headers, [2]string{"Cookie", v})

		case "-G", "--get":
			parsed.Method = "GET"
			methodSet = true

		case "-k", "--insecure", "-L", "--location", "--compressed", "-s", "--silent", "-v", "--verbose", "-i", "--include":
			parsed.Ignored = append(parsed.Ignored, token)

		case "--url":
			v, err := value()
			if err != nil {
				return nil, err
			}
			parsed.URL = v

		default:
			if strings.HasPrefix(token, "-") {
				parsed.Ignored = append(parsed.Ignored, token)
				// Unknown flags may take a value; skip it unless it looks like the URL.
				if i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "-") && !isURL(tokens[i+1]) {
					i++
				}
				continue
			}
			if parsed.URL == "" && isURL(token) {
				parsed.URL = token
			}
		}
	}

	if parsed.URL == "" {
		return nil, ErrNoURL
	}
	return parsed, nil
}

// ToRequest maps a parsed curl command onto a reqline request. A query string
// in the URL becomes the QUERY section.
func ToRequest(p *ParsedCurl) (*parser.Request, error) {
	req := &parser.Request{
		Headers: parser.NewObject(),
		Query:   parser.NewObject(),
		Body:    parser.NewObject(),
	}

	switch parser.Method(p.Method) {
	case parser.MethodGet, parser.MethodPost:
		req.Method = parser.Method(p.Method)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, p.Method)
	}

	base, rawQuery, _ := strings.Cut(p.URL, "?")
	base, _, _ = strings.Cut(base, "#")
	req.URL = base
	if rawQuery != "" {
		rawQuery, _, _ = strings.Cut(rawQuery, "#")
		for _, pair := range strings.Split(rawQuery, "&") {
			if pair == "" {
				continue
			}
			k, v, _ := strings.Cut(pair, "=")
			key, err := url.QueryUnescape(k)
			if err != nil {
				return nil, fmt.Errorf("invalid query key %q: %w", k, err)
			}
			val, err := url.QueryUnescape(v)
			if err != nil {
				return nil, fmt.Errorf("invalid query value %q: %w", v, err)
			}
			req.Query.SetString(key, val)
		}
	}

	for _, h := range p.Headers {
		req.Headers.SetString(h[0], h[1])
	}
	if p.User != "" && p.Header("Authorization") == "" {
		req.Headers.SetString("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(p.User)))
	}

	if p.Body != "" {
		body, err := parser.ParseObject(p.Body)
		if err != nil {
			return nil, ErrBodyNotObject
		}
		req.Body = body
	}

	req.FullURL = req.BuildFullURL()
	return req, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "{{")
}
