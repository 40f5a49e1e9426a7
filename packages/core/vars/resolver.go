package vars

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
)

var placeholderPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Resolver substitutes placeholders. It is safe for concurrent use.
type Resolver struct {
	mu        sync.RWMutex
	variables map[string]string
	captures  map[string]string
	funcs     *Funcs
	lookupEnv func(string) (string, bool)
}

type ResolverOption func(*Resolver)

func WithFuncs(f *Funcs) ResolverOption {
	return func(r *Resolver) {
		r.funcs = f
	}
}

// WithLookupEnv replaces os.LookupEnv for {{$NAME}} placeholders.
func WithLookupEnv(fn func(string) (string, bool)) ResolverOption {
	return func(r *Resolver) {
		r.lookupEnv = fn
	}
}

func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		variables: make(map[string]string),
		captures:  make(map[string]string),
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.funcs == nil {
		r.funcs = NewFuncs()
	}
	return r
}

func (r *Resolver) SetVariables(vars map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range vars {
		r.variables[k] = v
	}
}

func (r *Resolver) SetVariable(name, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variables[name] = value
}

// SetCapture stores a value taken from an earlier response. Captures shadow
// variables of the same name.
func (r *Resolver) SetCapture(name, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.captures[name] = value
}

func (r *Resolver) Lookup(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if v, ok := r.captures[name]; ok {
		return v, true
	}
	v, ok := r.variables[name]
	return v, ok
}

// Resolution is the outcome of resolving one input.
type Resolution struct {
	Text       string
	Unresolved []string
}

// Resolve replaces every placeholder in input. Unknown names are kept as
// written and listed in Unresolved. A failing function call is an error.
func (r *Resolver) Resolve(input string) (*Resolution, error) {
	res := &Resolution{}
	var firstErr error

	res.Text = placeholderPattern.ReplaceAllStringFunc(input, func(match string) string {
		expr := strings.TrimSpace(match[2 : len(match)-2])

		if name, ok := strings.CutPrefix(expr, "$"); ok {
			if val, found := r.lookupEnv(name); found {
				return val
			}
			res.Unresolved = append(res.Unresolved, expr)
			return match
		}

		if strings.Contains(expr, "(") {
			val, ok, err := r.funcs.Call(expr)
			if err != nil && firstErr == nil {
				firstErr = err
			}
			if ok && err == nil {
				return val
			}
			if !ok {
				res.Unresolved = append(res.Unresolved, expr)
			}
			return match
		}

		if val, ok := r.Lookup(expr); ok {
			return val
		}
		res.Unresolved = append(res.Unresolved, expr)
		return match
	})

	if firstErr != nil {
		return nil, fmt.Errorf("failed to resolve placeholder: %w", firstErr)
	}
	return res, nil
}

// HasPlaceholders reports whether input contains any {{...}} placeholder.
func HasPlaceholders(input string) bool {
	return placeholderPattern.MatchString(input)
}
