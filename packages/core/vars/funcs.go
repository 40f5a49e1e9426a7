package vars

import (
	"encoding/base64"
	"fmt"
	"math/rand/v2"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Func is a built-in placeholder function.
type Func func(args []string) (string, error)

// Funcs is the registry of built-in functions available as {{name(args)}}.
type Funcs struct {
	funcs map[string]Func
	now   func() time.Time
	rand  *rand.Rand
}

type FuncsOption func(*Funcs)

// WithNow replaces the clock used by the time functions.
func WithNow(now func() time.Time) FuncsOption {
	return func(f *Funcs) {
		f.now = now
	}
}

// WithRand replaces the random source used by random and randomString.
func WithRand(r *rand.Rand) FuncsOption {
	return func(f *Funcs) {
		f.rand = r
	}
}

func NewFuncs(opts ...FuncsOption) *Funcs {
	f := &Funcs{
		funcs: make(map[string]Func),
		now:   time.Now,
		rand:  rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.registerDefaults()
	return f
}

func (f *Funcs) registerDefaults() {
	f.funcs["uuid"] = func([]string) (string, error) { return uuid.NewString(), nil }
	f.funcs["now"] = func([]string) (string, error) { return f.now().UTC().Format(time.RFC3339), nil }
	f.funcs["timestamp"] = func([]string) (string, error) { return strconv.FormatInt(f.now().Unix(), 10), nil }
	f.funcs["timestampMs"] = func([]string) (string, error) { return strconv.FormatInt(f.now().UnixMilli(), 10), nil }
	f.funcs["date"] = f.date
	f.funcs["random"] = f.random
	f.funcs["randomString"] = f.randomString
	f.funcs["base64"] = oneArg(func(s string) (string, error) {
		return base64.StdEncoding.EncodeToString([]byte(s)), nil
	})
	f.funcs["urlEncode"] = oneArg(func(s string) (string, error) {
		return url.QueryEscape(s), nil
	})
}

// Register adds or replaces a function.
func (f *Funcs) Register(name string, fn Func) {
	f.funcs[name] = fn
}

var funcCallPattern = regexp.MustCompile(`^(\w+)\((.*)\)$`)

// Call evaluates expr, e.g. `random(1, 10)`. ok is false when expr is not a
// call of a registered function.
func (f *Funcs) Call(expr string) (value string, ok bool, err error) {
	matches := funcCallPattern.FindStringSubmatch(expr)
	if matches == nil {
		return "", false, nil
	}

	fn, found := f.funcs[matches[1]]
	if !found {
		return "", false, nil
	}

	var args []string
	if strings.TrimSpace(matches[2]) != "" {
		args = parseArgs(matches[2])
	}

	value, err = fn(args)
	if err != nil {
		return "", true, fmt.Errorf("%s(): %w", matches[1], err)
	}
	return value, true, nil
}

func parseArgs(s string) []string {
	var (
		args      []string
		current   strings.Builder
		inQuote   bool
		quoteChar byte
	)

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case !inQuote && (ch == '"' || ch == '\''):
			inQuote = true
			quoteChar = ch
		case inQuote && ch == quoteChar:
			inQuote = false
		case !inQuote && ch == ',':
			args = append(args, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	args = append(args, strings.TrimSpace(current.String()))
	return args
}

func oneArg(fn func(string) (string, error)) Func {
	return func(args []string) (string, error) {
		if len(args) != 1 {
			return "", fmt.Errorf("expected 1 argument, got %d", len(args))
		}
		return fn(args[0])
	}
}

func (f *Funcs) date(args []string) (string, error) {
	layout := "2006-01-02"
	if len(args) >= 1 {
		layout = args[0]
	}
	return f.now().UTC().Format(layout), nil
}

func (f *Funcs) random(args []string) (string, error) {
	lo, hi := 0, 100
	if len(args) >= 2 {
		var err error
		if lo, err = strconv.Atoi(args[0]); err != nil {
			return "", fmt.Errorf("min %q is not an integer", args[0])
		}
		if hi, err = strconv.Atoi(args[1]); err != nil {
			return "", fmt.Errorf("max %q is not an integer", args[1])
		}
	}
	if hi < lo {
		return "", fmt.Errorf("max %d is below min %d", hi, lo)
	}
	return strconv.Itoa(f.rand.IntN(hi-lo+1) + lo), nil
}

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func (f *Funcs) randomString(args []string) (string, error) {
	length := 16
	if len(args) >= 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return "", fmt.Errorf("length %q is not a positive integer", args[0])
		}
		length = n
	}

	out := make([]byte, length)
	for i := range out {
		out[i] = alphanumeric[f.rand.IntN(len(alphanumeric))]
	}
	return string(out), nil
}
