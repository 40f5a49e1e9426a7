package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var errNotObject = errors.New("value is not a JSON object")

// Object is a JSON object that keeps its keys in the order they were first
// written. A repeated key keeps its original position and takes the later value.
type Object struct {
	keys   []string
	values map[string]json.RawMessage
}

func NewObject() *Object {
	return &Object{values: make(map[string]json.RawMessage)}
}

// ParseObject decodes raw JSON text. Anything other than a well-formed JSON
// object is rejected.
func ParseObject(raw string) (*Object, error) {
	if !gjson.Valid(raw) {
		return nil, errors.New("invalid JSON")
	}
	result := gjson.Parse(raw)
	if !result.IsObject() {
		return nil, errNotObject
	}

	obj := NewObject()
	result.ForEach(func(key, value gjson.Result) bool {
		obj.Set(key.String(), json.RawMessage(value.Raw))
		return true
	})
	return obj, nil
}

// Set stores raw under key.
func (o *Object) Set(key string, raw json.RawMessage) {
	if o.values == nil {
		o.values = make(map[string]json.RawMessage)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = raw
}

// SetString stores a JSON string value under key.
func (o *Object) SetString(key, value string) {
	raw, _ := json.Marshal(value)
	o.Set(key, raw)
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Get returns the raw JSON stored under key.
func (o *Object) Get(key string) (json.RawMessage, bool) {
	if o == nil {
		return nil, false
	}
	raw, ok := o.values[key]
	return raw, ok
}

// Value returns the decoded value stored under key.
func (o *Object) Value(key string) (any, bool) {
	raw, ok := o.Get(key)
	if !ok {
		return nil, false
	}
	return gjson.ParseBytes(raw).Value(), true
}

// Text returns the value under key the way a browser stringifies it:
// strings without quotes, numbers in shortest form, arrays joined by commas
// and objects as "[object Object]".
func (o *Object) Text(key string) string {
	raw, ok := o.Get(key)
	if !ok {
		return ""
	}
	return textValue(gjson.ParseBytes(raw))
}

func textValue(result gjson.Result) string {
	switch {
	case result.Type == gjson.String:
		return result.Str
	case result.Type == gjson.Number:
		return numberText(result.Num)
	case result.Type == gjson.True:
		return "true"
	case result.Type == gjson.False:
		return "false"
	case result.Type == gjson.Null:
		return "null"
	case result.IsArray():
		elems := result.Array()
		parts := make([]string, len(elems))
		for i, e := range elems {
			// null elements join as empty strings
			if e.Type != gjson.Null {
				parts[i] = textValue(e)
			}
		}
		return strings.Join(parts, ",")
	case result.IsObject():
		return "[object Object]"
	}
	return result.Raw
}

// numberText formats f in fixed notation between 1e-6 and 1e21 and in
// exponent notation ("1e+21", "1.5e-7") outside that range.
func numberText(f float64) string {
	abs := math.Abs(f)
	if abs == 0 {
		return "0"
	}
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + digits
}

// formEscaper adjusts url.QueryEscape output to the form-urlencoded byte
// set, where '*' is kept and '~' is escaped.
var formEscaper = strings.NewReplacer("~", "%7E", "%2A", "*")

func formEscape(s string) string {
	return formEscaper.Replace(url.QueryEscape(s))
}

// Encode returns the object as an application/x-www-form-urlencoded string,
// keeping insertion order.
func (o *Object) Encode() string {
	if o.Len() == 0 {
		return ""
	}
	pairs := make([]string, 0, len(o.keys))
	for _, k := range o.keys {
		pairs = append(pairs, formEscape(k)+"="+formEscape(textValue(gjson.ParseBytes(o.values[k]))))
	}
	return strings.Join(pairs, "&")
}

// Map returns the decoded object. Key order is lost.
func (o *Object) Map() map[string]any {
	m := make(map[string]any, o.Len())
	for _, k := range o.Keys() {
		m[k], _ = o.Value(k)
	}
	return m
}

// Equal reports whether both objects hold the same keys, in the same order,
// with equivalent values.
func (o *Object) Equal(other *Object) bool {
	if o.Len() != other.Len() {
		return false
	}
	for i, k := range o.Keys() {
		if other.keys[i] != k {
			return false
		}
		if compact(o.values[k]) != compact(other.values[k]) {
			return false
		}
	}
	return true
}

func (o *Object) String() string {
	data, _ := o.MarshalJSON()
	return string(data)
}

func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(compact(o.values[k]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o *Object) UnmarshalJSON(data []byte) error {
	parsed, err := ParseObject(string(data))
	if err != nil {
		return err
	}
	*o = *parsed
	return nil
}

func compact(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
