package keygram

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

type undefined struct{}

func (undefined) String() string { return "undefined" }

// Undefined is the decoded value of the "undefined" token. It is distinct
// from nil, which "null" decodes to.
var Undefined any = undefined{}

var (
	decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	prefixLiteral  = regexp.MustCompile(`^0([xX][0-9a-fA-F]+|[oO][0-7]+|[bB][01]+)$`)
)

// DecodeArg turns one callback token back into a typed value.
//
// Literal tokens win over numbers, numbers win over strings:
//
//	"false", "true"  -> bool
//	"null"           -> nil
//	"undefined"      -> Undefined
//	"NaN"            -> math.NaN()
//	"Infinity"       -> math.Inf(1)
//	"42", "-1.5e3"   -> float64
//	anything else    -> string
func DecodeArg(token string) any {
	switch token {
	case "false":
		return false
	case "true":
		return true
	case "undefined":
		return Undefined
	case "NaN":
		return math.NaN()
	case "null":
		return nil
	case "Infinity":
		return math.Inf(1)
	}
	if f, ok := parseNumber(token); ok {
		return f
	}
	return token
}

// parseNumber accepts the number syntax of the button producer, which is
// narrower than strconv: no "inf", "nan" or digit separators.
func parseNumber(s string) (float64, bool) {
	switch s {
	case "":
		return 0, false
	case "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}
	if decimalLiteral.MatchString(s) {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			// Out of range parses to ±Inf with ErrRange, which is still a number.
			if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
				return f, true
			}
			return 0, false
		}
		return f, true
	}
	if prefixLiteral.MatchString(s) {
		u, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return 0, false
		}
		return float64(u), true
	}
	return 0, false
}

// Args are decoded callback arguments in payload order.
type Args []any

// DecodeArgs decodes every token with DecodeArg.
func DecodeArgs(tokens []string) Args {
	if len(tokens) == 0 {
		return nil
	}
	args := make(Args, len(tokens))
	for i, t := range tokens {
		args[i] = DecodeArg(t)
	}
	return args
}

// Len returns the number of arguments.
func (a Args) Len() int { return len(a) }

// Value returns the i-th argument or Undefined when out of range.
func (a Args) Value(i int) any {
	if i < 0 || i >= len(a) {
		return Undefined
	}
	return a[i]
}

// Float returns the i-th argument as a number.
func (a Args) Float(i int) (float64, bool) {
	f, ok := a.Value(i).(float64)
	return f, ok
}

// Int returns the i-th argument as an integer. Non-integral numbers fail.
func (a Args) Int(i int) (int64, bool) {
	f, ok := a.Float(i)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}

// Bool returns the i-th argument as a boolean.
func (a Args) Bool(i int) (bool, bool) {
	b, ok := a.Value(i).(bool)
	return b, ok
}

// String returns the i-th argument when it decoded to a string.
func (a Args) String(i int) (string, bool) {
	s, ok := a.Value(i).(string)
	return s, ok
}

// IsNull reports whether the i-th argument decoded from "null".
func (a Args) IsNull(i int) bool {
	return i >= 0 && i < len(a) && a[i] == nil
}

// IsUndefined reports whether the i-th argument is Undefined or missing.
func (a Args) IsUndefined(i int) bool {
	return a.Value(i) == Undefined
}

// EncodeArg renders a value as a callback token. The mapping is loose:
// the string "true" and the boolean true encode identically.
func EncodeArg(v any) (string, error) {
	var s string
	switch x := v.(type) {
	case nil:
		s = "null"
	case undefined:
		s = "undefined"
	case string:
		s = x
	case bool:
		s = strconv.FormatBool(x)
	case float64:
		s = formatNumber(x)
	case float32:
		s = formatNumber(float64(x))
	case int:
		s = strconv.Itoa(x)
	case int64:
		s = strconv.FormatInt(x, 10)
	case int32:
		s = strconv.FormatInt(int64(x), 10)
	case uint:
		s = strconv.FormatUint(uint64(x), 10)
	case uint64:
		s = strconv.FormatUint(x, 10)
	case fmt.Stringer:
		s = x.String()
	default:
		s = fmt.Sprint(x)
	}
	if strings.ContainsFunc(s, isSpace) {
		return "", fmt.Errorf("%w: %q contains whitespace", ErrInvalidArgument, s)
	}
	return s, nil
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// EncodeAction joins a handler name and its arguments into an unsigned
// callback body.
func EncodeAction(name string, args ...any) (string, error) {
	if name == "" || strings.ContainsFunc(name, isSpace) {
		return "", fmt.Errorf("%w: handler name %q", ErrInvalidArgument, name)
	}
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, a := range args {
		s, err := EncodeArg(a)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " "), nil
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
