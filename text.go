package keygram

import (
	"fmt"
	"regexp"
)

// TextTable is an ordered list of text handlers. The first pattern that
// matches a message wins and later entries are not evaluated.
type TextTable struct {
	entries []textEntry
}

// On appends a handler. pattern is a string compiled as a regular
// expression or a *regexp.Regexp used as-is.
// Panics on any other type or an invalid expression, since On is called at setup time.
func (t *TextTable) On(pattern any, h HandlerFunc, m ...MiddlewareFunc) {
	var re *regexp.Regexp
	switch p := pattern.(type) {
	case string:
		re = regexp.MustCompile(p)
	case *regexp.Regexp:
		re = p
	default:
		panic(fmt.Sprintf("keygram: unsupported text pattern type %T", pattern))
	}
	t.entries = append(t.entries, textEntry{
		re:         re,
		handler:    h,
		middleware: m,
	})
}

// Len returns the number of registered handlers.
func (t *TextTable) Len() int { return len(t.entries) }

// Match returns the handler of the first pattern matching text, wrapped in
// its middleware, and that pattern. h is nil when nothing matches.
func (t *TextTable) Match(text string) (pattern string, h HandlerFunc) {
	for _, e := range t.entries {
		if e.re.MatchString(text) {
			return e.re.String(), applyMiddleware(e.handler, e.middleware...)
		}
	}
	return "", nil
}
