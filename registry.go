package keygram

import (
	"fmt"
	"reflect"
	"regexp"
	"runtime"
	"strings"
)

// closureSymbol matches runtime symbols of function literals,
// e.g. "main.main.func1" or "pkg.Outer.func2.1".
var closureSymbol = regexp.MustCompile(`\.func\d+(\.\d+)*$`)

// Registry maps callback handler names to handlers.
//
// Names are what button payloads carry, so they must stay stable across
// restarts: a button sent by a previous process still names its handler.
type Registry struct {
	handlers      map[string]*callbackEntry
	requireNames  bool
	allowOverride bool
}

// NewRegistry returns an empty registry. With requireNames set, anonymous
// functions are rejected by RegisterFunc. With allowOverride unset, a second
// registration under an existing name fails.
func NewRegistry(requireNames, allowOverride bool) *Registry {
	return &Registry{
		handlers:      make(map[string]*callbackEntry),
		requireNames:  requireNames,
		allowOverride: allowOverride,
	}
}

// Register binds fn to name. The name must be a single non-empty token.
func (r *Registry) Register(name string, fn CallbackFunc, m ...MiddlewareFunc) error {
	if name == "" || strings.ContainsFunc(name, isSpace) {
		return fmt.Errorf("%w: handler name %q", ErrInvalidArgument, name)
	}
	if fn == nil {
		return fmt.Errorf("keygram: handler %q is nil", name)
	}
	if _, ok := r.handlers[name]; ok && !r.allowOverride {
		return fmt.Errorf("%w: %q", ErrHandlerOverride, name)
	}
	r.handlers[name] = &callbackEntry{fn: fn, middleware: m}
	return nil
}

// RegisterFunc registers each function under the name of its symbol.
// Function literals have no such name: they fail with ErrNamelessHandler
// when names are required and register under their runtime symbol otherwise.
func (r *Registry) RegisterFunc(fns ...CallbackFunc) error {
	for _, fn := range fns {
		name, named := HandlerName(fn)
		if !named && r.requireNames {
			return fmt.Errorf("%w: %s", ErrNamelessHandler, name)
		}
		if err := r.Register(name, fn); err != nil {
			return err
		}
	}
	return nil
}

// Has reports whether a handler is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.handlers[name]
	return ok
}

// Invoke runs the handler registered under name. Unknown names run nothing
// and report false: buttons from an earlier run may reference handlers that
// no longer exist.
func (r *Registry) Invoke(c Context, name string, args Args) (bool, error) {
	entry, ok := r.handlers[name]
	if !ok {
		return false, nil
	}
	h := applyMiddleware(func(c Context) error {
		return entry.fn(c, args)
	}, entry.middleware...)
	return true, h(c)
}

// HandlerName returns the name a callback function registers under.
// The bool is false for function literals; the returned string is then the
// runtime symbol. Instantiations of a generic function share its name.
func HandlerName(fn CallbackFunc) (string, bool) {
	if fn == nil {
		return "", false
	}
	f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if f == nil {
		return "", false
	}
	symbol := strings.ReplaceAll(f.Name(), "[...]", "")
	if i := strings.LastIndexByte(symbol, '/'); i >= 0 {
		symbol = symbol[i+1:]
	}
	if closureSymbol.MatchString(symbol) {
		return symbol, false
	}
	name := strings.TrimSuffix(symbol, "-fm")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name, name != ""
}
