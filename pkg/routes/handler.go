package routes

import (
	"net/http"
	"reflect"
	"regexp"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// ErrAnonymousHandler is returned for closures and other handlers that have no
// declaration to read documentation from
var ErrAnonymousHandler = errors.New("handler is anonymous")

// HandlerRef points at the declaration of a route handler
type HandlerRef struct {
	Package  string `json:"package" yaml:"package"`
	Receiver string `json:"receiver,omitempty" yaml:"receiver,omitempty"`
	Func     string `json:"func" yaml:"func"`
}

// Valid reports whether the reference names a declaration
func (h HandlerRef) Valid() bool {
	return h.Package != "" && h.Func != ""
}

func (h HandlerRef) String() string {
	if !h.Valid() {
		return ""
	}
	if h.Receiver != "" {
		return h.Package + ".(" + h.Receiver + ")." + h.Func
	}
	return h.Package + "." + h.Func
}

var (
	genericArgs  = regexp.MustCompile(`\[[^\[\]]*\]`)
	closurePart  = regexp.MustCompile(`^(func\d+|gowrap\d+|\d+|glob)$`)
	receiverWrap = strings.NewReplacer("(*", "", "(", "", ")", "")
)

// ParseHandlerName parses a runtime function name such as
// "example.com/shop/handlers.(*Users).List-fm" into a HandlerRef.
func ParseHandlerName(name string) (HandlerRef, error) {
	name = strings.TrimSuffix(strings.TrimSpace(name), "-fm")
	for genericArgs.MatchString(name) {
		name = genericArgs.ReplaceAllString(name, "")
	}
	if name == "" {
		return HandlerRef{}, errors.New("empty handler name")
	}

	slash := strings.LastIndex(name, "/")
	dot := strings.Index(name[slash+1:], ".")
	if dot < 0 {
		return HandlerRef{}, errors.Errorf("handler name %q has no package", name)
	}
	pkg := strings.ReplaceAll(name[:slash+1+dot], "%2e", ".")
	parts := strings.Split(name[slash+1+dot+1:], ".")

	for _, part := range parts {
		if closurePart.MatchString(part) {
			return HandlerRef{}, errors.Wrapf(ErrAnonymousHandler, "%s", name)
		}
	}

	switch len(parts) {
	case 1:
		return HandlerRef{Package: pkg, Func: parts[0]}, nil
	case 2:
		return HandlerRef{Package: pkg, Receiver: receiverWrap.Replace(parts[0]), Func: parts[1]}, nil
	default:
		return HandlerRef{}, errors.Wrapf(ErrAnonymousHandler, "%s", name)
	}
}

// RefOf resolves the declaration behind a handler value. Functions (including
// http.HandlerFunc and method values) resolve through the runtime symbol
// table; other http.Handler implementations resolve to their ServeHTTP method.
func RefOf(handler interface{}) (HandlerRef, error) {
	if handler == nil {
		return HandlerRef{}, errors.New("nil handler")
	}

	v := reflect.ValueOf(handler)
	if v.Kind() == reflect.Func {
		if v.IsNil() {
			return HandlerRef{}, errors.New("nil handler")
		}
		fn := runtime.FuncForPC(v.Pointer())
		if fn == nil {
			return HandlerRef{}, errors.New("handler has no symbol")
		}
		return ParseHandlerName(fn.Name())
	}

	if _, ok := handler.(http.Handler); !ok {
		return HandlerRef{}, errors.Errorf("unsupported handler type %T", handler)
	}

	t := v.Type()
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return HandlerRef{}, errors.Wrapf(ErrAnonymousHandler, "%T", handler)
	}
	return HandlerRef{Package: t.PkgPath(), Receiver: t.Name(), Func: "ServeHTTP"}, nil
}

// FuncName returns the symbol name of a function value with closure suffixes
// removed, so "middleware.Timeout.func1" reports as "middleware.Timeout".
func FuncName(fn interface{}) string {
	if fn == nil {
		return ""
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}

	name := strings.TrimSuffix(f.Name(), "-fm")
	for {
		i := strings.LastIndex(name, ".")
		if i < 0 || i < strings.LastIndex(name, "/") || !closurePart.MatchString(name[i+1:]) {
			return name
		}
		name = name[:i]
	}
}
